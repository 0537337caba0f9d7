package notify

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNotifier_PushAndDismiss(t *testing.T) {
	n := New(zap.NewNop(), time.Minute)

	n.Success("готово")
	n.Error("ошибка")

	active := n.Active()
	if len(active) != 2 {
		t.Fatalf("Expected 2 active toasts, got %d", len(active))
	}
	if active[0].Level != LevelSuccess || active[1].Level != LevelError {
		t.Errorf("Incorrect levels: %v, %v", active[0].Level, active[1].Level)
	}

	n.Dismiss(active[0].ID)
	if got := n.Active(); len(got) != 1 || got[0].Level != LevelError {
		t.Errorf("Dismiss should remove exactly one toast, got %v", got)
	}

	// Dismissing an unknown id is a no-op.
	n.Dismiss(999)
	if got := n.Active(); len(got) != 1 {
		t.Errorf("Unknown dismiss should not change the queue, got %d", len(got))
	}
}

func TestNotifier_AutoDismiss(t *testing.T) {
	n := New(zap.NewNop(), 20*time.Millisecond)

	n.Info("мигнуло")
	if len(n.Active()) != 1 {
		t.Fatal("Toast should be visible right after push")
	}

	deadline := time.Now().Add(time.Second)
	for len(n.Active()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("Toast did not auto-dismiss")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
