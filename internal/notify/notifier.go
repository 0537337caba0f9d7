package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Toast is one transient notification.
type Toast struct {
	ID      int64
	Level   Level
	Message string
	At      time.Time
}

// Notifier keeps the queue of visible toasts. Each toast auto-dismisses after
// the configured TTL; a failure never stays on screen past that, and nothing
// here is fatal to the rest of the page.
type Notifier struct {
	mu     sync.Mutex
	logger *zap.Logger
	ttl    time.Duration
	nextID int64
	active []Toast
}

func New(logger *zap.Logger, ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &Notifier{
		logger: logger,
		ttl:    ttl,
	}
}

func (n *Notifier) Success(msg string) { n.push(LevelSuccess, msg) }
func (n *Notifier) Error(msg string)   { n.push(LevelError, msg) }
func (n *Notifier) Warning(msg string) { n.push(LevelWarning, msg) }
func (n *Notifier) Info(msg string)    { n.push(LevelInfo, msg) }

func (n *Notifier) push(level Level, msg string) {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.active = append(n.active, Toast{
		ID:      id,
		Level:   level,
		Message: msg,
		At:      time.Now(),
	})
	n.mu.Unlock()

	n.logger.Info("Notification shown",
		zap.String("level", string(level)),
		zap.String("message", msg))

	time.AfterFunc(n.ttl, func() { n.Dismiss(id) })
}

// Dismiss removes one toast; a no-op if it already expired.
func (n *Notifier) Dismiss(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, t := range n.active {
		if t.ID == id {
			n.active = append(n.active[:i], n.active[i+1:]...)
			return
		}
	}
}

// Active returns a snapshot of the currently visible toasts.
func (n *Notifier) Active() []Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Toast, len(n.active))
	copy(out, n.active)
	return out
}
