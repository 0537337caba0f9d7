package edit

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"printcalc/internal/notify"
)

// INLINE EDIT
//
// Double-click-to-edit-in-place, used everywhere instead of separate edit
// forms. Per field the machine is Idle -> Editing -> {Saving -> Idle |
// Cancelled -> Idle}. At most one field is being edited process-wide;
// starting a second edit force-commits the first.

// Validator checks a trimmed candidate value before anything is sent.
type Validator func(value string) error

// Saver persists the new value and returns the canonical display value echoed
// by the server. The display is always updated from the echo, never from the
// locally typed text, so server-side normalization wins.
type Saver func(ctx context.Context, value string) (string, error)

// Field is one inline-editable scalar.
type Field struct {
	Name     string
	Validate Validator
	Save     Saver

	mu      sync.Mutex
	display string
}

func NewField(name, display string, validate Validator, save Saver) *Field {
	return &Field{
		Name:     name,
		Validate: validate,
		Save:     save,
		display:  display,
	}
}

// Display returns the current display text of the field.
func (f *Field) Display() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.display
}

// SetDisplay replaces the display text outside of an edit, e.g. after a
// server refresh.
func (f *Field) SetDisplay(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.display = v
}

type Editor struct {
	mu        sync.Mutex
	logger    *zap.Logger
	notifier  *notify.Notifier
	blurDelay time.Duration
	active    *Session
}

func NewEditor(logger *zap.Logger, notifier *notify.Notifier, blurDelay time.Duration) *Editor {
	if blurDelay <= 0 {
		blurDelay = 100 * time.Millisecond
	}
	return &Editor{
		logger:    logger,
		notifier:  notifier,
		blurDelay: blurDelay,
	}
}

// Session is one in-progress edit of one field.
type Session struct {
	editor   *Editor
	field    *Field
	original string
	input    string

	mu        sync.Mutex
	blurTimer *time.Timer
	done      bool
}

// Begin opens an edit on the field. If another field is still being edited it
// is committed first. A double-click on the field whose blur commit is still
// pending reopens the same session instead of committing it.
func (e *Editor) Begin(ctx context.Context, f *Field) *Session {
	e.mu.Lock()
	if prev := e.active; prev != nil {
		if prev.field == f && prev.cancelBlur() {
			e.mu.Unlock()
			return prev
		}
		e.active = nil
		e.mu.Unlock()
		if err := prev.commit(ctx); err != nil {
			e.logger.Warn("Forced commit of previous edit failed",
				zap.String("field", prev.field.Name),
				zap.Error(err))
		}
		e.mu.Lock()
	}

	s := &Session{
		editor:   e,
		field:    f,
		original: f.Display(),
		input:    f.Display(),
	}
	e.active = s
	e.mu.Unlock()

	e.logger.Debug("Inline edit started", zap.String("field", f.Name))
	return s
}

// Editing reports whether any field is currently being edited.
func (e *Editor) Editing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active != nil
}

func (e *Editor) clearActive(s *Session) {
	e.mu.Lock()
	if e.active == s {
		e.active = nil
	}
	e.mu.Unlock()
}

// SetInput replaces the typed value of the shadow input.
func (s *Session) SetInput(v string) {
	s.mu.Lock()
	s.input = v
	s.mu.Unlock()
}

// Input returns the current typed value.
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Commit ends the edit and persists the value. Triggered by Enter or Tab.
func (s *Session) Commit(ctx context.Context) error {
	s.cancelBlur()
	s.editor.clearActive(s)
	return s.commit(ctx)
}

// CommitOnBlur schedules a delayed commit. The delay lets a double-click on
// the same field win over the blur it causes, avoiding a spurious
// commit-then-reopen cycle.
func (s *Session) CommitOnBlur(ctx context.Context) {
	s.mu.Lock()
	if s.done || s.blurTimer != nil {
		s.mu.Unlock()
		return
	}
	s.blurTimer = time.AfterFunc(s.editor.blurDelay, func() {
		s.mu.Lock()
		s.blurTimer = nil
		s.mu.Unlock()
		s.editor.clearActive(s)
		_ = s.commit(ctx)
	})
	s.mu.Unlock()
}

// Cancel discards the typed value and restores the original display.
// Triggered by Escape. No request is made.
func (s *Session) Cancel() {
	s.cancelBlur()
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.mu.Unlock()

	s.editor.clearActive(s)
	s.field.SetDisplay(s.original)
	s.editor.logger.Debug("Inline edit cancelled", zap.String("field", s.field.Name))
}

// cancelBlur stops a pending blur commit. Reports whether one was pending.
func (s *Session) cancelBlur() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blurTimer == nil {
		return false
	}
	s.blurTimer.Stop()
	s.blurTimer = nil
	return true
}

func (s *Session) commit(ctx context.Context) error {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return nil
	}
	s.done = true
	value := strings.TrimSpace(s.input)
	s.mu.Unlock()

	// Unchanged value: back to idle without touching the network.
	if value == s.original {
		return nil
	}

	if s.field.Validate != nil {
		if err := s.field.Validate(value); err != nil {
			s.field.SetDisplay(s.original)
			s.editor.notifier.Error(err.Error())
			return err
		}
	}

	// Optimistic display, rolled back on any failure.
	s.field.SetDisplay(value)

	canonical, err := s.field.Save(ctx, value)
	if err != nil {
		s.field.SetDisplay(s.original)
		s.editor.notifier.Error("Не удалось сохранить изменения")
		s.editor.logger.Error("Inline edit save failed",
			zap.String("field", s.field.Name),
			zap.Error(err))
		return err
	}

	s.field.SetDisplay(canonical)
	return nil
}

// ToggleSaver persists a boolean flip and returns the canonical stored value.
type ToggleSaver func(ctx context.Context, value bool) (bool, error)

// Toggle is the simplified two-state edit for boolean fields: a double-click
// flips the value and persists immediately, no shadow input involved.
func (e *Editor) Toggle(ctx context.Context, name string, current bool, save ToggleSaver) (bool, error) {
	got, err := save(ctx, !current)
	if err != nil {
		e.notifier.Error("Не удалось сохранить изменения")
		e.logger.Error("Toggle save failed",
			zap.String("field", name),
			zap.Error(err))
		return current, err
	}
	return got, nil
}
