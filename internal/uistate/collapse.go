package uistate

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store is the key-value backend for client-side UI state.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

const sectionsKey = "calculator_sections"

// Collapse tracks which calculator sections are collapsed. The map is saved
// on every toggle and flushed again on shutdown.
type Collapse struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger
	ttl    time.Duration
	states map[string]bool
}

// LoadCollapse restores the saved section states. A missing or unreadable key
// starts everything expanded.
func LoadCollapse(ctx context.Context, store Store, logger *zap.Logger, ttl time.Duration) *Collapse {
	c := &Collapse{
		store:  store,
		logger: logger,
		ttl:    ttl,
		states: make(map[string]bool),
	}

	data, err := store.Get(ctx, sectionsKey)
	if err != nil {
		logger.Debug("No saved section states", zap.Error(err))
		return c
	}
	if err := json.Unmarshal(data, &c.states); err != nil {
		logger.Warn("Failed to decode saved section states", zap.Error(err))
		c.states = make(map[string]bool)
	}
	return c
}

// Toggle flips one section and persists the whole map. Returns the new state.
func (c *Collapse) Toggle(ctx context.Context, sectionID string) bool {
	c.mu.Lock()
	c.states[sectionID] = !c.states[sectionID]
	collapsed := c.states[sectionID]
	c.mu.Unlock()

	if err := c.Flush(ctx); err != nil {
		c.logger.Warn("Failed to save section states", zap.Error(err))
	}
	return collapsed
}

// IsCollapsed reports one section's state.
func (c *Collapse) IsCollapsed(sectionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[sectionID]
}

// Flush writes the current map to the store.
func (c *Collapse) Flush(ctx context.Context) error {
	c.mu.Lock()
	data, err := json.Marshal(c.states)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.store.Set(ctx, sectionsKey, data, c.ttl)
}
