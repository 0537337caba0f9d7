// Package demostore is the standalone, client-only proschet manager. It
// mirrors the server-backed proschet flow but persists exclusively to the
// local state store and is deliberately kept isolated from the main data
// path: nothing here is authoritative.
package demostore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	listKey    = "proschets_list"
	currentKey = "current_proschet"
	numberKey  = "last_proschet_number"
)

// Store is the key-value backend (the engine's localStorage analog).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
	SaveJSON(ctx context.Context, key string, v any) error
	GetJSON(ctx context.Context, key string, v any) error
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusSaved     Status = "saved"
	StatusCancelled Status = "cancelled"
)

// allowed status transitions
var transitions = map[Status][]Status{
	StatusDraft:  {StatusActive, StatusCancelled},
	StatusActive: {StatusSaved, StatusCancelled},
}

func canTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Proschet is the local-only calculation record. IDs are client-generated
// temporaries, never server ids.
type Proschet struct {
	ID     string    `json:"id"`
	Number int64     `json:"number"`
	Date   time.Time `json:"date"`
	Status Status    `json:"status"`
	Client string    `json:"client"`
	Total  float64   `json:"total"`
}

type Manager struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger
	ttl    time.Duration
}

func NewManager(store Store, logger *zap.Logger, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		ttl:    ttl,
	}
}

// Create adds a new draft proschet with a generated temp id.
func (m *Manager) Create(ctx context.Context, client string) (*Proschet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	number, err := m.store.Incr(ctx, numberKey)
	if err != nil {
		return nil, fmt.Errorf("next proschet number: %w", err)
	}

	p := Proschet{
		ID:     fmt.Sprintf("tmp-%d-%d", number, time.Now().UnixNano()),
		Number: number,
		Date:   time.Now(),
		Status: StatusDraft,
		Client: client,
	}

	list, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	list = append(list, p)
	if err := m.save(ctx, list); err != nil {
		return nil, err
	}

	m.logger.Info("Demo proschet created",
		zap.String("id", p.ID),
		zap.Int64("number", p.Number))
	return &p, nil
}

// List returns all locally stored proschets.
func (m *Manager) List(ctx context.Context) ([]Proschet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

// SetCurrent remembers the selected proschet id.
func (m *Manager) SetCurrent(ctx context.Context, id string) error {
	return m.store.Set(ctx, currentKey, []byte(id), m.ttl)
}

// Current returns the selected proschet id, or "" when nothing is selected.
func (m *Manager) Current(ctx context.Context) string {
	data, err := m.store.Get(ctx, currentKey)
	if err != nil {
		return ""
	}
	return string(data)
}

// UpdateStatus moves a proschet through its lifecycle
// (draft -> active -> saved|cancelled).
func (m *Manager) UpdateStatus(ctx context.Context, id string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list, err := m.load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if !canTransition(list[i].Status, status) {
			return fmt.Errorf("cannot change status %s -> %s", list[i].Status, status)
		}
		list[i].Status = status
		return m.save(ctx, list)
	}
	return fmt.Errorf("proschet %s not found", id)
}

// Delete removes a proschet from the local list. Deleting the selected one
// clears the selection too.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	list, err := m.load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == id {
			list = append(list[:i], list[i+1:]...)
			if err := m.save(ctx, list); err != nil {
				return err
			}
			if m.Current(ctx) == id {
				if err := m.store.Del(ctx, currentKey); err != nil {
					m.logger.Warn("Failed to clear current proschet", zap.Error(err))
				}
			}
			return nil
		}
	}
	return fmt.Errorf("proschet %s not found", id)
}

func (m *Manager) load(ctx context.Context) ([]Proschet, error) {
	var list []Proschet
	if err := m.store.GetJSON(ctx, listKey, &list); err != nil {
		// A missing or unreadable list means an empty one.
		m.logger.Debug("No stored proschet list", zap.Error(err))
		return nil, nil
	}
	return list, nil
}

func (m *Manager) save(ctx context.Context, list []Proschet) error {
	return m.store.SaveJSON(ctx, listKey, list)
}
