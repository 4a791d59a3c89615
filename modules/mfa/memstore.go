package mfa

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and local development. All
// mutations run under a single mutex, giving the per-row atomicity the Store
// contract requires.
type MemoryStore struct {
	mu       sync.Mutex
	settings map[string]*Setting
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: make(map[string]*Setting)}
}

func key(userID string, method Method) string {
	return fmt.Sprintf("%s/%s", userID, method)
}

func (m *MemoryStore) FindOne(_ context.Context, userID string, method Method) (*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	setting, ok := m.settings[key(userID, method)]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *setting
	return &clone, nil
}

func (m *MemoryStore) FindByUser(_ context.Context, userID string) ([]*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Setting
	for _, setting := range m.settings {
		if setting.UserID == userID {
			clone := *setting
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *MemoryStore) Upsert(_ context.Context, setting *Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *setting
	m.settings[key(setting.UserID, setting.Method)] = &clone
	return nil
}

func (m *MemoryStore) RecordFailure(_ context.Context, userID string, method Method, maxAttempts int, lockedUntil time.Time) (*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	setting, ok := m.settings[key(userID, method)]
	if !ok {
		return nil, ErrNotFound
	}

	setting.FailedAttempts++
	if setting.FailedAttempts >= maxAttempts {
		until := lockedUntil
		setting.LockedUntil = &until
	}
	setting.UpdatedAt = time.Now()

	clone := *setting
	return &clone, nil
}

func (m *MemoryStore) RecordSuccess(_ context.Context, userID string, method Method, usedAt time.Time) (*Setting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	setting, ok := m.settings[key(userID, method)]
	if !ok {
		return nil, ErrNotFound
	}

	setting.FailedAttempts = 0
	setting.LockedUntil = nil
	used := usedAt
	setting.LastUsed = &used
	setting.UpdatedAt = usedAt

	clone := *setting
	return &clone, nil
}
