package presence

import (
	"context"
	"sync"
)

// MemoryRegistry is the single-process registry: a lock-protected map shared
// by every in-flight event handler.
type MemoryRegistry struct {
	mu     sync.RWMutex
	byUser map[string]string // user -> conn_id
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{byUser: make(map[string]string)}
}

func (r *MemoryRegistry) SetOnline(_ context.Context, userID, connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = connID
	return nil
}

func (r *MemoryRegistry) Channel(_ context.Context, userID string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.byUser[userID]
	return connID, ok, nil
}

func (r *MemoryRegistry) RemoveIfMatches(_ context.Context, userID, connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.byUser[userID]; ok && cur == connID {
		delete(r.byUser, userID)
	}
	return nil
}
