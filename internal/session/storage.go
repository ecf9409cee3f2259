package session

import (
	"context"
	"sync"
)

// Slots names the two durable key/value slots of a session.
type Slots struct {
	User  string
	Token string
}

// DefaultSlots are the slot names used when none are configured.
var DefaultSlots = Slots{User: "gym_user", Token: "gym_token"}

func (s Slots) withDefaults() Slots {
	if s.User == "" {
		s.User = DefaultSlots.User
	}
	if s.Token == "" {
		s.Token = DefaultSlots.Token
	}
	return s
}

// Storage is durable key/value storage scoped by session id. Writes to
// different slots are independent; callers must tolerate one slot being set
// while the other is not.
type Storage interface {
	Get(ctx context.Context, sessionID, slot string) (value string, found bool, err error)
	Set(ctx context.Context, sessionID, slot, value string) error
	Remove(ctx context.Context, sessionID, slot string) error
}

// MemoryStorage keeps slots in process memory.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string]map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[string]map[string]string)}
}

// Get implements Storage.
func (m *MemoryStorage) Get(_ context.Context, sessionID, slot string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.slots[sessionID][slot]
	return value, ok, nil
}

// Set implements Storage.
func (m *MemoryStorage) Set(_ context.Context, sessionID, slot, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.slots[sessionID]
	if !ok {
		bucket = make(map[string]string)
		m.slots[sessionID] = bucket
	}
	bucket[slot] = value
	return nil
}

// Remove implements Storage.
func (m *MemoryStorage) Remove(_ context.Context, sessionID, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.slots[sessionID]
	if !ok {
		return nil
	}
	delete(bucket, slot)
	if len(bucket) == 0 {
		delete(m.slots, sessionID)
	}
	return nil
}
