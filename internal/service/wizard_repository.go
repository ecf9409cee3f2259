package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	appErrors "github.com/noah-isme/gym-admin-console/pkg/errors"
)

// WizardRepository persists the snapshots of in-progress multi-step forms.
// Get returns appErrors.ErrCacheMiss for unknown or expired keys.
type WizardRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryWizardRepository is a process-local WizardRepository.
type MemoryWizardRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryWizardRepository constructs an empty repository.
func NewMemoryWizardRepository() *MemoryWizardRepository {
	return &MemoryWizardRepository{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get implements WizardRepository.
func (r *MemoryWizardRepository) Get(_ context.Context, key string, dest interface{}) error {
	r.mu.Lock()
	entry, ok := r.entries[key]
	if ok && !entry.expiresAt.IsZero() && !r.now().Before(entry.expiresAt) {
		delete(r.entries, key)
		ok = false
	}
	r.mu.Unlock()
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("unmarshal wizard state for %s: %w", key, err)
	}
	return nil
}

// Set implements WizardRepository. A non-positive ttl never expires.
func (r *MemoryWizardRepository) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal wizard state for %s: %w", key, err)
	}
	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = r.now().Add(ttl)
	}
	r.mu.Lock()
	r.entries[key] = entry
	r.mu.Unlock()
	return nil
}

// Delete implements WizardRepository.
func (r *MemoryWizardRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()
	return nil
}

// DeletePrefix implements WizardRepository.
func (r *MemoryWizardRepository) DeletePrefix(_ context.Context, prefix string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for key := range r.entries {
		if strings.HasPrefix(key, prefix) {
			delete(r.entries, key)
			dropped++
		}
	}
	return dropped, nil
}
