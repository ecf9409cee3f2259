package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry owns the stores of every live browser session.
type Registry struct {
	storage Storage
	slots   Slots
	logger  *zap.Logger

	mu     sync.Mutex
	stores map[string]*Store
	hooks  []func(*Store)
}

// NewRegistry builds a registry persisting sessions into storage.
func NewRegistry(storage Storage, slots Slots, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		storage: storage,
		slots:   slots.withDefaults(),
		logger:  logger,
		stores:  make(map[string]*Store),
	}
}

// OnCreate registers fn to run for every store the registry creates, before
// it is hydrated.
func (r *Registry) OnCreate(fn func(*Store)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, fn)
}

// Get returns the store for id, creating and hydrating it on first access.
// The store is returned even when hydration fails; it then stays loading and
// hydration is retried on the next access.
func (r *Registry) Get(ctx context.Context, id string) (*Store, error) {
	r.mu.Lock()
	store, ok := r.stores[id]
	var hooks []func(*Store)
	if !ok {
		store = NewStore(id, r.storage, r.slots, r.logger)
		r.stores[id] = store
		hooks = append(hooks, r.hooks...)
	}
	r.mu.Unlock()

	for _, hook := range hooks {
		hook(store)
	}

	if store.Loading() {
		if err := store.Hydrate(ctx); err != nil {
			r.logger.Warn("session hydration failed", zap.String("session_id", id), zap.Error(err))
			return store, err
		}
	}

	store.mu.Lock()
	store.touch()
	store.mu.Unlock()
	return store, nil
}

// Peek returns the store for id without creating it.
func (r *Registry) Peek(id string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[id]
	return store, ok
}

// Forget drops the in-memory store for id. Durable state is left alone.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if store, ok := r.stores[id]; ok {
		store.Close()
		delete(r.stores, id)
	}
}

// Len returns the number of live stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Sweep forgets stores idle for longer than maxIdle and returns how many were
// dropped. Their durable state survives and is hydrated again on return.
func (r *Registry) Sweep(maxIdle time.Duration, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, store := range r.stores {
		if now.Sub(store.idleSince()) > maxIdle {
			store.Close()
			delete(r.stores, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps idle stores every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Sweep(maxIdle, now); n > 0 {
				r.logger.Debug("swept idle sessions", zap.Int("count", n))
			}
		}
	}
}
