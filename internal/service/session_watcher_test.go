package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gym-admin-console/internal/models"
	"github.com/noah-isme/gym-admin-console/internal/session"
)

type recordingDiscarder struct {
	mu       sync.Mutex
	sessions []string
}

func (r *recordingDiscarder) DiscardAll(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append(r.sessions, sessionID)
	return nil
}

func (r *recordingDiscarder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sessions...)
}

func TestSessionWatcherHandle(t *testing.T) {
	forms := &recordingDiscarder{}
	notifications := NewNotificationService()
	metrics := NewMetricsService()
	w := NewSessionWatcher(forms, notifications, metrics, nil)

	notifications.SessionExpired("s1")
	w.handle(session.Event{Type: session.EventLogin, SessionID: "s1", Identity: &models.Identity{ID: "u1"}})
	assert.Empty(t, notifications.Drain("s1"), "a fresh sign in clears stale notices")

	w.handle(session.Event{Type: session.EventExpired, SessionID: "s1"})
	w.handle(session.Event{Type: session.EventLogout, SessionID: "s2"})

	assert.Equal(t, []string{"s1", "s2"}, forms.calls())
	pending := notifications.Drain("s1")
	require.Len(t, pending, 1)
	assert.Equal(t, SessionExpiredNotificationID, pending[0].ID)
	assert.Empty(t, notifications.Drain("s2"))
	assert.Equal(t, uint64(3), metrics.Snapshot().SessionEvents)
}

func TestSessionWatcherFollowsStore(t *testing.T) {
	forms := &recordingDiscarder{}
	w := NewSessionWatcher(forms, nil, nil, nil)
	store := session.NewStore("s1", session.NewMemoryStorage(), session.DefaultSlots, nil)
	require.NoError(t, store.Hydrate(context.Background()))

	w.Watch(store)
	require.NoError(t, store.Logout(context.Background()))

	assert.Eventually(t, func() bool { return len(forms.calls()) == 1 }, time.Second, 10*time.Millisecond)
	store.Close()
}
