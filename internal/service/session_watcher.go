package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gym-admin-console/internal/session"
)

const watcherCleanupTimeout = 5 * time.Second

type formDiscarder interface {
	DiscardAll(ctx context.Context, sessionID string) error
}

// SessionWatcher reacts to session transitions: it counts them, drops the
// forms a session left open when it ends and queues the expiry notice.
type SessionWatcher struct {
	forms         formDiscarder
	notifications *NotificationService
	metrics       *MetricsService
	logger        *zap.Logger
}

// NewSessionWatcher constructs a watcher. Any collaborator may be nil.
func NewSessionWatcher(forms formDiscarder, notifications *NotificationService, metrics *MetricsService, logger *zap.Logger) *SessionWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionWatcher{forms: forms, notifications: notifications, metrics: metrics, logger: logger}
}

// Watch follows store until its subscriptions are closed.
func (w *SessionWatcher) Watch(store *session.Store) {
	events, _ := store.Subscribe()
	go func() {
		for evt := range events {
			w.handle(evt)
		}
	}()
}

func (w *SessionWatcher) handle(evt session.Event) {
	w.metrics.RecordSessionEvent(string(evt.Type))

	switch evt.Type {
	case session.EventLogin:
		if w.notifications != nil {
			w.notifications.Forget(evt.SessionID)
		}
		if evt.Identity != nil {
			w.logger.Info("session signed in", zap.String("session_id", evt.SessionID), zap.String("user_id", evt.Identity.ID))
		}
	case session.EventLogout, session.EventExpired:
		if evt.Type == session.EventExpired && w.notifications != nil {
			w.notifications.SessionExpired(evt.SessionID)
		}
		if w.forms == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), watcherCleanupTimeout)
		defer cancel()
		if err := w.forms.DiscardAll(ctx, evt.SessionID); err != nil {
			w.logger.Warn("failed to discard forms of ended session", zap.String("session_id", evt.SessionID), zap.Error(err))
		}
	}
}
