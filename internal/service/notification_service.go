package service

import (
	"sync"
	"time"
)

// NotificationLevel classifies a toast.
type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

// SessionExpiredNotificationID is the fixed id of the expiry toast, so that a
// burst of rejected requests surfaces a single notice.
const SessionExpiredNotificationID = "session-expired"

// Notification is a transient message shown to one browser session.
type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
}

// NotificationService queues notifications per session until the browser
// drains them. Pushing an id that is already pending replaces it.
type NotificationService struct {
	mu      sync.Mutex
	pending map[string][]Notification
	now     func() time.Time
}

// NewNotificationService constructs an empty queue.
func NewNotificationService() *NotificationService {
	return &NotificationService{pending: make(map[string][]Notification), now: time.Now}
}

// Push queues n for sessionID.
func (s *NotificationService) Push(sessionID string, n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.pending[sessionID]
	if n.ID != "" {
		for i := range queue {
			if queue[i].ID == n.ID {
				queue[i] = n
				return
			}
		}
	}
	s.pending[sessionID] = append(queue, n)
}

// SessionExpired queues the deduplicated expiry notice.
func (s *NotificationService) SessionExpired(sessionID string) {
	s.Push(sessionID, Notification{
		ID:      SessionExpiredNotificationID,
		Level:   NotificationError,
		Message: "Your session has expired or is invalid. Please sign in again.",
	})
}

// Drain returns and clears the pending notifications of sessionID.
func (s *NotificationService) Drain(sessionID string) []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := s.pending[sessionID]
	delete(s.pending, sessionID)
	if queue == nil {
		return []Notification{}
	}
	return queue
}

// Forget discards everything queued for sessionID.
func (s *NotificationService) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, sessionID)
}
