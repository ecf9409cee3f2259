package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationServiceDeduplicatesByID(t *testing.T) {
	svc := NewNotificationService()
	svc.SessionExpired("s1")
	svc.SessionExpired("s1")
	svc.Push("s1", Notification{Level: NotificationInfo, Message: "saved"})

	got := svc.Drain("s1")
	require.Len(t, got, 2)
	assert.Equal(t, SessionExpiredNotificationID, got[0].ID)
	assert.Equal(t, "saved", got[1].Message)
	assert.False(t, got[0].CreatedAt.IsZero())

	assert.Empty(t, svc.Drain("s1"))
}

func TestNotificationServiceIsolatesSessions(t *testing.T) {
	svc := NewNotificationService()
	svc.SessionExpired("s1")

	assert.Empty(t, svc.Drain("s2"))
	svc.Forget("s1")
	assert.Empty(t, svc.Drain("s1"))
}
