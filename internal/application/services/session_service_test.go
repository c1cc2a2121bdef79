package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/journeykit/journeykit-go/internal/apperror"
)

func TestSessionLifecycle(t *testing.T) {
	service := NewSessionService(time.Hour, newTestLogger(t))

	session := service.Create()
	require.NotEmpty(t, session.ID)
	require.NotNil(t, session.Store)
	assert.Equal(t, 1, service.Count())

	got, err := service.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	service.Delete(session.ID)
	assert.Equal(t, 0, service.Count())

	_, err = service.Get(session.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetUnknownSessionIsNotFound(t *testing.T) {
	service := NewSessionService(time.Hour, newTestLogger(t))

	_, err := service.Get("missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestEvictExpiredSessions(t *testing.T) {
	service := NewSessionService(time.Nanosecond, newTestLogger(t))

	stale := service.Create()
	time.Sleep(time.Millisecond)
	service.evictExpired()

	assert.Equal(t, 0, service.Count())
	_, err := service.Get(stale.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
