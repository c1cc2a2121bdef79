package services

import (
	"sync"
	"time"

	"github.com/journeykit/journeykit-go/internal/apperror"
	"github.com/journeykit/journeykit-go/internal/domain/builder"
	"github.com/journeykit/journeykit-go/internal/infrastructure/observability/logging"
	"github.com/journeykit/journeykit-go/internal/infrastructure/security"
)

// BuilderSession binds a builder store to a session id for the lifetime of
// an editing session.
type BuilderSession struct {
	ID           string
	Store        *builder.Store
	CreatedAt    time.Time
	LastActivity time.Time
}

// SessionService holds live builder sessions in memory. Sessions idle past
// the TTL are evicted by a background sweep.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*BuilderSession

	ttl    time.Duration
	logger *logging.ChanneledLogger
	stop   chan struct{}
}

// NewSessionService creates a new session service
func NewSessionService(ttl time.Duration, logger *logging.ChanneledLogger) *SessionService {
	return &SessionService{
		sessions: make(map[string]*BuilderSession),
		ttl:      ttl,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Create starts a new builder session with a fresh store.
func (s *SessionService) Create() *BuilderSession {
	now := time.Now().UTC()
	session := &BuilderSession{
		ID:           security.GenerateULID(),
		Store:        builder.NewStore(),
		CreatedAt:    now,
		LastActivity: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Session().Info("Builder session created", "sessionId", session.ID)
	return session
}

// Get returns the session and bumps its activity timestamp.
func (s *SessionService) Get(sessionID string) (*BuilderSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, apperror.NotFound("session", sessionID)
	}
	session.LastActivity = time.Now().UTC()
	return session, nil
}

// Delete removes a session. Deleting an unknown session is a no-op.
func (s *SessionService) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Count returns the number of live sessions.
func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartCleanup launches the background eviction sweep.
func (s *SessionService) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.evictExpired()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the background sweep.
func (s *SessionService) Stop() {
	close(s.stop)
}

func (s *SessionService) evictExpired() {
	cutoff := time.Now().UTC().Add(-s.ttl)

	s.mu.Lock()
	var expired []string
	for id, session := range s.sessions {
		if session.LastActivity.Before(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if len(expired) > 0 {
		s.logger.Session().Info("Evicted expired builder sessions", "count", len(expired))
	}
}
