// File: onboarding/session.go
package onboarding

import (
	"sync"
	"time"

	"heallink/database/keyvalue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OnboardingKeyPrefix namespaces progress blobs in the durable store.
const OnboardingKeyPrefix = "onboarding:"

type sessionEntry struct {
	store    *ProgressStore
	lastSeen time.Time
}

// SessionManager hands out one ProgressStore per onboarding session.
// Stores are created on first use and rehydrated from the durable store,
// so a session survives both page reloads and process restarts. Idle
// stores are evicted in step with the durable copy's TTL; the next
// request simply rehydrates.
type SessionManager struct {
	kv      keyvalue.Store
	backend SubmissionBackend
	logger  *zap.Logger

	mu     sync.Mutex
	stores map[string]*sessionEntry
}

func NewSessionManager(kv keyvalue.Store, backend SubmissionBackend, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		kv:      kv,
		backend: backend,
		logger:  logger,
		stores:  make(map[string]*sessionEntry),
	}
}

// GenerateSessionID returns a new unique onboarding session ID.
func GenerateSessionID() string {
	return uuid.New().String()
}

// StartSession creates a fresh session and returns its ID and store.
func (m *SessionManager) StartSession() (string, *ProgressStore) {
	sessionID := GenerateSessionID()
	return sessionID, m.Store(sessionID)
}

// Store returns the ProgressStore for the session, creating it on first
// use. A previously persisted session is picked up where it left off.
func (m *SessionManager) Store(sessionID string) *ProgressStore {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.stores[sessionID]; ok {
		entry.lastSeen = time.Now()
		return entry.store
	}
	store := NewProgressStore(OnboardingKeyPrefix+sessionID, m.kv, m.backend, m.logger)
	m.stores[sessionID] = &sessionEntry{store: store, lastSeen: time.Now()}
	return store
}

// Drop forgets the in-memory store for a session. The durable copy is
// untouched; the next Store call rehydrates from it.
func (m *SessionManager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}

// EvictIdle drops every store not touched within maxIdle and returns
// how many were removed. Durable copies are untouched.
func (m *SessionManager) EvictIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, entry := range m.stores {
		if entry.lastSeen.Before(cutoff) {
			delete(m.stores, id)
			evicted++
		}
	}
	return evicted
}

// StartEviction runs EvictIdle on the given interval until the process
// exits. Anonymous session creation is unauthenticated, so without this
// the in-memory map only grows while the Redis blobs expire on TTL.
func (m *SessionManager) StartEviction(interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if n := m.EvictIdle(maxIdle); n > 0 {
				m.logger.Info("Evicted idle onboarding sessions", zap.Int("count", n))
			}
		}
	}()
}
