package session

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"suburbdash/server/internal/listings"
	"suburbdash/server/internal/metrics"
)

const minJanitorInterval = time.Minute

// Registry hands out sessions by ID and evicts the idle ones
type Registry struct {
	fetcher listings.Fetcher
	logger  *logrus.Logger
	ttl     time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(fetcher listings.Fetcher, ttl time.Duration, logger *logrus.Logger) *Registry {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Registry{
		fetcher:  fetcher,
		logger:   logger,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use. An empty or
// malformed id gets a freshly generated one; the returned session carries it.
func (r *Registry) Get(id string) *Session {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s
	}

	s := newSession(id, r.fetcher, r.logger)
	r.sessions[id] = s
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	r.logger.WithField("session_id", id).Debug("Created search session")
	return s
}

// Lookup returns an existing session without creating one
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Start runs the idle-session janitor until ctx is done
func (r *Registry) Start(ctx context.Context) {
	if r.ttl <= 0 {
		return
	}

	interval := r.ttl / 2
	if interval < minJanitorInterval {
		interval = minJanitorInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				if n := r.EvictIdle(t); n > 0 {
					r.logger.WithField("evicted", n).Info("Evicted idle search sessions")
				}
			}
		}
	}()
}

// EvictIdle drops sessions unused for longer than the TTL as of now. Sessions
// with a search in flight are kept.
func (r *Registry) EvictIdle(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		lastUsed, busy := s.idleSince()
		if busy || now.Sub(lastUsed) <= r.ttl {
			continue
		}
		delete(r.sessions, id)
		evicted++
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return evicted
}
