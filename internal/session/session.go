package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"suburbdash/server/internal/listings"
	"suburbdash/server/internal/metrics"
	"suburbdash/server/internal/models"
)

var (
	// ErrSuperseded is returned to a search that a newer search of the same
	// session replaced before it completed
	ErrSuperseded = errors.New("search superseded by a newer search")
)

// Query is what the user asked for; empty fields mean provider defaults
type Query struct {
	Suburb       string `json:"suburb"`
	PropertyType string `json:"propertyType"`
}

// State is a point-in-time view of a session for the dashboard
type State struct {
	SessionID string    `json:"sessionId"`
	SearchID  string    `json:"searchId,omitempty"`
	Loading   bool      `json:"loading"`
	LastError string    `json:"lastError,omitempty"`
	Query     *Query    `json:"query,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Session owns one user's current result set. A new search cancels the one
// in flight and the latest completed search replaces the result wholesale.
type Session struct {
	id      string
	fetcher listings.Fetcher
	logger  *logrus.Logger

	mu        sync.Mutex
	current   *models.SearchResult
	lastQuery *Query
	lastErr   error
	searchID  string
	cancel    context.CancelFunc
	updatedAt time.Time
	lastUsed  time.Time
}

func newSession(id string, fetcher listings.Fetcher, logger *logrus.Logger) *Session {
	return &Session{
		id:       id,
		fetcher:  fetcher,
		logger:   logger,
		lastUsed: time.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Search runs a fetch and makes its result current unless a newer search
// started in the meantime. A failed search keeps the previous result.
func (s *Session) Search(ctx context.Context, suburb, propertyType string) (*models.SearchResult, error) {
	searchID := uuid.NewString()
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.logger.WithFields(logrus.Fields{
			"session_id": s.id,
			"search_id":  s.searchID,
		}).Info("Cancelling in-flight search")
		s.cancel()
	}
	s.searchID = searchID
	s.cancel = cancel
	s.lastQuery = &Query{Suburb: suburb, PropertyType: propertyType}
	s.lastUsed = time.Now()
	s.mu.Unlock()

	result, err := s.fetcher.FetchProperties(searchCtx, suburb, propertyType)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.searchID != searchID {
		metrics.SearchesTotal.WithLabelValues("superseded").Inc()
		return nil, ErrSuperseded
	}
	s.searchID = ""
	s.cancel = nil

	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		s.lastErr = err
		return nil, err
	}

	metrics.SearchesTotal.WithLabelValues("success").Inc()
	s.current = result
	s.lastErr = nil
	s.updatedAt = time.Now()
	return result, nil
}

// Retry re-issues the most recent search, or a default search if there was none
func (s *Session) Retry(ctx context.Context) (*models.SearchResult, error) {
	s.mu.Lock()
	q := Query{}
	if s.lastQuery != nil {
		q = *s.lastQuery
	}
	s.mu.Unlock()

	return s.Search(ctx, q.Suburb, q.PropertyType)
}

// Current returns the latest successful result, or nil before the first one
func (s *Session) Current() *models.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return s.current
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		SessionID: s.id,
		SearchID:  s.searchID,
		Loading:   s.searchID != "",
	}
	if !s.updatedAt.IsZero() {
		t := s.updatedAt
		st.UpdatedAt = &t
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	if s.lastQuery != nil {
		q := *s.lastQuery
		st.Query = &q
	}
	return st
}

// idleSince reports when the session was last used, and whether a search is running
func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed, s.searchID != ""
}
