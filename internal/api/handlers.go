package api

import (
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"suburbdash/server/config"
	"suburbdash/server/internal/listings"
	"suburbdash/server/internal/session"
	"suburbdash/server/internal/stats"
)

const (
	sessionHeader = "X-Session-ID"
	sessionKey    = "session"
)

type Handler struct {
	fetcher  listings.Fetcher
	sessions *session.Registry
	cfg      *config.Config
	logger   *logrus.Logger
}

type SearchParams struct {
	Suburb       string `form:"suburb" json:"suburb" binding:"max=128"`
	PropertyType string `form:"property_type" json:"property_type" binding:"max=64"`
}

// canonicalType maps a supported property type to its canonical value and
// passes anything else through unchanged
func (p SearchParams) canonicalType() string {
	if pt := config.GetPropertyType(p.PropertyType); pt != nil {
		return pt.Value
	}
	return p.PropertyType
}

func NewHandler(fetcher listings.Fetcher, sessions *session.Registry, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		fetcher:  fetcher,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
}

// GetProperties fetches and normalizes listings for the query's suburb and type
func (h *Handler) GetProperties(c *gin.Context) {
	var params SearchParams
	if !h.bindQuery(c, &params) {
		return
	}

	result, err := h.fetcher.FetchProperties(c.Request.Context(), params.Suburb, params.canonicalType())
	if err != nil {
		h.fetchFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": result.Properties,
		"count":      result.Count,
		"suburb":     result.Suburb,
	})
}

// GetMetrics fetches listings and returns only the aggregated metrics
func (h *Handler) GetMetrics(c *gin.Context) {
	var params SearchParams
	if !h.bindQuery(c, &params) {
		return
	}

	result, err := h.fetcher.FetchProperties(c.Request.Context(), params.Suburb, params.canonicalType())
	if err != nil {
		h.fetchFailed(c, err)
		return
	}

	report := stats.Compute(result.Properties)
	c.JSON(http.StatusOK, gin.H{
		"suburb":                   result.Suburb,
		"propertyType":             result.PropertyType,
		"count":                    result.Count,
		"metrics":                  report.Metrics,
		"bedroomDistribution":      report.BedroomDistribution,
		"bathroomDistribution":     report.BathroomDistribution,
		"propertyTypeDistribution": report.PropertyTypeDistribution,
	})
}

// Search runs a session search and returns the refreshed dashboard
func (h *Handler) Search(c *gin.Context) {
	var params SearchParams
	if err := c.ShouldBind(&params); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WithError(err).Error("Invalid search request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search request", "details": err.Error()})
		return
	}

	s := currentSession(c)
	_, err := s.Search(c.Request.Context(), params.Suburb, params.canonicalType())
	h.respondWithDashboard(c, s, err)
}

// RetrySearch re-issues the session's last search
func (h *Handler) RetrySearch(c *gin.Context) {
	s := currentSession(c)
	_, err := s.Retry(c.Request.Context())
	h.respondWithDashboard(c, s, err)
}

// GetDashboard renders the session's current result without fetching.
// Unknown sessions get an empty dashboard and no session is created.
func (h *Handler) GetDashboard(c *gin.Context) {
	s, ok := h.sessions.Lookup(c.GetHeader(sessionHeader))
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"state":     session.State{},
			"dashboard": stats.BuildDashboard(nil, h.cfg.Search.DisplayRows),
		})
		return
	}

	c.Header(sessionHeader, s.ID())
	c.JSON(http.StatusOK, gin.H{
		"state":     s.State(),
		"dashboard": stats.BuildDashboard(s.Current(), h.cfg.Search.DisplayRows),
	})
}

func (h *Handler) GetPropertyTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"propertyTypes":       config.SupportedPropertyTypes,
		"defaultSuburb":       h.cfg.Search.DefaultSuburb,
		"defaultPropertyType": h.cfg.Search.DefaultPropertyType,
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) respondWithDashboard(c *gin.Context, s *session.Session, err error) {
	if errors.Is(err, session.ErrSuperseded) {
		h.logger.WithField("session_id", s.ID()).Info("Search superseded by a newer one")
		c.JSON(http.StatusConflict, gin.H{"error": "Search superseded", "details": err.Error()})
		return
	}
	if err != nil {
		h.fetchFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":     s.State(),
		"dashboard": stats.BuildDashboard(s.Current(), h.cfg.Search.DisplayRows),
	})
}

func (h *Handler) bindQuery(c *gin.Context, params *SearchParams) bool {
	if err := c.ShouldBindQuery(params); err != nil {
		h.logger.WithError(err).Error("Invalid search parameters")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search parameters", "details": err.Error()})
		return false
	}
	return true
}

func (h *Handler) fetchFailed(c *gin.Context, err error) {
	h.logger.WithError(err).Error("Error fetching properties")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Failed to fetch properties",
		"details": err.Error(),
	})
}

// SessionMiddleware resolves the caller's search session from the
// X-Session-ID header and echoes the ID back.
func (h *Handler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := h.sessions.Get(c.GetHeader(sessionHeader))
		c.Header(sessionHeader, s.ID())
		c.Set(sessionKey, s)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
