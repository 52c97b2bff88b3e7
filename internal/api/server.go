// Package api provides the devxp HTTP server: REST endpoints for recording
// activity and reading progression state, plus a live event feed over SSE.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/whoamaiii/devxp/internal/app/engagement"
	"github.com/whoamaiii/devxp/internal/domain"
	"github.com/whoamaiii/devxp/internal/health"
	"github.com/whoamaiii/devxp/internal/infra/metrics"
)

// Host is the daemon surface the API serves. Requests with no user resolve
// to the host's configured default.
type Host interface {
	RecordActivity(req domain.RecordRequest) (*domain.RecordOutcome, error)
	PreviewActivity(req domain.RecordRequest) (*domain.XPResult, error)
	Profile(userID string) (*domain.UserProfile, error)
	LevelStatus(userID string) (*domain.LevelStatus, error)
	StreakStatus(userID string) (*domain.StreakStatus, error)
	Achievements(userID string, includeHidden bool) []engagement.AchievementView
	AchievementStats(userID string) domain.AchievementStats
	ChallengeBoard(userID string) domain.ChallengeBoard
	NewDailyChallenge(userID string) (domain.Challenge, error)
	NewWeeklyChallenge(userID string) (domain.Challenge, error)
	Leaderboard(limit int) ([]domain.LeaderboardEntry, error)
	RecentEvents(userID string, limit int) ([]domain.Event, error)
	RecentActivities(userID string, limit int) ([]domain.ActivityRecord, error)
	HealthStatuses() []health.Status
	Healthy() bool
	Uptime() time.Duration
}

// Options tunes the server surface.
type Options struct {
	Version     string
	DefaultUser string
	CORSOrigins []string
	Metrics     bool
}

// Server is the devxp HTTP API server.
type Server struct {
	host Host
	opts Options
	hub  *EventHub
}

// NewServer creates an API server over the given host.
func NewServer(host Host, opts Options) *Server {
	return &Server{host: host, opts: opts, hub: NewEventHub()}
}

// Broadcast pushes an event to every live feed subscriber.
func (s *Server) Broadcast(ev domain.Event) { s.hub.Broadcast(ev) }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(corsMiddleware(s.opts.CORSOrigins))
	r.Use(requestMetrics)

	r.Get("/health", s.handleHealth)

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": s.opts.Version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/activity", s.handleRecordActivity)
		r.Get("/activity/recent", s.handleRecentActivities)
		r.Get("/profile", s.handleProfile)
		r.Get("/level", s.handleLevel)
		r.Get("/xp/preview", s.handlePreviewXP)
		r.Get("/streak", s.handleStreak)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/achievements/stats", s.handleAchievementStats)
		r.Get("/challenges", s.handleChallenges)
		r.Post("/challenges/daily", s.handleNewDailyChallenge)
		r.Post("/challenges/weekly", s.handleNewWeeklyChallenge)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/events", s.handleRecentEvents)
		r.Get("/events/live", s.hub.HandleEventsSSE)
	})

	// Prometheus metrics endpoint
	if s.opts.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// userFrom resolves the acting user for a request. An empty result means
// the host's default user.
func userFrom(r *http.Request) string {
	return r.URL.Query().Get("user")
}

// limitFrom parses the optional ?limit= parameter.
func limitFrom(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers. An origins list containing "*" allows
// every origin; otherwise only listed origins are echoed back.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestMetrics counts requests per route pattern and status code.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
	})
}
