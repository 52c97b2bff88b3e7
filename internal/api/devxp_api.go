package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/whoamaiii/devxp/internal/domain"
)

// ─── devxp REST API (/api/*) ─────────────────────────────────────────────────
// These endpoints serve the CLI, shell integrations, and any dashboard
// pointed at the daemon.
//
//	POST /api/activity            record one developer action
//	GET  /api/activity/recent     latest awards, newest first
//	GET  /api/xp/preview          dry-run award calculation
//	GET  /api/profile             stored profile
//	GET  /api/level               level, XP, progress to next
//	GET  /api/streak              streak standing and next milestone
//	GET  /api/achievements        catalog joined with progress
//	GET  /api/achievements/stats  unlock totals per category
//	GET  /api/challenges          active challenges and owed bonuses
//	POST /api/challenges/daily    roll a fresh daily challenge
//	POST /api/challenges/weekly   draw a weekly challenge
//	GET  /api/leaderboard         top users by total XP
//	GET  /api/events              recent engagement events
//	GET  /api/events/live         SSE feed of events as they fire

// --- /health ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := s.host.HealthStatuses()
	status := http.StatusOK
	state := "ok"
	if !s.host.Healthy() {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
	})
}

// --- /api/status ---

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "devxp is running",
		"version": s.opts.Version,
		"user":    s.opts.DefaultUser,
		"uptime":  s.host.Uptime().Round(time.Second).String(),
	})
}

// --- /api/activity (record) ---

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	var req domain.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "missing activity type")
		return
	}

	outcome, err := s.host.RecordActivity(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// --- /api/activity/recent ---

func (s *Server) handleRecentActivities(w http.ResponseWriter, r *http.Request) {
	records, err := s.host.RecentActivities(userFrom(r), limitFrom(r, 20))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activities": records,
		"count":      len(records),
	})
}

// --- /api/xp/preview ---

func (s *Server) handlePreviewXP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("type") == "" {
		writeError(w, http.StatusBadRequest, "missing activity type")
		return
	}

	req := domain.RecordRequest{
		UserID: q.Get("user"),
		Type:   domain.ActivityType(q.Get("type")),
		Context: domain.ActivityContext{
			Difficulty: domain.Difficulty(q.Get("difficulty")),
			FirstTime:  q.Get("first_time") == "true",
		},
	}
	if raw := q.Get("quality"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid quality")
			return
		}
		req.Context.Quality = n
		req.Context.Scored = true
	}
	if raw := q.Get("lines"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid lines")
			return
		}
		req.Context.Lines = n
	}

	res, err := s.host.PreviewActivity(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- /api/profile ---

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.host.Profile(userFrom(r))
	if errors.Is(err, domain.ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// --- /api/level ---

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	status, err := s.host.LevelStatus(userFrom(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// --- /api/streak ---

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	status, err := s.host.StreakStatus(userFrom(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// --- /api/achievements ---

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	includeHidden := r.URL.Query().Get("all") == "true"
	views := s.host.Achievements(userFrom(r), includeHidden)

	unlocked := 0
	for _, v := range views {
		if v.State.Unlocked {
			unlocked++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": views,
		"count":        len(views),
		"unlocked":     unlocked,
	})
}

// --- /api/achievements/stats ---

func (s *Server) handleAchievementStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.host.AchievementStats(userFrom(r)))
}

// --- /api/challenges ---

func (s *Server) handleChallenges(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.host.ChallengeBoard(userFrom(r)))
}

func (s *Server) handleNewDailyChallenge(w http.ResponseWriter, r *http.Request) {
	ch, err := s.host.NewDailyChallenge(userFrom(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleNewWeeklyChallenge(w http.ResponseWriter, r *http.Request) {
	ch, err := s.host.NewWeeklyChallenge(userFrom(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

// --- /api/leaderboard ---

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.host.Leaderboard(limitFrom(r, 10))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leaderboard": entries,
		"count":       len(entries),
	})
}

// --- /api/events ---

func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.host.RecentEvents(userFrom(r), limitFrom(r, 20))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}
