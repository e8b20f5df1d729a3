package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syncuphq/syncup-analytics/internal/analytics"
)

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

// handleAPIOverview assembles the full landing-page payload. The four
// aggregations are independent reads, so they run concurrently.
func (s *Server) handleAPIOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		overview *analytics.Overview
		funnel   *analytics.FunnelReport
		abtest   *analytics.ABTestReport
		cohorts  []analytics.CohortRetention
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview, err = s.engine.Overview(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		funnel, err = s.engine.Funnel(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		abtest, err = s.engine.ABTest(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cohorts, err = s.engine.Cohorts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("overview aggregation", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, map[string]any{
		"overview": overview,
		"funnel":   funnel,
		"abtest":   abtest,
		"cohorts":  cohorts,
	})
}

func (s *Server) handleAPIFunnel(w http.ResponseWriter, r *http.Request) {
	funnel, err := s.engine.Funnel(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, funnel)
}

func (s *Server) handleAPIABTest(w http.ResponseWriter, r *http.Request) {
	abtest, err := s.engine.ABTest(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, abtest)
}

func (s *Server) handleAPICohorts(w http.ResponseWriter, r *http.Request) {
	cohorts, err := s.engine.Cohorts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, map[string]any{"cohorts": cohorts})
}

func (s *Server) handleAPIUsers(w http.ResponseWriter, r *http.Request) {
	filter, warning := parseUserFilter(r, 500)
	if warning != "" {
		s.logger.Warn("ignoring malformed filter", zap.String("warning", warning))
	}

	users, err := s.engine.Users(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := map[string]any{
		"users": users,
		"count": len(users),
	}
	if warning != "" {
		resp["warning"] = warning
	}
	s.writeJSON(w, resp)
}

// parseUserFilter reads the dashboard filter query parameters. A
// malformed user-id is not fatal: the filter is dropped and reported
// back as a warning.
func parseUserFilter(r *http.Request, defaultLimit int) (analytics.UserFilter, string) {
	q := r.URL.Query()
	filter := analytics.UserFilter{
		Plan:  q.Get("plan"),
		Group: q.Get("group"),
		Month: q.Get("month"),
		Limit: defaultLimit,
	}

	var warning string
	if raw := strings.TrimSpace(q.Get("user_id")); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			filter.UserID = &id
		} else {
			warning = "user_id must be numeric, ignoring lookup: " + raw
		}
	}

	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		filter.Limit = l
	}
	return filter, warning
}
