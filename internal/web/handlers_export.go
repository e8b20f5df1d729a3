package web

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// handleAPIExportUsers streams the filtered raw-data subset as CSV
// (default) or JSON, honoring the same filters as /api/users.
func (s *Server) handleAPIExportUsers(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	filter, warning := parseUserFilter(r, 0)
	if warning != "" {
		s.logger.Warn("ignoring malformed filter", zap.String("warning", warning))
	}

	users, err := s.engine.Users(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename=users.json")

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(users)

	default: // csv
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=users.csv")

		writer := csv.NewWriter(w)
		defer writer.Flush()

		_ = writer.Write([]string{"user_id", "sign_up_date", "plan_type", "ab_test_group", "event_count"})
		for _, u := range users {
			_ = writer.Write([]string{
				strconv.Itoa(u.UserID),
				u.SignUpDate,
				u.Plan,
				u.Group,
				strconv.FormatInt(u.EventCount, 10),
			})
		}
	}
}
