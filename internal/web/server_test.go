package web

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syncuphq/syncup-analytics/internal/analytics"
	"github.com/syncuphq/syncup-analytics/internal/simulate"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg := simulate.DefaultConfig()
	cfg.NumUsers = 300
	data := simulate.Run(rand.New(rand.NewSource(42)), cfg)

	engine, err := analytics.NewEngine(context.Background(), data.Users, data.Events)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })

	return NewServer(engine, zap.NewNop(), 0)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, testServer(t), "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestIndexServed(t *testing.T) {
	rec := get(t, testServer(t), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SyncUp Analytics Dashboard")
}

func TestAPIOverview(t *testing.T) {
	rec := get(t, testServer(t), "/api/overview")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Overview struct {
			TotalUsers int64 `json:"total_users"`
		} `json:"overview"`
		Funnel struct {
			Steps []struct {
				Users int64 `json:"users"`
			} `json:"steps"`
		} `json:"funnel"`
		Cohorts []json.RawMessage `json:"cohorts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, int64(300), payload.Overview.TotalUsers)
	require.Len(t, payload.Funnel.Steps, 5)
	assert.Equal(t, int64(300), payload.Funnel.Steps[0].Users)
	assert.Len(t, payload.Cohorts, 2)
}

func TestAPIUsers_Filtered(t *testing.T) {
	rec := get(t, testServer(t), "/api/users?group=B&limit=50")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Users []struct {
			Group string `json:"ab_test_group"`
		} `json:"users"`
		Warning string `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Empty(t, payload.Warning)
	require.NotEmpty(t, payload.Users)
	assert.LessOrEqual(t, len(payload.Users), 50)
	for _, u := range payload.Users {
		assert.Equal(t, "B", u.Group)
	}
}

func TestAPIUsers_MalformedUserIDIsNonFatal(t *testing.T) {
	rec := get(t, testServer(t), "/api/users?user_id=abc")
	require.Equal(t, http.StatusOK, rec.Code, "a bad filter must not fail the request")

	var payload struct {
		Count   int    `json:"count"`
		Warning string `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Contains(t, payload.Warning, "user_id")
	assert.Greater(t, payload.Count, 0, "filter is ignored, not applied")
}

func TestAPIExportUsers_CSV(t *testing.T) {
	rec := get(t, testServer(t), "/api/export/users?plan=Free")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "users.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Greater(t, len(lines), 1)
	assert.Equal(t, "user_id,sign_up_date,plan_type,ab_test_group,event_count", lines[0])
	for _, line := range lines[1:] {
		assert.Contains(t, line, ",Free,")
	}
}

func TestAPIExportUsers_JSON(t *testing.T) {
	rec := get(t, testServer(t), "/api/export/users?format=json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var users []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 300)
}
