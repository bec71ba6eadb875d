package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/oddsboard/internal/board"
	"github.com/rewired-gh/oddsboard/internal/models"
	"github.com/rewired-gh/oddsboard/internal/monitor"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubBoard struct {
	board *board.Board
	err   error
	panic bool
}

func (s stubBoard) Fetch(ctx context.Context) (*board.Board, error) {
	if s.panic {
		panic("merge exploded")
	}
	return s.board, s.err
}

type stubHealth struct {
	feeds   []monitor.FeedState
	healthy bool
}

func (s stubHealth) Snapshot() []monitor.FeedState { return s.feeds }
func (s stubHealth) Healthy() bool                 { return s.healthy }

func f64(v float64) *float64 { return &v }
func str(s string) *string   { return &s }

func serve(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestBoard_ReturnsGames(t *testing.T) {
	b := &board.Board{Games: []models.UnifiedGame{
		{HomeTeam: "Los Angeles Lakers", AwayTeam: "Boston Celtics", HomeOdds: f64(-150), AwayOdds: f64(130), LiveScore: str("55 - 48")},
		{HomeTeam: "Miami Heat", AwayTeam: "New York Knicks"},
	}}
	w := serve(t, New(stubBoard{board: b}, nil), http.MethodGet, "/api/board")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `[
		{"homeTeam":"Los Angeles Lakers","awayTeam":"Boston Celtics","homeOdds":-150,"awayOdds":130,"liveScore":"55 - 48"},
		{"homeTeam":"Miami Heat","awayTeam":"New York Knicks","homeOdds":null,"awayOdds":null,"liveScore":null}
	]`, w.Body.String())
}

func TestBoard_EmptyIsArray(t *testing.T) {
	tests := []struct {
		name  string
		games []models.UnifiedGame
	}{
		{"nil games", nil},
		{"empty games", []models.UnifiedGame{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, New(stubBoard{board: &board.Board{Games: tt.games}}, nil), http.MethodGet, "/api/board")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "[]", w.Body.String())
		})
	}
}

func TestBoard_FeedErrorsNotInBody(t *testing.T) {
	b := &board.Board{
		Games:     []models.UnifiedGame{},
		OddsError: &models.FeedError{Feed: models.FeedOdds, Reason: "Missing ODDS_API_KEY"},
	}
	w := serve(t, New(stubBoard{board: b}, nil), http.MethodGet, "/api/board")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestBoard_HardFailure(t *testing.T) {
	w := serve(t, New(stubBoard{err: errors.New("failed to fetch odds: connection refused")}, nil), http.MethodGet, "/api/board")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())
}

func TestBoard_PanicRecovered(t *testing.T) {
	w := serve(t, New(stubBoard{panic: true}, nil), http.MethodGet, "/api/board")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())
}

func TestIndex(t *testing.T) {
	w := serve(t, New(stubBoard{}, nil), http.MethodGet, "/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "fetch('/api/board')")
	assert.Contains(t, body, "setInterval(loadBoard, 30000)")
	assert.Contains(t, body, "No games found.")
	assert.Contains(t, body, "Error loading data.")
	assert.Contains(t, body, "Pregame")
}

func TestHealth(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	health := stubHealth{
		feeds: []monitor.FeedState{
			{Feed: "live", Healthy: true, LastChecked: now, LastSuccess: now},
			{Feed: "odds", Healthy: false, ConsecutiveFailures: 2, LastError: "Missing ODDS_API_KEY", LastChecked: now, FailingSince: now},
		},
	}
	w := serve(t, New(stubBoard{}, health), http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "oddsboard", resp.Service)
	require.Len(t, resp.Feeds, 2)
	assert.Equal(t, "Missing ODDS_API_KEY", resp.Feeds[1].LastError)
}

func TestHealth_NoMonitor(t *testing.T) {
	w := serve(t, New(stubBoard{}, nil), http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, []any{}, resp["feeds"])
}

func TestHealth_Head(t *testing.T) {
	w := serve(t, New(stubBoard{}, stubHealth{healthy: true}), http.MethodHead, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	s := New(stubBoard{board: &board.Board{}}, nil)

	w := serve(t, s, http.MethodGet, "/api/board")
	generated := w.Header().Get("X-Request-ID")
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/api/board", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	w := serve(t, New(stubBoard{}, nil), http.MethodGet, "/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	srv := &http.Server{
		Addr:              "127.0.0.1:0",
		Handler:           New(stubBoard{}, nil).Handler(),
		ReadHeaderTimeout: time.Second,
	}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:-1", ReadHeaderTimeout: time.Second}

	err := Run(context.Background(), srv, time.Second)
	assert.Error(t, err)
}
