package apisports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/oddsboard/internal/upstream"
)

const gamesFixture = `{
  "get": "games",
  "parameters": {"live": "all"},
  "results": 5,
  "response": [
    {
      "teams": {"home": {"id": 145, "name": "Los Angeles Lakers"}, "away": {"id": 133, "name": "Boston Celtics"}},
      "scores": {
        "home": {"quarter_1": 30, "quarter_2": 25, "over_time": null, "total": 55},
        "away": {"quarter_1": 20, "quarter_2": 28, "over_time": null, "total": 48}
      },
      "status": {"long": "Quarter 2", "short": "Q2", "timer": "4"}
    },
    {
      "teams": {"home": {"name": "Miami Heat"}, "away": {"name": "New York Knicks"}},
      "scores": {"home": "101", "away": 99.5},
      "status": {"long": "Halftime", "short": ""}
    },
    {
      "teams": {"home": {"name": "Denver Nuggets"}, "away": {"name": "Utah Jazz"}},
      "scores": {"home": {"total": null}, "away": {"total": null}},
      "status": {"long": "Not Started", "short": "NS"}
    },
    {
      "teams": {"home": {"name": "Phoenix Suns"}, "away": {"name": "Sacramento Kings"}},
      "scores": {"home": 10, "away": 12},
      "status": {"long": "", "short": ""}
    },
    {
      "teams": {"home": {"name": "Orlando Magic"}, "away": {"name": "Chicago Bulls"}},
      "scores": {"home": {"q1": 2, "q2": 3}, "away": {"q1": "7"}},
      "status": {"short": "Q2"}
    }
  ]
}`

func newTestClient(serverURL, apiKey string) *Client {
	httpClient := upstream.NewClient("apisports", upstream.ClientConfig{Timeout: 5 * time.Second})
	return NewClient(serverURL, apiKey, httpClient)
}

func TestFetchLiveScores_RequestAndParse(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("live"))
		assert.Equal(t, "test-key", r.Header.Get("x-apisports-key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(gamesFixture))
	}))
	defer mockServer.Close()

	feed, err := newTestClient(mockServer.URL+"/", "test-key").FetchLiveScores(context.Background())
	require.NoError(t, err)
	require.True(t, feed.OK())
	require.Len(t, feed.Games, 5)

	lakers := feed.Games[0]
	assert.Equal(t, "Los Angeles Lakers", lakers.HomeTeam)
	assert.Equal(t, "Boston Celtics", lakers.AwayTeam)
	require.NotNil(t, lakers.LiveScore)
	assert.Equal(t, "55 - 48", *lakers.LiveScore)

	// long status used when short is empty; string and decimal scores
	heat := feed.Games[1]
	require.NotNil(t, heat.LiveScore)
	assert.Equal(t, "101 - 99.5", *heat.LiveScore)

	// status present but scores missing
	assert.Nil(t, feed.Games[2].LiveScore)

	// scores present but no status
	assert.Nil(t, feed.Games[3].LiveScore)

	// no priority field: first field in document order
	magic := feed.Games[4]
	require.NotNil(t, magic.LiveScore)
	assert.Equal(t, "2 - 7", *magic.LiveScore)
}

func TestFetchLiveScores_MissingKey(t *testing.T) {
	var calls int32
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer mockServer.Close()

	feed, err := newTestClient(mockServer.URL, "").FetchLiveScores(context.Background())
	require.NoError(t, err)
	require.NotNil(t, feed.Err)
	assert.Equal(t, "Missing APISPORTS_KEY", feed.Err.Error())
	assert.Equal(t, "live", feed.Err.Feed)
	assert.Empty(t, feed.Games)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestFetchLiveScores_NonSuccessStatus(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer mockServer.Close()

	feed, err := newTestClient(mockServer.URL, "k").FetchLiveScores(context.Background())
	require.NoError(t, err)
	require.NotNil(t, feed.Err)
	assert.Equal(t, "API-Sports error: 403", feed.Err.Reason)
	assert.Empty(t, feed.Games)
}

func TestFetchLiveScores_MissingResponseField(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// API-Sports reports quota problems with 200 and an errors object
		_, _ = w.Write([]byte(`{"errors": {"requests": "limit reached"}}`))
	}))
	defer mockServer.Close()

	feed, err := newTestClient(mockServer.URL, "k").FetchLiveScores(context.Background())
	require.NoError(t, err)
	assert.True(t, feed.OK())
	assert.NotNil(t, feed.Games)
	assert.Empty(t, feed.Games)
}

func TestFetchLiveScores_InvalidJSON(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response": [`))
	}))
	defer mockServer.Close()

	_, err := newTestClient(mockServer.URL, "k").FetchLiveScores(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode live scores")
}

func TestToLiveGame(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *string
	}{
		{
			name: "numeric scores",
			raw:  `{"teams":{"home":{"name":"A"},"away":{"name":"B"}},"scores":{"home":3,"away":1},"status":{"short":"2H"}}`,
			want: strPtr("3 - 1"),
		},
		{
			name: "zero is a valid score",
			raw:  `{"teams":{"home":{"name":"A"},"away":{"name":"B"}},"scores":{"home":0,"away":0},"status":{"short":"1H"}}`,
			want: strPtr("0 - 0"),
		},
		{
			name: "one side missing",
			raw:  `{"teams":{"home":{"name":"A"},"away":{"name":"B"}},"scores":{"home":3,"away":null},"status":{"short":"2H"}}`,
		},
		{
			name: "non numeric score",
			raw:  `{"teams":{"home":{"name":"A"},"away":{"name":"B"}},"scores":{"home":"-","away":"1"},"status":{"short":"2H"}}`,
		},
		{
			name: "non integer team ids are ignored",
			raw:  `{"teams":{"home":{"id":"lal-145","name":"A"},"away":{"id":13.5,"name":"B"}},"scores":{"home":3,"away":1},"status":{"short":"Q4"}}`,
			want: strPtr("3 - 1"),
		},
		{
			name: "negative zero score",
			raw:  `{"teams":{"home":{"name":"A"},"away":{"name":"B"}},"scores":{"home":"-0","away":3},"status":{"short":"Q1"}}`,
			want: strPtr("0 - 3"),
		},
		{
			name: "no status object",
			raw:  `{"teams":{"home":{"name":"A"},"away":{"name":"B"}},"scores":{"home":3,"away":1}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var g Game
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &g))

			got := toLiveGame(g)
			assert.Equal(t, "A", got.HomeTeam)
			assert.Equal(t, "B", got.AwayTeam)
			if tt.want == nil {
				assert.Nil(t, got.LiveScore)
				return
			}
			require.NotNil(t, got.LiveScore)
			assert.Equal(t, *tt.want, *got.LiveScore)
		})
	}
}

func TestStatusToken(t *testing.T) {
	assert.Equal(t, "Q1", Status{Short: "Q1", Long: "Quarter 1"}.Token())
	assert.Equal(t, "Halftime", Status{Long: "Halftime"}.Token())
	assert.False(t, Status{}.IsLive())
}

func strPtr(s string) *string { return &s }
