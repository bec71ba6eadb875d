// Package apisports adapts the API-Sports "games" endpoint into live-feed games.
package apisports

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rewired-gh/oddsboard/internal/models"
	"github.com/rewired-gh/oddsboard/internal/score"
	"github.com/rewired-gh/oddsboard/internal/upstream"
)

// keyHeader carries the API-Sports credential.
const keyHeader = "x-apisports-key"

// Client provides access to API-Sports
type Client struct {
	http    *upstream.Client
	baseURL string
	apiKey  string
}

// GamesResponse is the envelope returned by GET /games.
type GamesResponse struct {
	Response []Game `json:"response"`
}

// Game represents a game from API-Sports.
// Score payloads differ per sport, so they decode into score.Value.
type Game struct {
	Teams struct {
		Home Team `json:"home"`
		Away Team `json:"away"`
	} `json:"teams"`
	Scores struct {
		Home score.Value `json:"home"`
		Away score.Value `json:"away"`
	} `json:"scores"`
	Status Status `json:"status"`
}

// Team is one side of a game. Only the name is used for matching.
type Team struct {
	Name string `json:"name"`
}

// Status is the game state; Short is a code like "Q3" or "HT".
type Status struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

// NewClient creates a new API-Sports client
func NewClient(baseURL, apiKey string, httpClient *upstream.Client) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// FetchLiveScores retrieves all live games.
// A missing key or a non-success status is reported in the feed result;
// the error return is reserved for transport and decoding failures.
func (c *Client) FetchLiveScores(ctx context.Context) (models.LiveFeed, error) {
	if c.apiKey == "" {
		return models.FeedFailed[models.LiveGame](models.FeedLive, "Missing APISPORTS_KEY"), nil
	}

	url := fmt.Sprintf("%s/games?live=all", c.baseURL)
	resp, err := c.http.Get(ctx, url, map[string]string{keyHeader: c.apiKey})
	if err != nil {
		return models.LiveFeed{}, fmt.Errorf("failed to fetch live scores: %w", err)
	}
	if !resp.OK() {
		return models.FeedFailed[models.LiveGame](models.FeedLive, fmt.Sprintf("API-Sports error: %d", resp.StatusCode)), nil
	}

	var body GamesResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return models.LiveFeed{}, fmt.Errorf("failed to decode live scores: %w", err)
	}

	games := make([]models.LiveGame, 0, len(body.Response))
	for _, g := range body.Response {
		games = append(games, toLiveGame(g))
	}
	return models.FeedOK(games), nil
}

// toLiveGame formats the score only for a game that is live and has both scores.
func toLiveGame(g Game) models.LiveGame {
	game := models.LiveGame{
		HomeTeam: g.Teams.Home.Name,
		AwayTeam: g.Teams.Away.Name,
	}

	home, homeOK := score.Extract(g.Scores.Home)
	away, awayOK := score.Extract(g.Scores.Away)
	if g.Status.IsLive() && homeOK && awayOK {
		s := score.Format(home) + " - " + score.Format(away)
		game.LiveScore = &s
	}
	return game
}

// Token returns the short status code, falling back to the long description.
func (s Status) Token() string {
	if s.Short != "" {
		return s.Short
	}
	return s.Long
}

// IsLive reports whether the provider gave any status at all.
func (s Status) IsLive() bool {
	return s.Token() != ""
}
