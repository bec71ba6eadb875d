// Package oddsapi adapts The Odds API v4 into odds-feed games.
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rewired-gh/oddsboard/internal/models"
	"github.com/rewired-gh/oddsboard/internal/upstream"
)

// Client provides access to The Odds API
type Client struct {
	http    *upstream.Client
	baseURL string
	apiKey  string
	sport   string
	region  string
}

// Game represents a game from The Odds API
type Game struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker represents one sportsbook's markets for a game
type Bookmaker struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// Market represents one market (h2h, spreads, totals) offered by a bookmaker
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is a priced side of a market. Price is American odds.
type Outcome struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// NewClient creates a new Odds API client
func NewClient(baseURL, apiKey, sport, region string, httpClient *upstream.Client) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		sport:   sport,
		region:  region,
	}
}

// FetchOdds retrieves moneyline odds for the configured sport and region.
// A missing key or a non-success status is reported in the feed result;
// the error return is reserved for transport and decoding failures.
func (c *Client) FetchOdds(ctx context.Context) (models.OddsFeed, error) {
	if c.apiKey == "" {
		return models.FeedFailed[models.OddsGame](models.FeedOdds, "Missing ODDS_API_KEY"), nil
	}

	resp, err := c.http.Get(ctx, c.oddsURL(), nil)
	if err != nil {
		return models.OddsFeed{}, fmt.Errorf("failed to fetch odds: %w", err)
	}
	if !resp.OK() {
		return models.FeedFailed[models.OddsGame](models.FeedOdds, fmt.Sprintf("Odds API error: %d", resp.StatusCode)), nil
	}

	var games []Game
	if err := json.Unmarshal(resp.Body, &games); err != nil {
		return models.OddsFeed{}, fmt.Errorf("failed to decode odds: %w", err)
	}
	if games == nil {
		return models.OddsFeed{}, fmt.Errorf("failed to decode odds: expected an array, got null")
	}

	result := make([]models.OddsGame, 0, len(games))
	for _, g := range games {
		result = append(result, toOddsGame(g))
	}
	return models.FeedOK(result), nil
}

func (c *Client) oddsURL() string {
	q := url.Values{}
	q.Set("regions", c.region)
	q.Set("markets", "h2h")
	q.Set("oddsFormat", "american")
	q.Set("dateFormat", "iso")
	q.Set("apiKey", c.apiKey)
	return fmt.Sprintf("%s/v4/sports/%s/odds/?%s", c.baseURL, url.PathEscape(c.sport), q.Encode())
}

// toOddsGame prices a game from the first bookmaker's h2h market.
func toOddsGame(g Game) models.OddsGame {
	game := models.OddsGame{
		HomeTeam: g.HomeTeam,
		AwayTeam: g.AwayTeam,
	}

	market := headToHead(g.Bookmakers)
	if market == nil {
		return game
	}
	game.HomeOdds = priceFor(market.Outcomes, g.HomeTeam)
	game.AwayOdds = priceFor(market.Outcomes, g.AwayTeam)
	return game
}

func headToHead(bookmakers []Bookmaker) *Market {
	if len(bookmakers) == 0 {
		return nil
	}
	for i := range bookmakers[0].Markets {
		if bookmakers[0].Markets[i].Key == "h2h" {
			return &bookmakers[0].Markets[i]
		}
	}
	return nil
}

// priceFor matches the outcome name exactly against the raw team name.
func priceFor(outcomes []Outcome, team string) *float64 {
	for _, o := range outcomes {
		if o.Name == team {
			return o.Price
		}
	}
	return nil
}
