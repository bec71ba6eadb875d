// Package models defines the value objects that flow between the feed
// adapters, the merge engine and the board endpoint.
//
// Terminology:
//   - Odds feed: upstream provider of pre-game moneyline prices (The Odds API).
//   - Live feed: upstream provider of in-progress scores (API-Sports).
//   - Board: the unified list of games served to clients.
//
// All types here are plain values. Nothing mutates them after the adapter or
// merge step that built them.
package models

// OddsGame is one game as reported by the odds feed.
// Team names are the provider's raw strings and are authoritative for display.
type OddsGame struct {
	HomeTeam string   `json:"homeTeam"`
	AwayTeam string   `json:"awayTeam"`
	HomeOdds *float64 `json:"homeOdds"` // American moneyline, nil when unpriced
	AwayOdds *float64 `json:"awayOdds"`
}

// LiveGame is one game as reported by the live-score feed.
type LiveGame struct {
	HomeTeam  string  `json:"homeTeam"`
	AwayTeam  string  `json:"awayTeam"`
	LiveScore *string `json:"liveScore"` // "<home> - <away>", nil unless live with both scores
}

// UnifiedGame is one row of the board: the odds game plus the score of the
// live game it was matched to, if any.
type UnifiedGame struct {
	HomeTeam  string   `json:"homeTeam"`
	AwayTeam  string   `json:"awayTeam"`
	HomeOdds  *float64 `json:"homeOdds"`
	AwayOdds  *float64 `json:"awayOdds"`
	LiveScore *string  `json:"liveScore"`
}

// Matchup returns the "home vs away" label used by the page and the CLI.
func (g UnifiedGame) Matchup() string {
	return g.HomeTeam + " vs " + g.AwayTeam
}
