// Package merge pairs odds-feed games with live-feed games and builds the board.
//
// The odds feed drives enumeration: every odds game yields exactly one board
// row, in feed order, and live games with no odds counterpart are dropped.
// Each odds game takes the first live game (in live-feed order) whose team keys
// line up, either home-to-home and away-to-away or with the sides swapped.
// Live games are not consumed by a match, so one live game can score several
// odds rows when their team keys collide.
package merge

import (
	"github.com/rewired-gh/oddsboard/internal/models"
	"github.com/rewired-gh/oddsboard/internal/teamkey"
)

type liveKeys struct {
	home, away teamkey.KeySet
	game       *models.LiveGame
}

// Merge builds the unified board. The result is never nil.
func Merge(odds []models.OddsGame, live []models.LiveGame) []models.UnifiedGame {
	candidates := make([]liveKeys, len(live))
	for i := range live {
		candidates[i] = liveKeys{
			home: teamkey.Keys(live[i].HomeTeam),
			away: teamkey.Keys(live[i].AwayTeam),
			game: &live[i],
		}
	}

	board := make([]models.UnifiedGame, 0, len(odds))
	for _, og := range odds {
		home := teamkey.Keys(og.HomeTeam)
		away := teamkey.Keys(og.AwayTeam)

		row := models.UnifiedGame{
			HomeTeam: og.HomeTeam,
			AwayTeam: og.AwayTeam,
			HomeOdds: og.HomeOdds,
			AwayOdds: og.AwayOdds,
		}
		for _, c := range candidates {
			if Matches(home, away, c.home, c.away) {
				row.LiveScore = c.game.LiveScore
				break
			}
		}
		board = append(board, row)
	}
	return board
}

// Matches reports whether an odds game and a live game describe the same
// fixture: home aligns with home and away with away, or both sides swapped.
func Matches(oddsHome, oddsAway, liveHome, liveAway teamkey.KeySet) bool {
	if oddsHome.Intersects(liveHome) && oddsAway.Intersects(liveAway) {
		return true
	}
	return oddsHome.Intersects(liveAway) && oddsAway.Intersects(liveHome)
}
