package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rewired-gh/oddsboard/internal/board"
	"github.com/rewired-gh/oddsboard/internal/models"
	"github.com/rewired-gh/oddsboard/internal/score"
)

// missing marks an absent value in the table, as on the web page.
const missing = "—"

// printHeader displays what was fetched and how long it took
func printHeader(sport, region string, took time.Duration) {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("ODDSBOARD  sport=%s region=%s  fetched in %v\n", sport, region, took.Round(time.Millisecond))
	fmt.Println(strings.Repeat("=", 80))
}

// printFeedErrors lists feed-level failures that the HTTP endpoint does not show
func printFeedErrors(w io.Writer, b *board.Board) {
	for _, fe := range []*models.FeedError{b.OddsError, b.LiveError} {
		if fe != nil {
			fmt.Fprintf(w, "! %s feed: %s\n", fe.Feed, fe.Reason)
		}
	}
}

// printBoard renders the board as an aligned table
func printBoard(w io.Writer, games []models.UnifiedGame) {
	if len(games) == 0 {
		fmt.Fprintln(w, "No games found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MATCHUP\tLIVE SCORE\tHOME ML\tAWAY ML")
	for _, g := range games {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.Matchup(), liveScore(g.LiveScore), moneyline(g.HomeOdds), moneyline(g.AwayOdds))
	}
	_ = tw.Flush()
}

// printSummary displays match counts
func printSummary(w io.Writer, games []models.UnifiedGame) {
	live, priced := 0, 0
	for _, g := range games {
		if g.LiveScore != nil {
			live++
		}
		if g.HomeOdds != nil || g.AwayOdds != nil {
			priced++
		}
	}
	fmt.Fprintf(w, "\n%d games, %d priced, %d with live scores\n", len(games), priced, live)
}

func liveScore(s *string) string {
	if s == nil || *s == "" {
		return "Pregame"
	}
	return *s
}

// moneyline prints American odds with an explicit sign for underdogs.
func moneyline(p *float64) string {
	if p == nil {
		return missing
	}
	if *p > 0 {
		return "+" + score.Format(*p)
	}
	return score.Format(*p)
}
