// Package board builds the unified board by fetching both feeds and merging them.
package board

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rewired-gh/oddsboard/internal/logger"
	"github.com/rewired-gh/oddsboard/internal/merge"
	"github.com/rewired-gh/oddsboard/internal/models"
)

// OddsFetcher returns the current odds feed.
type OddsFetcher interface {
	FetchOdds(ctx context.Context) (models.OddsFeed, error)
}

// LiveFetcher returns the current live-score feed.
type LiveFetcher interface {
	FetchLiveScores(ctx context.Context) (models.LiveFeed, error)
}

// Recorder receives the outcome of every feed fetch.
type Recorder interface {
	Record(feed string, err error)
}

// Board is one merged view of both feeds.
// Feed errors are kept for logs, health and the CLI; they are not part of
// the games list.
type Board struct {
	Games     []models.UnifiedGame
	OddsError *models.FeedError
	LiveError *models.FeedError
}

// Service fetches and merges the feeds on demand
type Service struct {
	odds     OddsFetcher
	live     LiveFetcher
	recorder Recorder
}

// NewService creates a board service. recorder may be nil.
func NewService(odds OddsFetcher, live LiveFetcher, recorder Recorder) *Service {
	return &Service{
		odds:     odds,
		live:     live,
		recorder: recorder,
	}
}

// Fetch retrieves both feeds concurrently and merges them.
// Both fetches always run to completion. A feed error degrades that feed to
// an empty list; a hard failure of either fetch fails the whole board.
func (s *Service) Fetch(ctx context.Context) (*Board, error) {
	var (
		g       errgroup.Group
		odds    models.OddsFeed
		live    models.LiveFeed
		oddsErr error
		liveErr error
	)

	g.Go(func() error {
		odds, oddsErr = s.odds.FetchOdds(ctx)
		return nil
	})
	g.Go(func() error {
		live, liveErr = s.live.FetchLiveScores(ctx)
		return nil
	})
	_ = g.Wait()

	// A caller that went away says nothing about feed health.
	if ctx.Err() == nil {
		s.record(models.FeedOdds, oddsErr, odds.Err)
		s.record(models.FeedLive, liveErr, live.Err)
	}

	if oddsErr != nil {
		return nil, fmt.Errorf("odds feed: %w", oddsErr)
	}
	if liveErr != nil {
		return nil, fmt.Errorf("live feed: %w", liveErr)
	}

	return &Board{
		Games:     merge.Merge(odds.Games, live.Games),
		OddsError: odds.Err,
		LiveError: live.Err,
	}, nil
}

func (s *Service) record(feed string, hardErr error, feedErr *models.FeedError) {
	var err error
	switch {
	case hardErr != nil:
		err = hardErr
	case feedErr != nil:
		err = feedErr
		logger.WithFeed(feed).Warnf("Feed error: %s", feedErr.Reason)
	}
	if s.recorder != nil {
		s.recorder.Record(feed, err)
	}
}
