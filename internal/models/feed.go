package models

// Feed names used in feed errors, health reports and alerts.
const (
	FeedOdds = "odds"
	FeedLive = "live"
)

// FeedError is a feed-level failure: a missing credential or a non-success
// upstream status. It is not fatal to a board request.
type FeedError struct {
	Feed   string `json:"feed"`
	Reason string `json:"error"`
}

// Error returns the reason verbatim, e.g. "Missing ODDS_API_KEY".
func (e *FeedError) Error() string {
	return e.Reason
}

// FeedResult is what an adapter reports: either games or a feed error, never both.
type FeedResult[T any] struct {
	Games []T
	Err   *FeedError
}

// OddsFeed is the odds adapter's result.
type OddsFeed = FeedResult[OddsGame]

// LiveFeed is the live-score adapter's result.
type LiveFeed = FeedResult[LiveGame]

// FeedOK wraps a successfully parsed game list. A nil list becomes empty.
func FeedOK[T any](games []T) FeedResult[T] {
	if games == nil {
		games = []T{}
	}
	return FeedResult[T]{Games: games}
}

// FeedFailed builds a result carrying a feed error and no games.
func FeedFailed[T any](feed, reason string) FeedResult[T] {
	return FeedResult[T]{
		Games: []T{},
		Err:   &FeedError{Feed: feed, Reason: reason},
	}
}

// OK reports whether the feed produced data.
func (r FeedResult[T]) OK() bool {
	return r.Err == nil
}
