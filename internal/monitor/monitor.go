// Package monitor tracks the health of each upstream feed across board
// requests and raises alerts when a feed starts failing or recovers.
//
// A feed fails when its adapter reports a feed error (missing credential,
// non-success status) or a hard error. One "down" alert is sent at the start
// of each failure streak and one "recovered" alert when the streak ends, so a
// flapping client polling every 30 seconds does not flood the channel.
package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rewired-gh/oddsboard/internal/logger"
)

// Notifier delivers feed alerts, e.g. to Telegram.
type Notifier interface {
	SendFeedDown(feed, reason string) error
	SendFeedRecovered(feed string, failures int, downFor time.Duration) error
}

// FeedState is the health of one feed as last observed.
type FeedState struct {
	Feed                string    `json:"feed"`
	Healthy             bool      `json:"healthy"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastError           string    `json:"last_error,omitempty"`
	LastChecked         time.Time `json:"last_checked"`
	LastSuccess         time.Time `json:"last_success"`
	FailingSince        time.Time `json:"failing_since"`
}

type alertKind int

const (
	alertDown alertKind = iota
	alertRecovered
)

type alert struct {
	kind     alertKind
	feed     string
	reason   string
	failures int
	downFor  time.Duration
}

// Monitor handles feed health tracking and alert dispatch
type Monitor struct {
	mu       sync.Mutex
	feeds    map[string]*FeedState
	notifier Notifier
	alerts   chan alert
	now      func() time.Time
}

// alertBuffer bounds queued alerts; extra alerts are dropped with a warning.
const alertBuffer = 32

// New creates a new Monitor instance. notifier may be nil.
func New(notifier Notifier) *Monitor {
	return &Monitor{
		feeds:    make(map[string]*FeedState),
		notifier: notifier,
		alerts:   make(chan alert, alertBuffer),
		now:      time.Now,
	}
}

// Record stores the outcome of one fetch of feed. A nil err is a success.
func (m *Monitor) Record(feed string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	state, ok := m.feeds[feed]
	if !ok {
		state = &FeedState{Feed: feed, Healthy: true}
		m.feeds[feed] = state
	}
	state.LastChecked = now

	if err != nil {
		state.ConsecutiveFailures++
		state.Healthy = false
		state.LastError = err.Error()
		if state.ConsecutiveFailures == 1 {
			state.FailingSince = now
			logger.Warn("Feed %s is failing: %v", feed, err)
			m.enqueue(alert{kind: alertDown, feed: feed, reason: state.LastError})
		}
		return
	}

	if state.ConsecutiveFailures > 0 {
		downFor := now.Sub(state.FailingSince)
		logger.Info("Feed %s recovered after %d failed fetches (%v)", feed, state.ConsecutiveFailures, downFor)
		m.enqueue(alert{kind: alertRecovered, feed: feed, failures: state.ConsecutiveFailures, downFor: downFor})
	}
	state.ConsecutiveFailures = 0
	state.Healthy = true
	state.LastError = ""
	state.LastSuccess = now
	state.FailingSince = time.Time{}
}

// enqueue must be called with m.mu held.
func (m *Monitor) enqueue(a alert) {
	if m.notifier == nil {
		return
	}
	select {
	case m.alerts <- a:
	default:
		logger.Warn("Alert queue full, dropping alert for feed %s", a.feed)
	}
}

// Snapshot returns the state of every feed seen so far, sorted by name.
func (m *Monitor) Snapshot() []FeedState {
	m.mu.Lock()
	defer m.mu.Unlock()

	states := make([]FeedState, 0, len(m.feeds))
	for _, s := range m.feeds {
		states = append(states, *s)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].Feed < states[j].Feed
	})
	return states
}

// Healthy reports whether every observed feed is healthy.
func (m *Monitor) Healthy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.feeds {
		if !s.Healthy {
			return false
		}
	}
	return true
}

// Run delivers queued alerts until ctx is cancelled. Delivery failures are
// logged and not retried beyond what the notifier does itself.
func (m *Monitor) Run(ctx context.Context) {
	if m.notifier == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-m.alerts:
			m.deliver(a)
		}
	}
}

func (m *Monitor) deliver(a alert) {
	var err error
	switch a.kind {
	case alertDown:
		err = m.notifier.SendFeedDown(a.feed, a.reason)
	case alertRecovered:
		err = m.notifier.SendFeedRecovered(a.feed, a.failures, a.downFor)
	}
	if err != nil {
		logger.Warn("Failed to send alert for feed %s: %v", a.feed, err)
	}
}
