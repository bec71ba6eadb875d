// Package telegram sends feed health alerts via the Telegram Bot API.
// It formats feed failure and recovery events into MarkdownV2 messages and
// handles delivery with retry logic.
package telegram

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of tgbotapi.BotAPI the client uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications
type Client struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
	now            func() time.Time
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return newClient(bot, chatID, maxRetries, retryDelayBase)
}

func newClient(bot sender, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
		now:            time.Now,
	}, nil
}

// SendFeedDown notifies that a feed started failing.
func (c *Client) SendFeedDown(feed, reason string) error {
	return c.send(formatFeedDown(feed, reason, c.now()))
}

// SendFeedRecovered notifies that a feed is serving data again.
func (c *Client) SendFeedRecovered(feed string, failures int, downFor time.Duration) error {
	return c.send(formatFeedRecovered(feed, failures, downFor, c.now()))
}

func (c *Client) send(message string) error {
	msg := tgbotapi.NewMessage(c.chatID, message)
	msg.ParseMode = "MarkdownV2"

	// Send with retry
	var lastErr error

	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		if i < c.maxRetries-1 {
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
		}
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

func formatFeedDown(feed, reason string, at time.Time) string {
	var b strings.Builder
	b.WriteString("🔴 *Feed down*\n\n")
	fmt.Fprintf(&b, "📡 Feed: *%s*\n", escapeMarkdownV2(feedTitle(feed)))
	fmt.Fprintf(&b, "⚠️ Error: %s\n", escapeMarkdownV2(reason))
	fmt.Fprintf(&b, "📅 Since: %s\n", escapeMarkdownV2(at.Format("2006-01-02 15:04:05")))
	return b.String()
}

func formatFeedRecovered(feed string, failures int, downFor time.Duration, at time.Time) string {
	var b strings.Builder
	b.WriteString("🟢 *Feed recovered*\n\n")
	fmt.Fprintf(&b, "📡 Feed: *%s*\n", escapeMarkdownV2(feedTitle(feed)))
	fmt.Fprintf(&b, "🔁 Failed fetches: %d\n", failures)
	fmt.Fprintf(&b, "⏱ Down for: %s\n", escapeMarkdownV2(formatDuration(downFor)))
	fmt.Fprintf(&b, "📅 At: %s\n", escapeMarkdownV2(at.Format("2006-01-02 15:04:05")))
	return b.String()
}

// feedTitle names the provider behind a feed.
func feedTitle(feed string) string {
	switch feed {
	case "odds":
		return "The Odds API (odds)"
	case "live":
		return "API-Sports (live)"
	default:
		return feed
	}
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	// Characters that need escaping in MarkdownV2:
	// _ * [ ] ( ) ~ ` > # + - = | { } . !

	var b strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if hours := int(d.Hours()); hours >= 1 {
		mins := int(d.Minutes()) % 60
		if mins == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, mins)
	}
	if mins := int(d.Minutes()); mins >= 1 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
