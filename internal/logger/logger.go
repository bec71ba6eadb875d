// Package logger provides leveled logging with support for debug, info, warn, and error levels.
// It wraps logrus so the rest of the service can log with printf-style helpers
// while request-scoped code attaches structured fields.
package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var (
	// Global logger instance; nil until Init or the first Get
	defaultLogger atomic.Pointer[logrus.Logger]
)

// Init initializes the default logger with the specified level and format.
// Format "json" emits one JSON object per line; anything else emits text.
func Init(level string, format string) {
	InitWithOutput(level, format, os.Stderr)
}

// InitWithOutput is Init writing to w.
func InitWithOutput(level string, format string, w io.Writer) {
	defaultLogger.Store(newLogger(level, format, w))
}

func newLogger(level string, format string, w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	if strings.ToLower(format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}
	return l
}

// Get returns the global logger, initializing it at info level if needed.
// Concurrent first calls agree on a single logger.
func Get() *logrus.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	defaultLogger.CompareAndSwap(nil, newLogger("info", "text", os.Stderr))
	return defaultLogger.Load()
}

// WithRequestID returns an entry tagged with a request ID.
func WithRequestID(requestID string) *logrus.Entry {
	return Get().WithField("request_id", requestID)
}

// WithFeed returns an entry tagged with a feed name.
func WithFeed(feed string) *logrus.Entry {
	return Get().WithField("feed", feed)
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Debugf(format, args...)
	}
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Infof(format, args...)
	}
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Warnf(format, args...)
	}
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	if l := defaultLogger.Load(); l != nil {
		l.Errorf(format, args...)
	}
}

// Fatal logs a message at FatalLevel and exits
func Fatal(format string, args ...interface{}) {
	Get().Fatalf(format, args...)
}
