package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. Init configures it; until then it logs
// text at info level to stderr.
var Logger = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Init sets the level and format ("text" or "json") of Logger.
func Init(level, format string) error {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	Logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		Logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	return nil
}

// SetOutput redirects Logger, mostly for tests and the terminal UI.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

type ctxKey string

const (
	sessionKey ctxKey = "session_id"
	taskKey    ctxKey = "task_id"
)

// WithSession tags ctx with a browser session ID for log entries.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

// WithTask tags ctx with a generation task ID for log entries.
func WithTask(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, taskKey, id)
}

// WithContext returns an entry carrying the request, session and task IDs
// found in ctx.
func WithContext(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if ctx == nil {
		return Logger.WithFields(fields)
	}
	if id := middleware.GetReqID(ctx); id != "" {
		fields["request_id"] = id
	}
	if id, ok := ctx.Value(sessionKey).(string); ok && id != "" {
		fields["session_id"] = id
	}
	if id, ok := ctx.Value(taskKey).(string); ok && id != "" {
		fields["task_id"] = id
	}
	return Logger.WithFields(fields)
}
