package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LevelEnv overrides the default log level when set to a zerolog level name
const LevelEnv = "DASHBOARD_LOG_LEVEL"

// Logger wraps zerolog.Logger
type Logger struct {
	zerolog.Logger
}

// New creates the process logger. Development writes console output at
// debug level, test discards everything, and every other environment
// writes JSON lines at info level.
func New(serviceName string, environment string) *Logger {
	return NewWithWriter(serviceName, environment, nil)
}

// NewWithWriter is New with the output replaced by w, when w is not nil
func NewWithWriter(serviceName string, environment string, w io.Writer) *Logger {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel

	switch environment {
	case "test":
		out = io.Discard
	case "development":
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}
	if w != nil {
		out = w
	}
	if lvl, err := zerolog.ParseLevel(os.Getenv(LevelEnv)); err == nil && lvl != zerolog.NoLevel {
		level = lvl
	}

	return &Logger{
		Logger: zerolog.New(out).
			Level(level).
			With().
			Timestamp().
			Str("service", serviceName).
			Logger(),
	}
}

func (l *Logger) child(fn func(zerolog.Context) zerolog.Context) *Logger {
	return &Logger{Logger: fn(l.Logger.With()).Logger()}
}

// WithRequestID returns a logger tagged with the HTTP request id
func (l *Logger) WithRequestID(requestID string) *Logger {
	if requestID == "" {
		return l
	}
	return l.child(func(c zerolog.Context) zerolog.Context { return c.Str("request_id", requestID) })
}

// WithAdminID returns a logger tagged with the acting admin
func (l *Logger) WithAdminID(adminID int64) *Logger {
	if adminID == 0 {
		return l
	}
	return l.child(func(c zerolog.Context) zerolog.Context { return c.Int64("admin_id", adminID) })
}

// WithCorrelationID returns a logger tagged with a broker correlation id
func (l *Logger) WithCorrelationID(correlationID string) *Logger {
	if correlationID == "" {
		return l
	}
	return l.child(func(c zerolog.Context) zerolog.Context { return c.Str("correlation_id", correlationID) })
}

// WithComponent returns a logger tagged with a subsystem name
func (l *Logger) WithComponent(component string) *Logger {
	return l.child(func(c zerolog.Context) zerolog.Context { return c.Str("component", component) })
}
