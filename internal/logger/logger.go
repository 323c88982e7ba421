// Package logger builds the structured zerolog logger shared by the service.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TimestampField is the key every log line carries its timestamp under.
const TimestampField = "ts"

// Config selects the output level, format and timestamp location.
type Config struct {
	Level    string // trace, debug, info, warn, error
	Format   string // json (default) or console
	Location *time.Location
	Output   io.Writer // defaults to os.Stdout
}

// New creates a structured logger. JSON lines by default; human-readable with Format "console".
func New(cfg Config) zerolog.Logger {
	var w io.Writer = cfg.Output
	if w == nil {
		w = os.Stdout
	}
	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return zerolog.New(w).Level(ParseLevel(cfg.Level)).Hook(timestampHook{loc: loc})
}

// timestampHook stamps each event in its own location so loggers never
// touch zerolog's package-level timestamp settings.
type timestampHook struct {
	loc *time.Location
}

func (h timestampHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str(TimestampField, time.Now().In(h.loc).Format(time.RFC3339Nano))
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
