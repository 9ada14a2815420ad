// Package logger is the service-wide leveled logger, backed by zerolog.
//
// The package-level Debugf/Infof/Warnf/Errorf/Fatalf functions log through a
// shared logger. Init sets the threshold and SetOutput picks the writer and
// format (console for development, one JSON object per line otherwise).
// With returns an Entry that adds key/value fields to every line it writes.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base = build(os.Stdout, true, zerolog.InfoLevel)
)

func build(w io.Writer, pretty bool, lvl zerolog.Level) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	}
	return zerolog.InfoLevel
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Anything else means info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	base = base.Level(parseLevel(l))
}

// SetOutput redirects log output and keeps the current level. pretty selects
// the console format; otherwise one JSON object is written per line.
func SetOutput(w io.Writer, pretty bool) {
	mu.Lock()
	defer mu.Unlock()
	base = build(w, pretty, base.GetLevel())
}

// LevelString returns the current level as text.
func LevelString() string {
	return current().GetLevel().String()
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Entry writes through the shared logger with extra fields attached.
type Entry struct {
	fields []interface{}
}

// With attaches alternating key/value pairs, e.g. With("op", "create", "id", id).
func With(kv ...interface{}) Entry {
	return Entry{fields: kv}
}

// With returns a copy of e with more fields.
func (e Entry) With(kv ...interface{}) Entry {
	f := make([]interface{}, 0, len(e.fields)+len(kv))
	return Entry{fields: append(append(f, e.fields...), kv...)}
}

func (e Entry) logger() zerolog.Logger {
	lg := current()
	if len(e.fields) == 0 {
		return lg
	}
	return lg.With().Fields(e.fields).Logger()
}

func (e Entry) Debugf(format string, v ...interface{}) {
	lg := e.logger()
	lg.Debug().Msgf(format, v...)
}

func (e Entry) Infof(format string, v ...interface{}) {
	lg := e.logger()
	lg.Info().Msgf(format, v...)
}

func (e Entry) Warnf(format string, v ...interface{}) {
	lg := e.logger()
	lg.Warn().Msgf(format, v...)
}

func (e Entry) Errorf(format string, v ...interface{}) {
	lg := e.logger()
	lg.Error().Msgf(format, v...)
}

func Debugf(format string, v ...interface{}) { Entry{}.Debugf(format, v...) }
func Infof(format string, v ...interface{})  { Entry{}.Infof(format, v...) }
func Warnf(format string, v ...interface{})  { Entry{}.Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { Entry{}.Errorf(format, v...) }

// Fatalf logs at fatal level and exits with status 1.
func Fatalf(format string, v ...interface{}) {
	lg := current()
	// WithLevel does not exit on its own
	lg.WithLevel(zerolog.FatalLevel).Msgf(format, v...)
	os.Exit(1)
}
