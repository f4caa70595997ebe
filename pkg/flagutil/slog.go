package flagutil

import (
	"io"
	"log/slog"

	"github.com/jessevdk/go-flags"
)

// LogLevel is a slog.Level settable from the command line by name
// ("debug", "info", "warn+2", ...).
type LogLevel struct {
	slog.Level
}

var (
	_ flags.Unmarshaler = (*LogLevel)(nil)
	_ flags.Marshaler   = LogLevel{}
)

func (l *LogLevel) UnmarshalFlag(value string) error {
	return l.Level.UnmarshalText([]byte(value))
}

// MarshalFlag lets --help print the level name rather than a struct.
func (l LogLevel) MarshalFlag() (string, error) {
	return l.Level.String(), nil
}

// LogFormat selects the slog handler used for log output.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// Logger builds a logger writing to w at the given level.
func (f LogFormat) Logger(w io.Writer, level LogLevel) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.Level}
	if f == LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
