package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// tsHook stamps every event with a "ts" field rendered in the configured location.
type tsHook struct {
	loc *time.Location
}

func (h tsHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("ts", time.Now().In(h.loc).Format(time.RFC3339Nano))
}

// New returns a JSON-lines logger writing to w. A nil loc means UTC.
func New(w io.Writer, loc *time.Location) zerolog.Logger {
	if loc == nil {
		loc = time.UTC
	}
	return zerolog.New(w).Hook(tsHook{loc: loc})
}

// Stdout is New(os.Stdout, loc).
func Stdout(loc *time.Location) zerolog.Logger {
	return New(os.Stdout, loc)
}
