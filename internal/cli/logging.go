// Package cli wires the cryptkeeper library into a cobra-based command
// line front end: interactive prompts (huh), streaming progress bars
// (progressbar/v3), terminal clearing (screen), structured logging
// (zerolog), and atomic temp-file writes (uuid-suffixed names).
package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds a console-formatted zerolog logger writing to
// stderr, so stdout stays free for stdin/stdout-mode output (hex by
// default, raw bytes with --raw).
// Never log key or password bytes here, only operation metadata.
func newLogger() zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).With().Timestamp().Logger()
}
