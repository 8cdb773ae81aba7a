package matchbook

import (
	"os"

	"github.com/rs/zerolog"
)

// logger is used only to narrate a fatal InvariantViolation immediately
// before it is raised, mirroring the log.Error().Err(err).Msg(...) idiom
// the teacher repo uses throughout its worker pool and servers. The core
// has no request lifecycle to narrate beyond that single failure mode.
var logger zerolog.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// SetLogger overrides the logger used for invariant-violation diagnostics.
// Callers embedding this package in a larger service can route these events
// into their own sink.
func SetLogger(l zerolog.Logger) {
	logger = l
}
