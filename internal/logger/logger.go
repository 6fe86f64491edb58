package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. The TUI owns stdout, so log output
// goes to logPath when debug is set and is discarded otherwise.
func Init(logPath string, debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if !debug {
		log.Logger = zerolog.New(io.Discard)
		return
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
		log.Logger = zerolog.New(io.Discard)
		return
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.Logger = zerolog.New(io.Discard)
		return
	}

	log.Logger = zerolog.New(f).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Str("service", "auctionhouse").
		Logger()

	log.Info().Msg("logger initialized")
}
