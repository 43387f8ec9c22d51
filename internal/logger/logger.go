package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Console output is used unless
// LOG_FORMAT=json, which is what the container images set. The level comes
// from LOG_LEVEL until the loaded config overrides it through ApplyLevel.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	ApplyLevel(os.Getenv("LOG_LEVEL"))

	if os.Getenv("LOG_FORMAT") == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

// ApplyLevel sets the global level. Blank or unknown names fall back to info.
func ApplyLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return level
}
