package logger

import (
	"os"

	"github.com/rs/zerolog"
)

func New(env, level string) zerolog.Logger {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if lvl, err := zerolog.ParseLevel(level); err == nil && level != "" {
		log = log.Level(lvl)
	}
	return log
}
