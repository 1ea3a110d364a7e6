package main

import (
	"github.com/rs/zerolog"

	"github.com/gcbaptista/searchcore/internal/logging"
)

func newLogger() zerolog.Logger {
	return logging.New(logging.Config{
		Level:  logging.Level(logLevel),
		Pretty: !logJSON,
	})
}
