package logging

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const envLogLevel = "RUNWATCH_LOG_LEVEL"

// Level reads the log level from the environment, defaulting to info.
func Level() zerolog.Level {
	lvl, err := strconv.Atoi(os.Getenv(envLogLevel))
	if err != nil {
		return zerolog.InfoLevel
	}
	return zerolog.Level(lvl)
}

// New builds the workspace logger writing human-readable output to out.
func New(out io.Writer, workspace string) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(writer).
		Level(Level()).
		With().
		Timestamp().
		Str("workspace", workspace).
		Logger()
}
