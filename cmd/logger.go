package cmd

import (
	"io"
	"time"

	"github.com/etnz/refdata"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger returns a human readable logger on stderr, duplicated as JSON into
// cfg.Logging.File when set.
func NewLogger(cfg refdata.Config) (zerolog.Logger, io.Closer) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil || cfg.Logging.Level == "" {
		level = zerolog.InfoLevel
	}

	var w io.Writer = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly}
	var closer io.Closer = nopCloser{}
	if cfg.Logging.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    10, // Megabytes
			MaxBackups: 3,
			MaxAge:     28, // Days
		}
		w = zerolog.MultiLevelWriter(w, file)
		closer = file
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), closer
}
