package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dokuhost/dokuhost/internal/config"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger builds the logger described by conf. Outputs other than stdout
// and stderr are rotated files; close them with the returned closer.
func NewLogger(conf config.Log) (*slog.Logger, io.Closer, error) {
	if conf.Level >= config.LevelNone {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}

	var logOutput io.Writer
	var closer io.Closer = nopCloser{}
	var tty bool
	switch conf.Output {
	case "stdout":
		logOutput = os.Stdout
		tty = isatty.IsTerminal(os.Stdout.Fd())
	case "stderr", "":
		logOutput = os.Stderr
		tty = isatty.IsTerminal(os.Stderr.Fd())
	default:
		file := &lumberjack.Logger{
			Filename:   conf.Output,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		logOutput = file
		closer = file
	}

	opts := &slog.HandlerOptions{Level: conf.Level}

	var logger *slog.Logger
	switch conf.Format {
	case "json":
		logger = slog.New(slog.NewJSONHandler(logOutput, opts))
	case "text":
		logger = slog.New(slog.NewTextHandler(logOutput, opts))
	case "pretty":
		logger = slog.New(tint.NewHandler(logOutput, &tint.Options{Level: conf.Level, NoColor: !tty}))
	case "":
		if tty {
			logger = slog.New(tint.NewHandler(logOutput, &tint.Options{Level: conf.Level}))
		} else {
			logger = slog.New(slog.NewJSONHandler(logOutput, opts))
		}
	default:
		return nil, nil, fmt.Errorf("invalid log format: %s", conf.Format)
	}

	return logger, closer, nil
}
