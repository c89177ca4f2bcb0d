package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hupe1980/rangeread"
)

type logConfig struct {
	level  string
	format string
	file   string
}

func newRootCmd() *cobra.Command {
	var lc logConfig
	var closer io.Closer

	cmd := &cobra.Command{
		Use:           "rangebench",
		Short:         "Benchmark scatter reads with interchangeable kernel I/O backends",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if closer != nil {
				return closer.Close()
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&lc.level, "log-level", "info", "minimum log level (debug, info, warn, error)")
	flags.StringVar(&lc.format, "log-format", "text", "log format (text, json)")
	flags.StringVar(&lc.file, "log-file", "", "write logs to this file, rotated by size, instead of stderr")

	newLogger := func() (*rangeread.Logger, error) {
		logger, c, err := lc.build()
		closer = c
		return logger, err
	}

	cmd.AddCommand(newGenCmd(newLogger), newRunCmd(newLogger))
	return cmd
}

// build returns the configured logger and, for file output, the closer of
// the rotating writer.
func (lc logConfig) build() (*rangeread.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.level)); err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", lc.level, err)
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)
	if lc.file != "" {
		lj := &lumberjack.Logger{
			Filename:   lc.file,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			Compress:   true,
		}
		w, closer = lj, lj
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(lc.format) {
	case "text":
		return rangeread.NewLogger(slog.NewTextHandler(w, opts)), closer, nil
	case "json":
		return rangeread.NewLogger(slog.NewJSONHandler(w, opts)), closer, nil
	default:
		return nil, closer, fmt.Errorf("invalid --log-format %q", lc.format)
	}
}
