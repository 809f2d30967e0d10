// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the rotated log file inside the state directory.
const FileName = "capture.json"

// Options controls where logs go.
type Options struct {
	// Level is one of debug, info, warn, error. Anything else means info.
	Level string
	// Dir holds the rotated log file. Empty disables file logging.
	Dir string
	// Console receives a copy of every record. nil writes to the file only.
	Console io.Writer
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Sink builds the writer for opts. The returned closer flushes the rotated file.
func Sink(opts Options) (io.Writer, io.Closer) {
	var writers []io.Writer
	if opts.Console != nil {
		writers = append(writers, opts.Console)
	}

	var closer io.Closer = nopCloser{}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0700); err == nil {
			fileLogger := &lumberjack.Logger{
				Filename:   filepath.Join(opts.Dir, FileName),
				MaxSize:    10,
				MaxAge:     7,
				MaxBackups: 3,
				Compress:   true,
			}
			writers = append(writers, fileLogger)
			closer = fileLogger
		}
	}

	switch len(writers) {
	case 0:
		return io.Discard, closer
	case 1:
		return writers[0], closer
	}
	return io.MultiWriter(writers...), closer
}

// Setup installs a JSON logger as the slog default and returns a closer for its file.
func Setup(opts Options) io.Closer {
	w, closer := Sink(opts)
	slog.SetDefault(New(w, opts.Level))
	return closer
}

// New returns a JSON logger writing to w at the named level.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
