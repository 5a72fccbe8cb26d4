package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// teeWriter writes every log record to the target (normally stderr) and,
// if configured, appends it to a log file as well.
type teeWriter struct {
	mu     sync.Mutex
	target io.Writer
	file   *os.File
}

func (w *teeWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error

	if w.target != nil {
		if _, err := w.target.Write(p); err != nil {
			firstErr = err
		}
	}

	if w.file != nil {
		if _, err := w.file.Write(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return len(p), firstErr
}

var (
	defaultLogger *slog.Logger
	writer        *teeWriter
)

// levels from most to least verbose
var levels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

// Init initializes the logging system. Records go to target; a non-empty
// logFilePath additionally appends them to that file.
func Init(target io.Writer, levelStr, formatStr, logFilePath string) error {
	writer = &teeWriter{
		target: target,
	}

	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}
		writer.file = file
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(levelStr),
	}

	var handler slog.Handler
	if strings.ToLower(formatStr) == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)

	return nil
}

func parseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFor lowers the configured base level by one step for every
// --verbose/--debug given on the command line, stopping at DEBUG.
func LevelFor(base string, verbosity int) string {
	idx := 1
	for i, l := range levels {
		if strings.EqualFold(l, base) {
			idx = i
			break
		}
	}
	idx -= verbosity
	if idx < 0 {
		idx = 0
	}
	return levels[idx]
}

// Close closes the log file, if any. Later records still reach the target.
func Close() error {
	if writer == nil {
		return nil
	}
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.file == nil {
		return nil
	}
	err := writer.file.Close()
	writer.file = nil
	return err
}
