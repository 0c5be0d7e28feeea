// Package logger provides the player's structured logging on top of
// log/slog, writing to stdout and a per-day log file.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/startoovoid/MusicPlayer-Go/player"
)

const logDir = "./log"

// Logger satisfies player.Logger over a slog core. When the log file
// cannot be opened the player still starts and logs to stdout only.
type Logger struct {
	core *slog.Logger
	file *os.File
}

// New builds a Logger for the given level and format ("text" or "json").
func New(level, format string, addSource bool) (*Logger, error) {
	file := openLogFile()

	var sink io.Writer = os.Stdout
	if file != nil {
		sink = io.MultiWriter(os.Stdout, file)
	}

	options := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: addSource,
	}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(sink, options)
	} else {
		handler = slog.NewTextHandler(sink, options)
	}

	log := &Logger{core: slog.New(handler), file: file}
	if file == nil {
		log.Warn("log file unavailable, logging to stdout only", "dir", logDir)
	}
	return log, nil
}

// openLogFile opens today's player log for appending, e.g.
// log/player-2026-08-29.log. Failure is tolerated.
func openLogFile() *os.File {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil
	}
	name := "player-" + time.Now().Local().Format("2006-01-02") + ".log"
	file, err := os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil
	}
	return file
}

func (l *Logger) Debug(msg string, args ...any) { l.core.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.core.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.core.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.core.Error(msg, args...) }

// With returns a child logger carrying extra fields. The child shares the
// parent's sink; only the root logger closes the file.
func (l *Logger) With(args ...any) player.Logger {
	return &Logger{core: l.core.With(args...)}
}

// Slog exposes the underlying slog.Logger for libraries that want one.
func (l *Logger) Slog() *slog.Logger {
	return l.core
}

// Close releases the log file, if one was opened.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
