// Package logging wires slog for the FxHabit cloud client: colorized output
// on interactive terminals plus an append-only, rotated operational log file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Setup installs the default slog logger. The returned closer flushes the
// log file and must be called on shutdown.
func Setup(logPath string, debug bool) (io.Closer, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	stdoutHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: timeFormat,
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})

	// Lumberjack serializes its own writes, the extra mutex keeps the
	// writer safe if it is ever shared outside slog.
	fileWriter := &lockedWriter{w: &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
	}}
	fileHandler := slog.NewTextHandler(fileWriter, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	slog.SetDefault(slog.New(newFanoutHandler(stdoutHandler, fileHandler)))
	return fileWriter, nil
}

// lockedWriter guards a writer with a mutex so concurrent operations can log
// safely, and closes the underlying rotated file.
type lockedWriter struct {
	mu sync.Mutex
	w  *lumberjack.Logger
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (l *lockedWriter) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Close()
}
