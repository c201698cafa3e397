package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

var logFile *os.File

// DefaultLogPath is the dated file used when no log file is configured.
func DefaultLogPath(now time.Time) string {
	return fmt.Sprintf("/tmp/tdl_%s.log", now.Format("2006-01-02"))
}

// InitLogger installs the default slog logger. When verbose is false log
// output is discarded, since stdout belongs to the TUI.
func InitLogger(verbose bool, path string) (*slog.Logger, error) {
	if !verbose {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		slog.SetDefault(logger)
		return logger, nil
	}

	if path == "" {
		path = DefaultLogPath(time.Now())
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("error creating log file: %w", err)
	}
	logFile = f

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
	logger.Info("verbose logging enabled", "path", path)
	return logger, nil
}

// CloseLogger closes the log file if it's open
func CloseLogger() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
