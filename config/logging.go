package config

import (
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogging installs a JSON slog handler writing to a rotating log
// file under the data directory and returns the logger. Background
// loops log through it and keep running; nothing in worklog logs to the
// process's stdout.
func InitLogging(c *Config) *slog.Logger {
	writer := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: logLevel(c.System.LogLevel),
	})

	logger := slog.New(handler)

	slog.SetDefault(logger)

	return logger
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
