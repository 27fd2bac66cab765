package internal

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Host            string        `env:"HOST,default=localhost"`
	Port            int           `env:"PORT,default=8080"`
	LogLevel        string        `env:"LOG_LEVEL,default=info"`
	AdminToken      string        `env:"ADMIN_TOKEN,required=true"`
	JWTSecret       string        `env:"JWT_SECRET,required=true"`
	BadgerFilepath  *string       `env:"BADGER_FILEPATH"`
	SummaryCacheTTL time.Duration `env:"SUMMARY_CACHE_TTL,default=1h"`
	SummaryMinDelay time.Duration `env:"SUMMARY_MIN_DELAY,default=50ms"`
	SummaryMaxDelay time.Duration `env:"SUMMARY_MAX_DELAY,default=150ms"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// LoggerFromLevel builds the process logger for a LOG_LEVEL string.
// Unknown values fall back to info.
func LoggerFromLevel(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
