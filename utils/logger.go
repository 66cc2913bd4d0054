package utils

import (
	"log"
	"sync"

	"heallink/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Global logger instance
var (
	Logger   *zap.Logger
	loggerMu sync.Mutex
)

// InitializeLogger sets up the logging configuration. Production gets
// JSON at info level, everything else gets colored console output at
// debug level. The logger is also installed as zap's global so code
// using zap.L() shares it.
func InitializeLogger() {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if Logger != nil {
		return
	}

	var cfg zap.Config
	if config.IsProduction() {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	built, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	Logger = built
	zap.ReplaceGlobals(Logger)
}

// GetLogger retrieves the global logger
func GetLogger() *zap.Logger {
	if Logger == nil {
		InitializeLogger()
	}
	return Logger
}
