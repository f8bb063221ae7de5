// Package logging builds the process-wide zap.Logger, grounded on the
// teacher's logger/zap setup (encoder/level/writer construction, lumberjack
// rotation) narrowed to the single logger this service needs rather than
// the teacher's registry of named per-subsystem loggers.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger construction.
type Config struct {
	// Environment is "development" or "production"; development uses a
	// human-readable console encoder, production uses JSON.
	Environment string
	Level       zapcore.Level
	// File, when non-empty, additionally writes logs to a rotated file via
	// lumberjack.
	File string
}

// New builds the process logger and installs it as zap's global logger
// (zap.L()/zap.S()), matching the teacher's convention of logging through
// the package-level globals rather than threading a *zap.Logger everywhere.
func New(cfg Config) (*zap.Logger, error) {
	encoder := newEncoder(cfg.Environment)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), cfg.Level),
	}

	if cfg.File != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    100, // megabytes
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(encoder, writer, cfg.Level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newEncoder(environment string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.TimeKey = "timestamp"

	if environment == "development" {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewJSONEncoder(encCfg)
}
