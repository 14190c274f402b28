// Package logging configures structured logging for lambdac.
//
// Grounded on jaypaulb-CanvusAPI-LLMDemo's logging.Logger
// (logging/logger.go): a thin wrapper around *zap.Logger built from a
// console encoder plus an optional rotated file sink. This domain has
// no secrets flowing through log fields, so the teacher's
// sensitive-data redaction layer (sensitive_filter.go) is dropped —
// there is nothing here worth redacting, unlike an API gateway
// fronting third-party credentials.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string
	// FilePath, if non-empty, tees output to a lumberjack-rotated file
	// alongside the console.
	FilePath string
	// Color disables ANSI color in the console encoder when false.
	Color bool
}

// New builds a *zap.Logger per Options: a human-readable console
// encoder at the configured level, teed to a rotated file sink when
// FilePath is set (100MB/5 backups/30 days, matching the teacher's
// FileWriter defaults).
func New(opts Options) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if opts.Color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	consoleEncoder := zapcore.NewConsoleEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(zapcore.AddSync(consoleWriter{})), level),
	}

	if opts.FilePath != "" {
		fileEncCfg := zap.NewProductionEncoderConfig()
		fileEncCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		fileEncoder := zapcore.NewJSONEncoder(fileEncCfg)
		fileSink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(fileEncoder, fileSink, level))
	}

	core := zapcore.NewTee(cores...)
	return zap.New(core, zap.AddCaller()), nil
}

// consoleWriter adapts stdout to zapcore.WriteSyncer without pulling
// in os.Stdout's own Sync semantics (which fail on some terminals).
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) { return fmt.Print(string(p)) }
func (consoleWriter) Sync() error                 { return nil }
