// Package logging provides zap logger helpers.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger configured for development or production at the
// given level, writing to stderr so stdout carries only results.
func New(development bool, level string) (*zap.Logger, error) {
	return NewWriter(os.Stderr, development, level)
}

// NewWriter is New with an explicit destination.
//
// Sampling is disabled: every failed URL must produce its own log line.
func NewWriter(w io.Writer, development bool, level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		lvl = parsed
	}
	sink := zapcore.Lock(zapcore.AddSync(w))

	if development {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = "ts"
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, lvl)
		return zap.New(core, zap.Development(), zap.AddCaller(), zap.AddStacktrace(zapcore.DPanicLevel)), nil
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, lvl)
	return zap.New(core, zap.AddCaller()), nil
}
