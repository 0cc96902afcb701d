// Package logging builds the host tool's zap logger and bridges the core
// engine's log sink onto it.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"robotcar/core"
)

// New returns a console logger writing to stderr, so log lines do not
// interleave with the interactive prompt on stdout
func New(debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: debug,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return cfg.Build()
}

// CoreSink adapts a zap logger to core.LogSink
type CoreSink struct {
	Logger *zap.Logger
}

// NewCoreSink names the logger "engine" so simulator lines stand out
func NewCoreSink(logger *zap.Logger) CoreSink {
	return CoreSink{Logger: logger.Named("engine")}
}

func (s CoreSink) Log(level core.Level, msg string) {
	switch level {
	case core.LevelDebug:
		s.Logger.Debug(msg)
	case core.LevelInfo:
		s.Logger.Info(msg)
	case core.LevelWarn:
		s.Logger.Warn(msg)
	default:
		s.Logger.Error(msg)
	}
}
