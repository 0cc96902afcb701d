package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"robotcar/core"
)

func TestCoreSinkLevels(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	sink := NewCoreSink(zap.New(obs))

	sink.Log(core.LevelDebug, "d")
	sink.Log(core.LevelInfo, "i")
	sink.Log(core.LevelWarn, "w")
	sink.Log(core.LevelError, "e")

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(entries))
	}
	want := []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Errorf("Entry %d: expected %v, got %v", i, want[i], e.Level)
		}
		if e.LoggerName != "engine" {
			t.Errorf("Entry %d: expected logger name engine, got %q", i, e.LoggerName)
		}
	}
}

func TestNewLevels(t *testing.T) {
	logger, err := New(false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Debug must be disabled without -debug")
	}

	logger, err = New(true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("Debug must be enabled with -debug")
	}
}
