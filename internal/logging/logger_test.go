package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, err := New(false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer logger.Sync()

	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled by default")
	}

	verbose, err := New(true)
	if err != nil {
		t.Fatalf("New(verbose): %v", err)
	}
	defer verbose.Sync()

	if !verbose.Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose logger should enable debug")
	}
}
