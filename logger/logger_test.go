package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestInitialize_ProductionUsesJSONWithISOTimestamps(t *testing.T) {
	Initialize("production")
	assert.NotNil(t, Log)
	assert.False(t, Log.Core().Enabled(zapcore.DebugLevel))
	Sync()
}

func TestInitialize_DevelopmentEnablesDebug(t *testing.T) {
	Initialize("development")
	assert.NotNil(t, Log)
	assert.True(t, Log.Core().Enabled(zapcore.DebugLevel))

	Info("info message")
	Debug("debug message")
	Warn("warn message")
	Error("error message", errors.New("boom"))
	Error("error without cause", nil)
	Sync()
}
