package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetLoggerBeforeInitialization(t *testing.T) {
	original := Logger
	defer SetLogger(original)

	Logger = nil
	assert.NotNil(t, GetLogger(), "GetLogger should never return nil")
}

func TestInitializeLoggerLevels(t *testing.T) {
	original := Logger
	defer SetLogger(original)

	logger := InitializeLogger(false, "warn")
	assert.Same(t, logger, GetLogger())
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger = InitializeLogger(true, "not-a-level")
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestSetLogger(t *testing.T) {
	original := Logger
	defer SetLogger(original)

	core, logs := observer.New(zapcore.InfoLevel)
	SetLogger(zap.New(core))
	GetLogger().Info("hello", zap.String("who", "tests"))

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "tests", logs.All()[0].ContextMap()["who"])
}
