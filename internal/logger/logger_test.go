package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLevels(t *testing.T) {
	prev := Log
	defer Set(prev)

	require.NoError(t, Init("warn"))
	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Log.Core().Enabled(zapcore.ErrorLevel))

	require.NoError(t, Init("debug"))
	assert.True(t, Log.Core().Enabled(zapcore.DebugLevel))

	assert.Error(t, Init("loud"))
}

func TestSetNil(t *testing.T) {
	prev := Log
	defer Set(prev)

	Set(nil)
	require.NotNil(t, Log)
	Log.Info("dropped", zap.Int("n", 1))
}
