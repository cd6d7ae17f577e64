package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	assert.Error(t, SetLevel("verbose"))

	require.NoError(t, SetLevel("debug"))
	assert.True(t, L.Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, SetLevel("warn"))
	assert.False(t, L.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, L.Core().Enabled(zapcore.WarnLevel))

	require.NoError(t, SetLevel("info"))
}
