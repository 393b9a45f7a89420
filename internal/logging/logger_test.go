package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewBuildsBothModes(t *testing.T) {
	t.Parallel()

	for _, development := range []bool{true, false} {
		logger, err := New(development)
		require.NoError(t, err)
		require.NotNil(t, logger)
		logger.Info("logger ready")
		_ = logger.Sync()
	}
}

func TestDevelopmentModeEnablesDebug(t *testing.T) {
	t.Parallel()

	dev, err := New(true)
	require.NoError(t, err)
	require.NotNil(t, dev.Check(zapcore.DebugLevel, "visible in development"))

	prod, err := New(false)
	require.NoError(t, err)
	require.Nil(t, prod.Check(zapcore.DebugLevel, "suppressed in production"))
}
