package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init("nonsense"))

	core := Logger().Core()
	require.True(t, core.Enabled(zapcore.InfoLevel))
	require.False(t, core.Enabled(zapcore.DebugLevel))
}

func TestWithModuleTagsEntries(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	global.Store(zap.New(core))

	WithModule("billing").Info("hello")

	entries := observed.All()
	require.Len(t, entries, 1)
	require.Equal(t, "billing", entries[0].ContextMap()["module"])
}
