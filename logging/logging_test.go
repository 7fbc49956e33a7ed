package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, zap.WarnLevel, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zap.InfoLevel, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestInstallReplacesGlobal(t *testing.T) {
	logger, restore, err := Install("development", "debug")
	require.NoError(t, err)
	defer restore()

	assert.Same(t, logger, zap.L())
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))
}
