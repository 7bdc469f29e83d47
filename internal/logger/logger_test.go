package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cleared-dev/minibank/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level string
		want  zap.AtomicLevel
	}{
		{"", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"error", zap.NewAtomicLevelAt(zap.ErrorLevel)},
	}
	for _, tt := range tests {
		zl, err := New(config.LogConfig{Level: tt.level})
		require.NoError(t, err, "level %q", tt.level)
		assert.True(t, zl.Core().Enabled(tt.want.Level()), "level %q", tt.level)
		assert.False(t, zl.Core().Enabled(tt.want.Level()-1), "level %q", tt.level)
	}
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
