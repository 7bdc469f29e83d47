package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cleared-dev/minibank/internal/config"
)

// New builds a production zap logger writing JSON to stderr at the configured level.
// An empty level means "warn" so routine operations stay off the terminal.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level := cfg.Level
	if level == "" {
		level = "warn"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	zapcfg := zap.NewProductionConfig()
	zapcfg.Level = lvl
	zapcfg.OutputPaths = []string{"stderr"}
	zapcfg.ErrorOutputPaths = []string{"stderr"}

	zl, err := zapcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return zl, nil
}
