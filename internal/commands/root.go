package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cleared-dev/minibank/internal/auditlog"
	"github.com/cleared-dev/minibank/internal/buildinfo"
	"github.com/cleared-dev/minibank/internal/config"
	"github.com/cleared-dev/minibank/internal/directory"
	"github.com/cleared-dev/minibank/internal/logger"
	"github.com/cleared-dev/minibank/internal/shell"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
// Run without a subcommand it starts the teller shell on stdin/stdout.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "minibank",
		Short:   "Teller shell for a single-branch bank",
		Version: buildinfo.String(),
		Args:    cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, configPath)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./"+config.DefaultFile+" when present)")
	rootCmd.AddCommand(newConfigCommand(&configPath))

	return rootCmd
}

// loadConfig resolves the effective config. Without an explicit path the
// default file is optional.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Resolve(config.DefaultFile, true)
	}
	return config.Resolve(path, false)
}

func runShell(cmd *cobra.Command, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	dir := directory.NewService(directory.Options{
		Branch: cfg.Bank.Branch,
		Policy: cfg.Checking.Policy(),
	}, log)

	opts := []shell.Option{shell.WithLogger(log)}
	if cfg.Audit.Path != "" {
		audit := auditlog.New(cfg.Audit.Path)
		log.Info("audit log enabled",
			zap.String("path", cfg.Audit.Path),
			zap.String("session", audit.Session()),
		)
		opts = append(opts, shell.WithRecorder(audit))
	}

	return shell.New(dir, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), opts...).Run(cmd.Context())
}
