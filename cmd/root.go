package cmd

import (
	"os"

	"github.com/releaserite/config"
	"github.com/releaserite/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configFile string
	envLoaded  bool
)

// RootCmd is the base command of the releaserite binary
var RootCmd = &cobra.Command{
	Use:   "releaserite",
	Short: "Release management API",
	Long: `releaserite tracks services, environments, releases and their deployment
history behind a role-permissioned REST API.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		envLoaded = config.LoadEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a YAML config file (env: CONFIG_FILE)")
	RootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, resetAdminCmd)
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the logger shared by every subcommand
func bootstrap() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, nil, err
	}
	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, nil, err
	}
	if !envLoaded {
		logger.Debug(".env file not found, using system environment variables")
	}
	return cfg, logger.With(zap.String("environment", cfg.Environment)), nil
}
