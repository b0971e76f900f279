package cmd

import (
	"github.com/releaserite/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var copyFrom string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Runs the schema migration against DATABASE_URL. With --copy-from the rows of
another database are copied in afterwards, parents before children.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		target, err := database.Open(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(target) }()

		if err := database.Migrate(target, logger); err != nil {
			return err
		}
		if copyFrom == "" {
			return nil
		}

		source, err := database.Open(copyFrom, logger.Named("source"))
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(source) }()

		copied, err := database.CopyData(cmd.Context(), source, target, logger)
		if err != nil {
			return err
		}
		logger.Info("data copy completed", zap.Any("rows", copied))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&copyFrom, "copy-from", "", "database URL to copy existing rows from")
}
