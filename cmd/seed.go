package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/releaserite/database"
	"github.com/releaserite/services"
	"github.com/spf13/cobra"
)

var (
	resetEmail    string
	resetPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the default roles and demo users",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		db, err := database.Open(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		if err := database.Migrate(db, logger); err != nil {
			return err
		}

		result, err := services.NewSeeder(db, logger).Seed(cmd.Context(), services.DefaultRoles, services.DefaultUsers)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "roles: %d created, %d updated; users: %d created, %d updated\n",
			result.RolesCreated, result.RolesUpdated, result.UsersCreated, result.UsersUpdated)
		return nil
	},
}

var resetAdminCmd = &cobra.Command{
	Use:   "reset-admin",
	Short: "Reset the password of the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(resetPassword) < 8 {
			return errors.New("--password must be at least 8 characters")
		}

		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		db, err := database.Open(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		if err := services.NewSeeder(db, logger).ResetPassword(cmd.Context(), resetEmail, resetPassword); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "password reset for %s\n", resetEmail)
		return nil
	},
}

func init() {
	resetAdminCmd.Flags().StringVar(&resetEmail, "email", services.DefaultAdminEmail, "account to reset")
	resetAdminCmd.Flags().StringVar(&resetPassword, "password", "", "new password (min 8 characters)")
	_ = resetAdminCmd.MarkFlagRequired("password")
}
