package cli

import (
	"defi-academy/config"
	"defi-academy/database"
	"defi-academy/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			setup()
			if err := database.Connect(config.DB_URL); err != nil {
				return err
			}
			if err := database.Migrate(database.DB); err != nil {
				return err
			}
			logger.L().Info("migrations applied", zap.Int("models", len(database.Models())))
			return nil
		},
	}
}
