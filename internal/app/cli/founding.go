package cli

import (
	"errors"
	"fmt"
	"strings"

	"defi-academy/config"
	"defi-academy/database"
	"defi-academy/internal/domain/users"
	"defi-academy/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewFoundingCommand() *cobra.Command {
	var (
		email  string
		revoke bool
	)

	cmd := &cobra.Command{
		Use:   "founding",
		Short: "Grant or revoke founding-member status",
		Long:  `Marks the user with the given email as a founding member, which places them in the founding tier for voting and early access.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setup()
			if err := database.Connect(config.DB_URL); err != nil {
				return err
			}
			if err := setFounding(database.DB, email, !revoke); err != nil {
				return err
			}
			logger.L().Info("founding status updated", zap.String("email", email), zap.Bool("founding", !revoke))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email of the user to update")
	cmd.Flags().BoolVar(&revoke, "revoke", false, "Remove founding status instead of granting it")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func setFounding(db *gorm.DB, email string, founding bool) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user users.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no user with email %q", email)
		}
		return err
	}
	return db.Model(&users.User{}).Where("id = ?", user.ID).Update("is_founding_member", founding).Error
}
