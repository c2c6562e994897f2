package auth

import (
	"context"
	"net/url"

	"defi-academy/config"
	"defi-academy/internal/infra/mail"
	"defi-academy/internal/logger"

	"go.uber.org/zap"
)

func verificationLink(token string) string {
	return config.API_URL + "/verify?token=" + url.QueryEscape(token)
}

func resetLink(token string) string {
	return config.APP_URL + "/reset-password?token=" + url.QueryEscape(token)
}

func SendVerificationEmail(ctx context.Context, to, token string) error {
	err := mail.Default.Send(ctx, mail.VerificationMessage(to, verificationLink(token)))
	if err != nil {
		logger.L().Error("verification email failed", zap.String("to", to), zap.Error(err))
	}
	return err
}

func sendPasswordResetEmail(ctx context.Context, to, token string) {
	if err := mail.Default.Send(ctx, mail.PasswordResetMessage(to, resetLink(token))); err != nil {
		logger.L().Error("password reset email failed", zap.String("to", to), zap.Error(err))
	}
}
