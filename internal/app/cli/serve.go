package cli

import (
	"context"
	"fmt"
	"time"

	"defi-academy/config"
	"defi-academy/database"
	stripewebhooks "defi-academy/internal/api/stripewebhook"
	routes "defi-academy/internal/app/http"
	"defi-academy/internal/infra/cache"
	"defi-academy/internal/infra/mail"
	"defi-academy/internal/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

// setup loads configuration and installs the global logger. Shared by every
// subcommand.
func setup() {
	config.LoadEnv()
	logger.SetLogger(logger.New(config.LOG_LEVEL, config.LOG_FORMAT))
}

func runServe(cmd *cobra.Command, _ []string) error {
	setup()
	log := logger.L()
	defer func() { _ = log.Sync() }()

	database.InitDB(config.DB_URL)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	redisClient, err := cache.NewClient(config.REDIS_URL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, stripe events are de-duplicated by the database only", zap.Error(err))
		}
		stripewebhooks.Events = cache.NewEventGuard(redisClient, cache.DefaultEventTTL)
		defer func() { _ = redisClient.Close() }()
	}

	mailer, err := mail.New(ctx, mail.Config{
		Provider:     config.MAIL_PROVIDER,
		From:         config.MAIL_FROM,
		SMTPHost:     config.SMTP_HOST,
		SMTPPort:     config.SMTP_PORT,
		SMTPUsername: config.SMTP_USERNAME,
		SMTPPassword: config.SMTP_PASSWORD,
		AWSRegion:    config.AWS_REGION,
	}, log)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	mail.Default = mailer

	if config.APP_ENV == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logger.GinLogger(), gin.Recovery())

	// Add CORS middleware BEFORE registering routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORS_ORIGIN,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r)

	rules := config.AccessRules()
	log.Info("server starting",
		zap.String("port", config.PORT),
		zap.String("env", config.APP_ENV),
		zap.Int("early_access_window_days", rules.EarlyAccessWindowDays),
		zap.Float64("commission_rate_monthly", rules.CommissionRates.Monthly),
		zap.Float64("commission_rate_annual", rules.CommissionRates.Annual),
	)
	return r.Run(":" + config.PORT)
}
