package stripewebhooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"defi-academy/config"
	"defi-academy/internal/infra/cache"
	"defi-academy/internal/logger"
	"defi-academy/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
	"go.uber.org/zap"
)

// Events de-duplicates deliveries by event ID. Nil disables the check; the
// unique purchase_ref and stripe_session_id columns still hold.
var Events *cache.EventGuard

var nowFunc = time.Now

var errBadPayload = errors.New("malformed event payload")

func StripeWebhook(c *gin.Context) {
	// Stripe key is required for any follow-up API calls (checkoutsession.Get, subscription.Get, etc.)
	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_SECRET_KEY not configured"})
		return
	}

	endpointSecret := config.STRIPE_WEBHOOK_SECRET
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		logger.L().Warn("stripe: signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	eventType := string(event.Type)
	ctx := c.Request.Context()

	claimed, err := Events.Claim(ctx, event.ID)
	if err != nil {
		logger.L().Warn("stripe: event guard unavailable", zap.String("event_id", event.ID), zap.Error(err))
		claimed = true
	}
	if !claimed {
		metrics.WebhookEvents.WithLabelValues(eventType, "duplicate").Inc()
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	status, err := handleEvent(c, event)
	if err != nil {
		// let Stripe redeliver
		if relErr := Events.Release(ctx, event.ID); relErr != nil {
			logger.L().Warn("stripe: release event", zap.String("event_id", event.ID), zap.Error(relErr))
		}
		metrics.WebhookEvents.WithLabelValues(eventType, "error").Inc()
		logger.L().Error("stripe: event failed",
			zap.String("event_id", event.ID),
			zap.String("type", eventType),
			zap.Error(err),
		)
		if errors.Is(err, errBadPayload) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process event"})
		return
	}

	metrics.WebhookEvents.WithLabelValues(eventType, status).Inc()
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func handleEvent(c *gin.Context, event stripe.Event) (string, error) {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return "", fmt.Errorf("%w: session: %v", errBadPayload, err)
		}
		return "received", handleCheckoutSessionCompleted(c, &session)

	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return "", fmt.Errorf("%w: subscription: %v", errBadPayload, err)
		}
		return "received", handleSubscriptionChanged(c, &sub)

	default:
		// Acknowledge unknown events to avoid retries
		return "ignored", nil
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
