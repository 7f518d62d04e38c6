package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// Stripe events are small; anything larger than this is not a real event.
const maxWebhookBody = int64(65536)

// Webhook receives payment events from the payments platform. The raw body is
// needed for signature verification, so this route bypasses JSON binding.
func (cc *CheckoutController) Webhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		cc.Logger.Warn("Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "Invalid webhook body"}})
		return
	}

	event, err := cc.Payments.ParseEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		// Hard reject: the caller here is an untrusted platform callback,
		// not the storefront client.
		cc.respondError(c, err)
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		if intent, ok := cc.eventPaymentIntent(event); ok {
			cc.Fulfillment.PaymentSucceeded(intent)
		}
	case "payment_intent.payment_failed":
		if intent, ok := cc.eventPaymentIntent(event); ok {
			cc.Fulfillment.PaymentFailed(intent)
		}
	default:
		cc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (cc *CheckoutController) eventPaymentIntent(event stripe.Event) (*stripe.PaymentIntent, bool) {
	if event.Data == nil {
		cc.Logger.Error("Webhook event has no data object", zap.String("event_id", event.ID))
		return nil, false
	}
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		cc.Logger.Error("Failed to unmarshal payment intent from event",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
		return nil, false
	}
	return &intent, true
}
