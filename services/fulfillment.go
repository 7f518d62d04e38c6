package services

import (
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// Fulfillment receives the side effects of settled payments. The webhook
// handler dispatches into it exactly once per recognized event.
type Fulfillment interface {
	PaymentSucceeded(intent *stripe.PaymentIntent)
	PaymentFailed(intent *stripe.PaymentIntent)
}

// LogFulfillment is the default implementation: fulfillment for this demo is
// a log line. Replace it with order fulfillment, receipt email, etc.
type LogFulfillment struct {
	Logger *zap.Logger
}

func (f *LogFulfillment) PaymentSucceeded(intent *stripe.PaymentIntent) {
	f.Logger.Info("Payment captured",
		zap.String("payment_intent_id", intent.ID),
		zap.Int64("amount", intent.Amount),
		zap.String("currency", string(intent.Currency)),
	)
}

func (f *LogFulfillment) PaymentFailed(intent *stripe.PaymentIntent) {
	f.Logger.Warn("Payment failed",
		zap.String("payment_intent_id", intent.ID),
		zap.Int64("amount", intent.Amount),
		zap.String("currency", string(intent.Currency)),
	)
}
