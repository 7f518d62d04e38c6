package routes

import (
	"path/filepath"

	"checkout-service/controllers"
	"checkout-service/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterCheckoutRoutes(r *gin.Engine, cc *controllers.CheckoutController, staticDir string, otpLimiter *middleware.RateLimiter) {
	// Storefront entry page and assets.
	r.StaticFile("/", filepath.Join(staticDir, "index.html"))
	r.Static("/static", staticDir)

	r.GET("/config", cc.GetConfig)
	r.POST("/create-customer", cc.CreateCustomer)
	r.GET("/checkout-session/:id", cc.GetCheckoutSession)

	// Each attempt costs an SMS, so the verify endpoints are rate limited.
	verify := r.Group("/", otpLimiter.Middleware())
	verify.POST("/start-twilio-verify", cc.StartVerification)
	verify.POST("/check-twilio-verify", cc.CheckVerification)

	// Stripe webhook (raw body, signature-verified).
	r.POST("/webhook", cc.Webhook)
}
