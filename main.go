package main

import (
	"log"
	"time"

	"checkout-service/config"
	"checkout-service/controllers"
	"checkout-service/middleware"
	"checkout-service/routes"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[CheckoutService] No .env file found, using system environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("[CheckoutService] ❌ Failed to load config:", err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal("[CheckoutService] ❌ Failed to initialize logger:", err)
	}
	defer logger.Sync()

	if cfg.StripeWebhookSecret == "" {
		logger.Warn("STRIPE_WEBHOOK_SECRET not set; webhook signatures will NOT be verified (dev only)")
	}

	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret, logger)
	verifyClient := services.NewTwilioVerifyClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioVerifyServiceSID)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	cc := &controllers.CheckoutController{
		Payments:       stripeSvc,
		Verify:         verifyClient,
		Fulfillment:    &services.LogFulfillment{Logger: logger},
		PublishableKey: cfg.StripePublishableKey,
		Logger:         logger,
	}

	otpLimiter := middleware.NewRateLimiter(rate.Every(2*time.Second), 5, 10*time.Minute)
	routes.RegisterCheckoutRoutes(r, cc, cfg.StaticDir, otpLimiter)

	log.Println("[CheckoutService] ✅ Running on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("[CheckoutService] ❌ Server failed:", err)
	}
}
