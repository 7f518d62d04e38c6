package controllers

import (
	"net/http"

	"checkout-service/apperr"
	"checkout-service/models"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckoutController struct {
	Payments       services.PaymentsClient
	Verify         services.VerifyClient
	Fulfillment    services.Fulfillment
	PublishableKey string
	Logger         *zap.Logger
}

// GetConfig returns the publishable key and the server-side purchase so the
// client renders the real price. Client-supplied amounts are never consulted.
func (cc *CheckoutController) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"publishableKey": cc.PublishableKey,
		"purchase":       models.CreatePurchase(nil),
	})
}

// CreateCustomer validates the phone number, creates the customer record and
// opens a setup-mode checkout session for storing a card.
func (cc *CheckoutController) CreateCustomer(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		cc.respondError(c, apperr.New(apperr.KindInvalidInput, "phone and email are required", err))
		return
	}

	origin := c.GetHeader("Origin")
	if origin == "" {
		cc.respondError(c, apperr.New(apperr.KindMissingOrigin, "Missing Origin header", nil))
		return
	}

	ctx := c.Request.Context()

	number, err := cc.Verify.LookupPhoneNumber(ctx, req.Phone)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	customer, err := cc.Payments.CreateCustomer(ctx, number, req.Email)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	session, err := cc.Payments.CreateSetupSession(ctx, customer.ID, origin)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer":        customer,
		"checkoutSession": session,
	})
}

// GetCheckoutSession retrieves a checkout session with its customer and
// card-setup result expanded, so the client can confirm setup completed.
func (cc *CheckoutController) GetCheckoutSession(c *gin.Context) {
	session, err := cc.Payments.GetCheckoutSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		cc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkoutSession": session})
}
