package controllers

import (
	"net/http"

	"checkout-service/apperr"
	"checkout-service/models"
	"checkout-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StartVerification resolves the customer's phone number and asks the
// verification platform to send a one-time code over SMS.
func (cc *CheckoutController) StartVerification(c *gin.Context) {
	var req struct {
		CustomerID string `json:"customerId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		cc.respondError(c, apperr.New(apperr.KindInvalidInput, "customerId is required", err))
		return
	}

	ctx := c.Request.Context()

	customer, err := cc.Payments.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	status, err := cc.Verify.StartVerification(ctx, customer.Phone)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// CheckVerification submits the one-time code and, only on approval, charges
// the customer's single stored card for the server-computed purchase.
func (cc *CheckoutController) CheckVerification(c *gin.Context) {
	var req struct {
		CustomerID string            `json:"customerId" binding:"required"`
		Code       string            `json:"code" binding:"required"`
		Items      []models.LineItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		cc.respondError(c, apperr.New(apperr.KindInvalidInput, "customerId and code are required", err))
		return
	}

	ctx := c.Request.Context()

	customer, err := cc.Payments.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	status, err := cc.Verify.CheckVerification(ctx, customer.Phone, req.Code)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	// No charge unless the platform reports approval. Pending, denied and
	// expired all land here.
	if status != services.VerificationApproved {
		cc.Logger.Info("Verification not approved",
			zap.String("customer_id", req.CustomerID),
			zap.String("status", status),
		)
		cc.respondError(c, apperr.New(apperr.KindVerificationFailed, "Incorrect code. Please try again!", nil))
		return
	}

	methods, err := cc.Payments.ListCardPaymentMethods(ctx, req.CustomerID)
	if err != nil {
		cc.respondError(c, err)
		return
	}
	if len(methods) != 1 {
		cc.Logger.Warn("Unexpected stored card count",
			zap.String("customer_id", req.CustomerID),
			zap.Int("count", len(methods)),
		)
		cc.respondError(c, apperr.New(apperr.KindAmbiguousPaymentMethod, "Too few or too many payment methods on customer!", nil))
		return
	}

	purchase := models.CreatePurchase(req.Items)
	intent, err := cc.Payments.ChargeStoredMethod(ctx, req.CustomerID, methods[0].ID, purchase)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentIntent": intent})
}
