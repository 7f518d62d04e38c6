package controllers

import (
	"net/http"

	"checkout-service/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError logs the failure and writes the uniform {error:{message}} body.
// Every client-facing operation converts upstream faults here; nothing is
// allowed to escape as an unhandled server error.
func (cc *CheckoutController) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	msg := apperr.Message(err)

	cc.Logger.Warn("Request failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)

	// Uniform contract: the client always gets a structured 400, never a 5xx.
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": msg}})
}
