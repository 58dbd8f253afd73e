package api

import (
	"net/http"

	reqdto "cabin-booking/internal/handler/dto/request"
	"cabin-booking/internal/handler/httperr"
	"cabin-booking/internal/pkg/errs"
	"cabin-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	payments commands.PaymentCommands
}

func NewPaymentHandler(payments commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) OpenOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	result, err := h.payments.OpenPaymentOrder(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Webhook receives the gateway's payment notification. The body is
// form-encoded and always parseable; a bad signature answers 401 without
// touching any state. A late confirmation answers 200: the notification was
// accepted and recorded, the gateway must not retry it.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req reqdto.WebhookRequest
	if err := c.ShouldBind(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid webhook payload", nil)
		return
	}

	result, err := h.payments.HandleWebhook(c.Request.Context(), req.Token, req.Signature)
	if err != nil {
		if errs.Is(err, errs.ErrLateConfirmation) {
			c.JSON(http.StatusOK, gin.H{"status": "flagged_for_review"})
			return
		}
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
