package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"bdsev/internal/domain"
	"bdsev/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentCallbackHandler terminates the gateway's browser redirect after
// checkout. The route is unauthenticated: MyFatoorah redirects the user's
// browser here without our JWT, so identity comes from the query string we
// embedded in the callback URL and trust flows from the gateway status
// lookup, never from the query itself.
type PaymentCallbackHandler struct {
	svc *service.EventPaymentService
}

func NewPaymentCallbackHandler(svc *service.EventPaymentService) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{svc: svc}
}

func (h *PaymentCallbackHandler) Handle(c *gin.Context) {
	eventID, err1 := strconv.ParseUint(c.Query("event_id"), 10, 32)
	userID, err2 := strconv.ParseUint(c.Query("user_id"), 10, 32)
	paymentKey := c.Query("paymentId")
	if paymentKey == "" {
		paymentKey = c.Query("Id")
	}
	if err1 != nil || err2 != nil || paymentKey == "" {
		log.Printf("[EVENT-PAY] malformed callback: event_id=%q user_id=%q", c.Query("event_id"), c.Query("user_id"))
		c.Redirect(http.StatusFound, h.svc.FailureRedirect("invalid_callback"))
		return
	}

	conf, err := h.svc.ConfirmCallback(c.Request.Context(), uint(eventID), uint(userID), paymentKey)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotConfirmed):
			c.Redirect(http.StatusFound, h.svc.FailureRedirect("payment_failed"))
		case errors.Is(err, domain.ErrEventNotFound), errors.Is(err, domain.ErrUserNotFound):
			c.Redirect(http.StatusFound, h.svc.FailureRedirect("payment_not_found"))
		default:
			log.Printf("[EVENT-PAY] callback error event=%d user=%d: %v", eventID, userID, err)
			c.Redirect(http.StatusFound, h.svc.FailureRedirect("payment_error"))
		}
		return
	}
	c.Redirect(http.StatusFound, h.svc.SuccessRedirect(conf.EventTitle))
}
