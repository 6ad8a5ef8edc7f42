package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"bdsev/internal/middleware"
	"bdsev/internal/models"
	"bdsev/internal/repository"
	"bdsev/internal/service"

	"github.com/gin-gonic/gin"
)

type EventPaymentHandler struct {
	svc       *service.EventPaymentService
	auditRepo *repository.AuditLogRepository
}

func NewEventPaymentHandler(svc *service.EventPaymentService, auditRepo *repository.AuditLogRepository) *EventPaymentHandler {
	return &EventPaymentHandler{svc: svc, auditRepo: auditRepo}
}

type CreateInvoiceRequest struct {
	EventID    uint   `json:"event_id" binding:"required"`
	UserID     uint   `json:"user_id" binding:"required"`
	CouponCode string `json:"coupon_code"`
}

type ExecutePaymentRequest struct {
	EventID         uint `json:"event_id" binding:"required"`
	UserID          uint `json:"user_id" binding:"required"`
	PaymentMethodID int  `json:"payment_method_id" binding:"required"`
}

// CreateInvoice lists the gateway's payment methods for the caller's
// resolved (and optionally discounted) price.
func (h *EventPaymentHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if middleware.GetUserID(c) != req.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot pay for another user"})
		return
	}
	inv, err := h.svc.CreateInvoice(c.Request.Context(), req.EventID, req.UserID, req.CouponCode)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	resp := gin.H{
		"payment_methods": inv.PaymentMethods,
		"amount":          inv.Amount,
		"currency":        inv.Currency,
		"category":        inv.Category,
		"tier":            inv.Tier,
		"event_title":     inv.EventTitle,
	}
	if inv.Coupon != nil {
		resp["coupon"] = gin.H{
			"code":            inv.Coupon.Coupon.Code,
			"base_amount":     inv.Coupon.AmountBefore,
			"discount_amount": inv.Coupon.DiscountAmount,
			"final_amount":    inv.Coupon.AmountAfter,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ExecutePayment sends the caller to the gateway checkout for the chosen
// method and records the pending registration.
func (h *EventPaymentHandler) ExecutePayment(c *gin.Context) {
	var req ExecutePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if middleware.GetUserID(c) != req.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot pay for another user"})
		return
	}
	exec, err := h.svc.ExecutePayment(c.Request.Context(), req.EventID, req.UserID, req.PaymentMethodID)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	h.auditLog(req.UserID, "event_payment_executed", req.EventID, c)
	c.JSON(http.StatusOK, gin.H{
		"payment_url":       exec.PaymentURL,
		"invoice_id":        exec.InvoiceID,
		"is_direct_payment": exec.IsDirectPayment,
	})
}

func (h *EventPaymentHandler) auditLog(userID uint, action string, eventID uint, c *gin.Context) {
	if h.auditRepo == nil {
		return
	}
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "event_payment",
		ResourceID: fmt.Sprintf("%d", eventID),
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(v), err
}
