package handler

import (
	"errors"
	"net/http"
	"time"

	"bdsev/internal/domain"
	"bdsev/internal/middleware"
	"bdsev/internal/models"
	"bdsev/internal/repository"
	"bdsev/internal/service"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	paymentSvc *service.EventPaymentService
	couponRepo *repository.CouponRepository
}

func NewCouponHandler(paymentSvc *service.EventPaymentService, couponRepo *repository.CouponRepository) *CouponHandler {
	return &CouponHandler{paymentSvc: paymentSvc, couponRepo: couponRepo}
}

type ApplyCouponRequest struct {
	EventID uint   `json:"event_id" binding:"required"`
	Code    string `json:"code" binding:"required"`
}

// Apply previews a coupon against the caller's current price. Nothing is
// recorded; the discount is re-applied when the invoice is created.
func (h *CouponHandler) Apply(c *gin.Context) {
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q, err := h.paymentSvc.PreviewCoupon(req.EventID, middleware.GetUserID(c), req.Code)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"coupon": gin.H{
			"code":           q.Coupon.Code,
			"discount_type":  q.Coupon.DiscountType,
			"discount_value": q.Coupon.DiscountValue,
		},
		"base_amount":     q.AmountBefore,
		"discount_amount": q.DiscountAmount,
		"final_amount":    q.AmountAfter,
		"currency":        domain.Currency,
	})
}

type CreateCouponRequest struct {
	EventID       uint     `json:"event_id" binding:"required"`
	Code          string   `json:"code" binding:"required,min=2,max=64"`
	DiscountType  string   `json:"discount_type" binding:"required,oneof=fixed percent"`
	DiscountValue float64  `json:"discount_value" binding:"required,gt=0"`
	ValidFrom     *string  `json:"valid_from"`  // ISO date-time
	ValidUntil    *string  `json:"valid_until"` // ISO date-time
	MaxUses       *int     `json:"max_uses"`
}

// AdminCreate registers a coupon for an event.
func (h *CouponHandler) AdminCreate(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DiscountType == domain.DiscountPercent && req.DiscountValue > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "percent discount cannot exceed 100"})
		return
	}
	coupon := &models.EventCoupon{
		EventID:       req.EventID,
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		IsActive:      true,
		MaxUses:       req.MaxUses,
	}
	if req.ValidFrom != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_from (use RFC3339)"})
			return
		}
		coupon.ValidFrom = &t
	}
	if req.ValidUntil != nil {
		t, err := time.Parse(time.RFC3339, *req.ValidUntil)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_until (use RFC3339)"})
			return
		}
		coupon.ValidUntil = &t
	}
	if err := h.couponRepo.Create(coupon); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "coupon code already exists for this event"})
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

// AdminList returns all coupons for an event.
func (h *CouponHandler) AdminList(c *gin.Context) {
	eventID, err := parseUintParam(c, "event_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event_id"})
		return
	}
	coupons, err := h.couponRepo.ListByEvent(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list coupons"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupons": coupons})
}

// respondPaymentError maps service errors to HTTP responses. Shared by the
// coupon and payment handlers.
func respondPaymentError(c *gin.Context, err error) {
	var ce *domain.CouponError
	var ge *domain.GatewayError
	switch {
	case errors.Is(err, domain.ErrEventNotFound), errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEventFree), errors.Is(err, domain.ErrPriceNotConfigured):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": "You have already paid for this event"})
	case errors.As(err, &ce):
		c.JSON(http.StatusBadRequest, gin.H{"error": ce.Message, "reason": ce.Reason})
	case errors.As(err, &ge):
		c.JSON(http.StatusInternalServerError, gin.H{"error": ge.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
