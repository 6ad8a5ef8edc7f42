package handler

import (
	"net/http"
	"strconv"
	"time"

	"bdsev/internal/middleware"
	"bdsev/internal/pricing"
	"bdsev/internal/repository"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventRepo *repository.EventRepository
	userRepo  *repository.UserRepository
}

func NewEventHandler(eventRepo *repository.EventRepository, userRepo *repository.UserRepository) *EventHandler {
	return &EventHandler{eventRepo: eventRepo, userRepo: userRepo}
}

// Pricing returns the caller's personal quote plus the event's full price
// table for display.
func (h *EventHandler) Pricing(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	ev, err := h.eventRepo.GetByID(uint(eventID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}
	if ev == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	user, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now()
	profile := pricing.ProfileFor(user)
	quote := pricing.UserEventPrice(ev, profile, now)
	c.JSON(http.StatusOK, gin.H{
		"event_id":         ev.ID,
		"event_title":      ev.Title,
		"is_free":          quote.IsFree,
		"price":            quote.Price,
		"category":         quote.Category,
		"category_display": pricing.CategoryDisplayName(quote.Category),
		"tier":             quote.Tier,
		"tier_display":     pricing.TierDisplayName(quote.Tier),
		"savings":          pricing.Savings(ev, profile, now),
		"all_prices":       pricing.AllPrices(ev, now),
	})
}
