// Package pricing resolves what a member pays for an event: a time tier
// from the event's deadlines, a category from the member's profile, and a
// price from the event's 4x3 matrix. Everything here is pure; persistence
// and gateway concerns live with the callers.
package pricing

import (
	"math"
	"time"

	"bdsev/internal/domain"
	"bdsev/internal/models"
)

// Events may carry zero, one, or two deadlines; without any, tier selection
// falls back to a day-count heuristic against the start date.
const earlyBirdHeuristicDays = 14

// ResolveTier returns the pricing tier in effect at now. It is total: any
// combination of missing dates resolves to a tier, never an error, so
// pricing continuity survives sloppy event configuration.
func ResolveTier(ev *models.Event, now time.Time) string {
	if ev == nil {
		return domain.TierEarlyBird
	}
	eb := ev.EarlyBirdDeadline
	std := ev.StandardDeadline

	if eb != nil && now.Before(*eb) {
		return domain.TierEarlyBird
	}
	if eb != nil {
		// Early-bird window has closed.
		if std != nil {
			if now.Before(*std) {
				return domain.TierStandard
			}
			return domain.TierOnsite
		}
		if ev.StartDatetime != nil && now.Before(*ev.StartDatetime) {
			return domain.TierStandard
		}
		return domain.TierOnsite
	}
	if std != nil {
		// No early-bird deadline means sales open at standard pricing.
		if now.Before(*std) {
			return domain.TierStandard
		}
		return domain.TierOnsite
	}
	if ev.StartDatetime != nil {
		daysUntil := int(math.Ceil(ev.StartDatetime.Sub(now).Hours() / 24))
		switch {
		case daysUntil > earlyBirdHeuristicDays:
			return domain.TierEarlyBird
		case daysUntil > 0:
			return domain.TierStandard
		default:
			return domain.TierOnsite
		}
	}
	return domain.TierEarlyBird
}

// TierDisplayName returns the user-facing label for a tier.
func TierDisplayName(tier string) string {
	switch tier {
	case domain.TierStandard:
		return "Standard"
	case domain.TierOnsite:
		return "On-site"
	default:
		return "Early Bird"
	}
}
