package pricing

import (
	"time"

	"bdsev/internal/domain"
	"bdsev/internal/models"
)

// matrixRow returns the event's price cells for one category in tier order.
func matrixRow(ev *models.Event, category string) (earlybird, standard, onsite *float64) {
	switch category {
	case domain.CategoryMember:
		return ev.MemberPrice, ev.MemberStandardPrice, ev.MemberOnsitePrice
	case domain.CategoryStudent:
		return ev.StudentPrice, ev.StudentStandardPrice, ev.StudentOnsitePrice
	case domain.CategoryHygienist:
		return ev.HygienistPrice, ev.HygienistStandardPrice, ev.HygienistOnsitePrice
	default:
		return ev.RegularPrice, ev.RegularStandardPrice, ev.RegularOnsitePrice
	}
}

// rowPrice picks the tier cell from a row, falling back toward earlier
// tiers: onsite -> standard -> earlybird.
func rowPrice(earlybird, standard, onsite *float64, tier string) *float64 {
	switch tier {
	case domain.TierOnsite:
		if onsite != nil {
			return onsite
		}
		if standard != nil {
			return standard
		}
		return earlybird
	case domain.TierStandard:
		if standard != nil {
			return standard
		}
		return earlybird
	default:
		return earlybird
	}
}

// PriceFor resolves the matrix cell for category and tier, falling back
// within the category row and finally to the regular row with the same
// chain. Returns nil when no applicable price is configured; callers treat
// nil as an admin data gap, never a zero charge.
func PriceFor(ev *models.Event, category, tier string) *float64 {
	if ev == nil || !ev.IsPaid {
		return nil
	}
	eb, std, onsite := matrixRow(ev, category)
	if p := rowPrice(eb, std, onsite, tier); p != nil {
		return p
	}
	if category != domain.CategoryRegular {
		eb, std, onsite = matrixRow(ev, domain.CategoryRegular)
		return rowPrice(eb, std, onsite, tier)
	}
	return nil
}

// Quote is the combined pricing decision for one user and one event.
type Quote struct {
	Price    *float64 `json:"price"`
	Category string   `json:"category"`
	Tier     string   `json:"tier"`
	IsFree   bool     `json:"is_free"`
}

// UserEventPrice resolves the price a profile pays for an event at now.
// Free events bypass categorization entirely.
func UserEventPrice(ev *models.Event, p Profile, now time.Time) Quote {
	if ev == nil || !ev.IsPaid {
		return Quote{Category: domain.CategoryRegular, Tier: domain.TierEarlyBird, IsFree: true}
	}
	category := ResolveCategory(p)
	tier := ResolveTier(ev, now)
	return Quote{Price: PriceFor(ev, category, tier), Category: category, Tier: tier}
}

// Savings is how much the profile saves versus the regular price in the
// same tier; zero for regular-priced profiles or incomplete matrices.
func Savings(ev *models.Event, p Profile, now time.Time) float64 {
	if ev == nil || !ev.IsPaid {
		return 0
	}
	category := ResolveCategory(p)
	if category == domain.CategoryRegular {
		return 0
	}
	tier := ResolveTier(ev, now)
	userPrice := PriceFor(ev, category, tier)
	regularPrice := PriceFor(ev, domain.CategoryRegular, tier)
	if userPrice != nil && regularPrice != nil && *regularPrice > *userPrice {
		return *regularPrice - *userPrice
	}
	return 0
}

// CategoryPrices is one row of the display pricing table.
type CategoryPrices struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	EarlyBird *float64 `json:"earlybird"`
	Standard  *float64 `json:"standard"`
	Onsite    *float64 `json:"onsite"`
}

// PriceTable is the full matrix plus the tier currently in effect.
type PriceTable struct {
	CurrentTier        string           `json:"current_tier"`
	CurrentTierDisplay string           `json:"current_tier_display"`
	Categories         []CategoryPrices `json:"categories"`
}

// AllPrices organizes the event's matrix for display. Nil for free events.
func AllPrices(ev *models.Event, now time.Time) *PriceTable {
	if ev == nil || !ev.IsPaid {
		return nil
	}
	tier := ResolveTier(ev, now)
	rows := []struct {
		id   string
		name string
	}{
		{domain.CategoryMember, "BDS & Partner Dentists"},
		{domain.CategoryRegular, "Non-Member Dentist"},
		{domain.CategoryStudent, "Undergraduate Student"},
		{domain.CategoryHygienist, "Hygienist / Assistant / Technician"},
	}
	table := &PriceTable{
		CurrentTier:        tier,
		CurrentTierDisplay: TierDisplayName(tier),
		Categories:         make([]CategoryPrices, 0, len(rows)),
	}
	for _, row := range rows {
		eb, std, onsite := matrixRow(ev, row.id)
		table.Categories = append(table.Categories, CategoryPrices{
			ID:        row.id,
			Name:      row.name,
			EarlyBird: eb,
			Standard:  std,
			Onsite:    onsite,
		})
	}
	return table
}
