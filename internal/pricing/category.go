package pricing

import (
	"strings"

	"bdsev/internal/domain"
	"bdsev/internal/models"
)

// Profile is the pricing-relevant slice of a member: membership type plus
// the free-text category and position strings from the member profile.
type Profile struct {
	MembershipType string
	Category       string
	Position       string
}

// ProfileFor flattens a user (with optional member profile) into resolver
// input.
func ProfileFor(u *models.User) Profile {
	p := Profile{MembershipType: u.MembershipType}
	if u.MemberProfile != nil {
		p.Category = u.MemberProfile.Category
		p.Position = u.MemberProfile.Position
	}
	return p
}

// categoryRule matches lowercased profile text. A rule fires when any of
// its keyword lists matches; paidMembersOnly rules are skipped for unpaid
// memberships, letting evaluation fall through to the regular bucket.
type categoryRule struct {
	category         string
	categoryContains []string
	positionEquals   []string
	positionContains []string
	paidMembersOnly  bool
}

// Rules are evaluated in order; the first match wins. Priority is
// student > hygienist > member, with regular as the fallthrough bucket for
// non-dental profiles and for dentists without a paid membership.
var categoryRules = []categoryRule{
	{
		category:         domain.CategoryStudent,
		categoryContains: []string{"student", "undergraduate", "postgraduate"},
		positionEquals:   []string{"student"},
	},
	{
		category: domain.CategoryHygienist,
		categoryContains: []string{
			"hygienist", "assistant", "technician",
			"dental assistant", "dental hygienist", "dental technologist",
		},
		positionContains: []string{"hygienist", "assistant", "technologist"},
	},
	{
		category:         domain.CategoryMember,
		categoryContains: []string{"dentist"},
		positionContains: []string{
			"dentist", "specialist", "consultant", "resident",
			"intern", "hod", "lead", "faculty", "lecturer",
		},
		paidMembersOnly: true,
	},
}

func (r categoryRule) matches(category, position string) bool {
	for _, kw := range r.categoryContains {
		if strings.Contains(category, kw) {
			return true
		}
	}
	for _, kw := range r.positionEquals {
		if position == kw {
			return true
		}
	}
	for _, kw := range r.positionContains {
		if strings.Contains(position, kw) {
			return true
		}
	}
	return false
}

// ResolveCategory classifies a profile into a pricing category.
func ResolveCategory(p Profile) string {
	category := strings.ToLower(strings.TrimSpace(p.Category))
	position := strings.ToLower(strings.TrimSpace(p.Position))
	for _, rule := range categoryRules {
		if !rule.matches(category, position) {
			continue
		}
		if rule.paidMembersOnly && p.MembershipType != domain.MembershipPaid {
			continue
		}
		return rule.category
	}
	return domain.CategoryRegular
}

// CategoryDisplayName returns the user-facing label for a category.
func CategoryDisplayName(category string) string {
	switch category {
	case domain.CategoryMember:
		return "BDS Member"
	case domain.CategoryStudent:
		return "Student"
	case domain.CategoryHygienist:
		return "Hygienist/Assistant"
	default:
		return "Non-Member"
	}
}
