package pricing

import (
	"testing"

	"bdsev/internal/domain"
)

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    string
	}{
		{"undergraduate student", Profile{Category: "Undergraduate Student"}, domain.CategoryStudent},
		{"postgraduate", Profile{Category: "Postgraduate"}, domain.CategoryStudent},
		{"position exactly student", Profile{Position: "Student"}, domain.CategoryStudent},
		{"dental hygienist", Profile{Category: "Dental Hygienist"}, domain.CategoryHygienist},
		{"assistant by position", Profile{Position: "Dental Assistant"}, domain.CategoryHygienist},
		{"technologist by position", Profile{Position: "Lab Technologist"}, domain.CategoryHygienist},
		{"paid dentist", Profile{MembershipType: domain.MembershipPaid, Category: "Dentist"}, domain.CategoryMember},
		{"paid consultant by position", Profile{MembershipType: domain.MembershipPaid, Position: "Consultant Orthodontist"}, domain.CategoryMember},
		{"unpaid dentist falls to regular", Profile{MembershipType: domain.MembershipFree, Category: "Dentist"}, domain.CategoryRegular},
		{"non-dental other", Profile{Category: "Others (Non Dental)"}, domain.CategoryRegular},
		{"empty profile", Profile{}, domain.CategoryRegular},
		// Student keywords outrank the member rule even for paid members.
		{"paid member who is a student", Profile{MembershipType: domain.MembershipPaid, Category: "Undergraduate Student"}, domain.CategoryStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveCategory(tt.profile); got != tt.want {
				t.Errorf("ResolveCategory(%+v) = %q, want %q", tt.profile, got, tt.want)
			}
		})
	}
}
