package service

import (
	"errors"
	"testing"
	"time"

	"bdsev/internal/domain"
	"bdsev/internal/models"
)

func newCouponFixture() (*CouponService, *fakeCouponStore, *fakeUsageStore, *fakeMemberStore) {
	coupons := &fakeCouponStore{}
	usages := &fakeUsageStore{}
	members := &fakeMemberStore{}
	svc := NewCouponService(coupons, usages, members)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc, coupons, usages, members
}

func couponReason(t *testing.T, err error) string {
	t.Helper()
	var ce *domain.CouponError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CouponError, got %v", err)
	}
	return ce.Reason
}

func TestValidateFixedDiscount(t *testing.T) {
	svc, coupons, _, _ := newCouponFixture()
	coupons.coupons = append(coupons.coupons, &models.EventCoupon{
		ID: 1, EventID: 10, Code: "SAVE2", DiscountType: domain.DiscountFixed, DiscountValue: 2, IsActive: true,
	})

	q, err := svc.Validate(10, 5, "SAVE2", 10)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if q.DiscountAmount != 2 || q.AmountAfter != 8 {
		t.Errorf("got discount=%.3f after=%.3f, want 2 and 8", q.DiscountAmount, q.AmountAfter)
	}
}

func TestValidatePercentDiscount(t *testing.T) {
	svc, coupons, _, _ := newCouponFixture()
	coupons.coupons = append(coupons.coupons, &models.EventCoupon{
		ID: 1, EventID: 10, Code: "TEN", DiscountType: domain.DiscountPercent, DiscountValue: 10, IsActive: true,
	})

	q, err := svc.Validate(10, 5, "ten", 10)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if q.DiscountAmount != 1 || q.AmountAfter != 9 {
		t.Errorf("got discount=%.3f after=%.3f, want 1 and 9", q.DiscountAmount, q.AmountAfter)
	}
}

func TestValidateCapsDiscountAtBase(t *testing.T) {
	svc, coupons, _, _ := newCouponFixture()
	coupons.coupons = append(coupons.coupons, &models.EventCoupon{
		ID: 1, EventID: 10, Code: "BIG", DiscountType: domain.DiscountFixed, DiscountValue: 15, IsActive: true,
	})

	q, err := svc.Validate(10, 5, "BIG", 10)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if q.DiscountAmount != 10 || q.AmountAfter != 0 {
		t.Errorf("got discount=%.3f after=%.3f, want capped to 10 and 0", q.DiscountAmount, q.AmountAfter)
	}
}

func TestValidateRejections(t *testing.T) {
	past := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	one := 1

	cases := []struct {
		name   string
		coupon models.EventCoupon
		reason string
	}{
		{
			name:   "inactive",
			coupon: models.EventCoupon{ID: 1, EventID: 10, Code: "C", DiscountType: domain.DiscountFixed, DiscountValue: 2},
			reason: domain.CouponInvalid,
		},
		{
			name:   "not yet active",
			coupon: models.EventCoupon{ID: 1, EventID: 10, Code: "C", DiscountType: domain.DiscountFixed, DiscountValue: 2, IsActive: true, ValidFrom: &future},
			reason: domain.CouponNotYetActive,
		},
		{
			name:   "expired",
			coupon: models.EventCoupon{ID: 1, EventID: 10, Code: "C", DiscountType: domain.DiscountFixed, DiscountValue: 2, IsActive: true, ValidUntil: &past},
			reason: domain.CouponExpired,
		},
		{
			name:   "limit reached",
			coupon: models.EventCoupon{ID: 1, EventID: 10, Code: "C", DiscountType: domain.DiscountFixed, DiscountValue: 2, IsActive: true, MaxUses: &one, UsedCount: 1},
			reason: domain.CouponLimitReached,
		},
		{
			name:   "zero fixed discount",
			coupon: models.EventCoupon{ID: 1, EventID: 10, Code: "C", DiscountType: domain.DiscountFixed, DiscountValue: 0, IsActive: true},
			reason: domain.CouponInvalidDiscount,
		},
		{
			name:   "zero percent discount",
			coupon: models.EventCoupon{ID: 1, EventID: 10, Code: "C", DiscountType: domain.DiscountPercent, DiscountValue: 0, IsActive: true},
			reason: domain.CouponInvalidDiscount,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, coupons, _, _ := newCouponFixture()
			c := tc.coupon
			coupons.coupons = append(coupons.coupons, &c)

			_, err := svc.Validate(10, 5, "C", 10)
			if got := couponReason(t, err); got != tc.reason {
				t.Errorf("reason = %q, want %q", got, tc.reason)
			}
		})
	}
}

func TestValidateUnknownCode(t *testing.T) {
	svc, _, _, _ := newCouponFixture()
	_, err := svc.Validate(10, 5, "NOPE", 10)
	if got := couponReason(t, err); got != domain.CouponInvalid {
		t.Errorf("reason = %q, want %q", got, domain.CouponInvalid)
	}
}

func TestValidateRejectsAfterFinalizedUse(t *testing.T) {
	svc, coupons, usages, _ := newCouponFixture()
	coupons.coupons = append(coupons.coupons, &models.EventCoupon{
		ID: 1, EventID: 10, Code: "ONCE", DiscountType: domain.DiscountFixed, DiscountValue: 2, IsActive: true,
	})
	memberID := uint(77)
	usages.Create(&models.EventCouponUsage{CouponID: 1, EventID: 10, UserID: 5, Seq: 1, EventMemberID: &memberID})

	_, err := svc.Validate(10, 5, "ONCE", 10)
	if got := couponReason(t, err); got != domain.CouponAlreadyUsed {
		t.Errorf("reason = %q, want %q", got, domain.CouponAlreadyUsed)
	}
}

func TestValidateRejectsSettledWithDanglingUsage(t *testing.T) {
	svc, coupons, usages, members := newCouponFixture()
	coupons.coupons = append(coupons.coupons, &models.EventCoupon{
		ID: 1, EventID: 10, Code: "ONCE", DiscountType: domain.DiscountFixed, DiscountValue: 2, IsActive: true,
	})
	members.Create(&models.EventMember{EventID: 10, UserID: 5, Token: "EVT-X", PricePaid: 8})
	usages.Create(&models.EventCouponUsage{CouponID: 1, EventID: 10, UserID: 5, Seq: 1})

	_, err := svc.Validate(10, 5, "ONCE", 10)
	if got := couponReason(t, err); got != domain.CouponAlreadyUsed {
		t.Errorf("reason = %q, want %q", got, domain.CouponAlreadyUsed)
	}
}

func TestApplySupersedesProvisional(t *testing.T) {
	svc, coupons, usages, _ := newCouponFixture()
	coupons.coupons = append(coupons.coupons, &models.EventCoupon{
		ID: 1, EventID: 10, Code: "SAVE2", DiscountType: domain.DiscountFixed, DiscountValue: 2, IsActive: true,
	})

	if _, err := svc.Apply(10, 5, "SAVE2", 10); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	if _, err := svc.Apply(10, 5, "SAVE2", 10); err != nil {
		t.Fatalf("second Apply: %v", err)
	}

	rows := usages.all(10, 5)
	if len(rows) != 1 {
		t.Fatalf("expected 1 provisional row after re-apply, got %d", len(rows))
	}
	if rows[0].Seq != 2 {
		t.Errorf("seq = %d, want 2", rows[0].Seq)
	}
	if rows[0].EventMemberID != nil {
		t.Error("re-applied usage should stay provisional")
	}
}

func TestFinalizeLinksAndSpendsUse(t *testing.T) {
	svc, coupons, usages, _ := newCouponFixture()
	coupons.coupons = append(coupons.coupons, &models.EventCoupon{
		ID: 1, EventID: 10, Code: "SAVE2", DiscountType: domain.DiscountFixed, DiscountValue: 2, IsActive: true,
	})
	if _, err := svc.Apply(10, 5, "SAVE2", 10); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if err := svc.Finalize(10, 5, 77); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	rows := usages.all(10, 5)
	if len(rows) != 1 || rows[0].EventMemberID == nil || *rows[0].EventMemberID != 77 {
		t.Fatalf("usage not linked to registration: %+v", rows)
	}
	if got := coupons.usedCount(1); got != 1 {
		t.Errorf("used_count = %d, want 1", got)
	}
}

func TestFinalizeWithoutProvisionalIsNoop(t *testing.T) {
	svc, coupons, _, _ := newCouponFixture()
	coupons.coupons = append(coupons.coupons, &models.EventCoupon{
		ID: 1, EventID: 10, Code: "SAVE2", DiscountType: domain.DiscountFixed, DiscountValue: 2, IsActive: true,
	})

	if err := svc.Finalize(10, 5, 77); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if got := coupons.usedCount(1); got != 0 {
		t.Errorf("used_count = %d, want 0", got)
	}
}
