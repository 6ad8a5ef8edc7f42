package service

import (
	"fmt"
	"log"
	"math"
	"time"

	"bdsev/internal/domain"
	"bdsev/internal/models"
)

// CouponStore is the coupon lookup surface the services need.
type CouponStore interface {
	GetActiveByCode(eventID uint, code string) (*models.EventCoupon, error)
	IncrementUsedCount(id uint) error
}

// CouponUsageStore tracks discount applications across their provisional
// and finalized states.
type CouponUsageStore interface {
	Create(u *models.EventCouponUsage) error
	LatestProvisional(eventID, userID uint) (*models.EventCouponUsage, error)
	HasFinalized(couponID, eventID, userID uint) (bool, error)
	HasAny(couponID, eventID, userID uint) (bool, error)
	DeleteProvisional(couponID, eventID, userID uint) error
	NextSeq(couponID, eventID, userID uint) (int, error)
	Finalize(usageID, eventMemberID uint) error
}

// RegistrationStore is the event_members surface shared by the coupon and
// payment services.
type RegistrationStore interface {
	ListByEventAndUser(eventID, userID uint) ([]models.EventMember, error)
	GetSettled(eventID, userID uint) (*models.EventMember, error)
	Create(m *models.EventMember) error
	SetPricePaid(id uint, amount float64) error
}

// CouponService validates and applies event coupon codes. Applying a
// coupon only records intent; the use is spent when the payment settles.
type CouponService struct {
	coupons CouponStore
	usages  CouponUsageStore
	members RegistrationStore
	now     func() time.Time
}

func NewCouponService(coupons CouponStore, usages CouponUsageStore, members RegistrationStore) *CouponService {
	return &CouponService{coupons: coupons, usages: usages, members: members, now: time.Now}
}

// Quotation is the outcome of applying a coupon to a base amount.
type Quotation struct {
	Coupon         *models.EventCoupon
	AmountBefore   float64
	DiscountAmount float64
	AmountAfter    float64
}

// Validate runs the full rejection pipeline against a code and computes
// the discounted amount without recording anything.
func (s *CouponService) Validate(eventID, userID uint, code string, baseAmount float64) (*Quotation, error) {
	coupon, err := s.coupons.GetActiveByCode(eventID, code)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, domain.NewCouponError(domain.CouponInvalid, "Invalid or expired coupon code")
	}
	now := s.now()
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return nil, domain.NewCouponError(domain.CouponNotYetActive, "Coupon is not active yet")
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return nil, domain.NewCouponError(domain.CouponExpired, "Coupon has expired")
	}
	if coupon.UsageLimited() && coupon.UsedCount >= *coupon.MaxUses {
		return nil, domain.NewCouponError(domain.CouponLimitReached, "Coupon usage limit reached")
	}
	finalized, err := s.usages.HasFinalized(coupon.ID, eventID, userID)
	if err != nil {
		return nil, err
	}
	if finalized {
		return nil, domain.NewCouponError(domain.CouponAlreadyUsed, "You have already used this coupon for this event")
	}
	settled, err := s.members.GetSettled(eventID, userID)
	if err != nil {
		return nil, err
	}
	if settled != nil {
		any, err := s.usages.HasAny(coupon.ID, eventID, userID)
		if err != nil {
			return nil, err
		}
		if any {
			return nil, domain.NewCouponError(domain.CouponAlreadyUsed, "You have already used this coupon for this event")
		}
	}

	discount := discountAmount(coupon, baseAmount)
	if discount <= 0 {
		return nil, domain.NewCouponError(domain.CouponInvalidDiscount, "Invalid discount configuration")
	}
	if discount > baseAmount {
		discount = baseAmount
	}
	return &Quotation{
		Coupon:         coupon,
		AmountBefore:   baseAmount,
		DiscountAmount: discount,
		AmountAfter:    roundAmount(baseAmount - discount),
	}, nil
}

// Apply validates the code and records a provisional usage, superseding
// any earlier provisional rows for the same coupon and user.
func (s *CouponService) Apply(eventID, userID uint, code string, baseAmount float64) (*Quotation, error) {
	q, err := s.Validate(eventID, userID, code, baseAmount)
	if err != nil {
		return nil, err
	}
	if err := s.usages.DeleteProvisional(q.Coupon.ID, eventID, userID); err != nil {
		return nil, err
	}
	seq, err := s.usages.NextSeq(q.Coupon.ID, eventID, userID)
	if err != nil {
		return nil, err
	}
	usage := &models.EventCouponUsage{
		CouponID:       q.Coupon.ID,
		EventID:        eventID,
		UserID:         userID,
		Seq:            seq,
		AmountBefore:   q.AmountBefore,
		DiscountAmount: q.DiscountAmount,
		AmountAfter:    q.AmountAfter,
		UsedAt:         s.now(),
		Metadata:       fmt.Sprintf(`{"code":%q,"discount_type":%q}`, q.Coupon.Code, q.Coupon.DiscountType),
	}
	if err := s.usages.Create(usage); err != nil {
		return nil, err
	}
	return q, nil
}

// Finalize links the latest provisional usage for the event/user pair to a
// settled registration and spends a coupon use. No provisional usage is a
// no-op: the user paid without a coupon.
func (s *CouponService) Finalize(eventID, userID, eventMemberID uint) error {
	usage, err := s.usages.LatestProvisional(eventID, userID)
	if err != nil {
		return err
	}
	if usage == nil {
		return nil
	}
	if err := s.usages.Finalize(usage.ID, eventMemberID); err != nil {
		return err
	}
	if err := s.coupons.IncrementUsedCount(usage.CouponID); err != nil {
		log.Printf("[COUPON] used_count increment failed coupon=%d usage=%d: %v", usage.CouponID, usage.ID, err)
		return err
	}
	return nil
}

func discountAmount(c *models.EventCoupon, base float64) float64 {
	switch c.DiscountType {
	case domain.DiscountPercent:
		return roundAmount(base * c.DiscountValue / 100)
	default:
		return c.DiscountValue
	}
}

// roundAmount keeps monetary values at BHD's three decimal places.
func roundAmount(v float64) float64 {
	return math.Round(v*1000) / 1000
}
