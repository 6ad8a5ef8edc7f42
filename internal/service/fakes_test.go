package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"bdsev/internal/domain"
	"bdsev/internal/models"
	"bdsev/pkg/payment"
)

type fakeCouponStore struct {
	mu      sync.Mutex
	coupons []*models.EventCoupon
}

func (f *fakeCouponStore) GetActiveByCode(eventID uint, code string) (*models.EventCoupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.coupons {
		if c.EventID == eventID && c.IsActive && strings.EqualFold(c.Code, code) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCouponStore) IncrementUsedCount(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.coupons {
		if c.ID == id {
			c.UsedCount++
			return nil
		}
	}
	return nil
}

func (f *fakeCouponStore) usedCount(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.coupons {
		if c.ID == id {
			return c.UsedCount
		}
	}
	return 0
}

type fakeUsageStore struct {
	mu     sync.Mutex
	rows   []*models.EventCouponUsage
	nextID uint
}

func (f *fakeUsageStore) Create(u *models.EventCouponUsage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeUsageStore) LatestProvisional(eventID, userID uint) (*models.EventCouponUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *models.EventCouponUsage
	for _, u := range f.rows {
		if u.EventID != eventID || u.UserID != userID || u.EventMemberID != nil {
			continue
		}
		if best == nil || u.Seq > best.Seq || (u.Seq == best.Seq && u.ID > best.ID) {
			best = u
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (f *fakeUsageStore) HasFinalized(couponID, eventID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.CouponID == couponID && u.EventID == eventID && u.UserID == userID && u.EventMemberID != nil {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsageStore) HasAny(couponID, eventID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.CouponID == couponID && u.EventID == eventID && u.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsageStore) DeleteProvisional(couponID, eventID, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	for _, u := range f.rows {
		if u.CouponID == couponID && u.EventID == eventID && u.UserID == userID && u.EventMemberID == nil {
			continue
		}
		kept = append(kept, u)
	}
	f.rows = kept
	return nil
}

func (f *fakeUsageStore) NextSeq(couponID, eventID, userID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	maxSeq := 0
	for _, u := range f.rows {
		if u.CouponID == couponID && u.EventID == eventID && u.UserID == userID && u.Seq > maxSeq {
			maxSeq = u.Seq
		}
	}
	return maxSeq + 1, nil
}

func (f *fakeUsageStore) Finalize(usageID, eventMemberID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.ID == usageID && u.EventMemberID == nil {
			id := eventMemberID
			u.EventMemberID = &id
		}
	}
	return nil
}

func (f *fakeUsageStore) all(eventID, userID uint) []models.EventCouponUsage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EventCouponUsage
	for _, u := range f.rows {
		if u.EventID == eventID && u.UserID == userID {
			out = append(out, *u)
		}
	}
	return out
}

// fakeMemberStore emulates the composite unique index on
// (event_id, user_id) so the insert-or-recover path is exercised.
type fakeMemberStore struct {
	mu     sync.Mutex
	rows   []*models.EventMember
	nextID uint
}

func (f *fakeMemberStore) ListByEventAndUser(eventID, userID uint) ([]models.EventMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EventMember
	for _, m := range f.rows {
		if m.EventID == eventID && m.UserID == userID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.After(out[j].JoinedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeMemberStore) GetSettled(eventID, userID uint) (*models.EventMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.EventID == eventID && m.UserID == userID && m.PricePaid > 0 {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberStore) Create(m *models.EventMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.EventID == m.EventID && r.UserID == m.UserID {
			return domain.ErrDuplicateRegistration
		}
	}
	f.nextID++
	m.ID = f.nextID
	cp := *m
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeMemberStore) SetPricePaid(id uint, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rows {
		if m.ID == id {
			m.PricePaid = amount
		}
	}
	return nil
}

func (f *fakeMemberStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeEventStore struct {
	events map[uint]*models.Event
}

func (f *fakeEventStore) GetByID(id uint) (*models.Event, error) {
	return f.events[id], nil
}

type fakeUserStore struct {
	users map[uint]*models.User
}

func (f *fakeUserStore) GetByID(id uint) (*models.User, error) {
	return f.users[id], nil
}

type fakeGateway struct {
	mu            sync.Mutex
	methods       []payment.PaymentMethod
	initiateCalls int
	executeCalls  int
	executedReqs  []payment.ExecuteRequest
	statusKeys    [][2]string
	status        *payment.Status
	statusErr     error
}

func (f *fakeGateway) InitiatePayment(ctx context.Context, req payment.InitiateRequest) ([]payment.PaymentMethod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initiateCalls++
	if f.methods != nil {
		return f.methods, nil
	}
	return []payment.PaymentMethod{{ID: 2, Name: "VISA/MASTER", TotalAmount: req.Amount, Currency: req.Currency}}, nil
}

func (f *fakeGateway) ExecutePayment(ctx context.Context, req payment.ExecuteRequest) (*payment.ExecuteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.executeCalls++
	f.executedReqs = append(f.executedReqs, req)
	return &payment.ExecuteResult{PaymentURL: "https://pay.test/checkout", InvoiceID: "6392538"}, nil
}

func (f *fakeGateway) GetPaymentStatus(ctx context.Context, key, keyType string) (*payment.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusKeys = append(f.statusKeys, [2]string{key, keyType})
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if f.status != nil {
		return f.status, nil
	}
	return &payment.Status{InvoiceStatus: "Paid", InvoiceValue: 0}, nil
}
