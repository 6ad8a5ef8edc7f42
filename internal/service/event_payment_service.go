package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bdsev/internal/domain"
	"bdsev/internal/models"
	"bdsev/internal/pricing"
	"bdsev/pkg/payment"

	"github.com/google/uuid"
)

type EventStore interface {
	GetByID(id uint) (*models.Event, error)
}

type UserStore interface {
	GetByID(id uint) (*models.User, error)
}

// EventPaymentService orchestrates the three payment phases: listing
// methods, executing a payment, and confirming the gateway callback. The
// registration store is only written after the gateway accepts a request,
// and settlement only after the gateway confirms the charge.
type EventPaymentService struct {
	events  EventStore
	users   UserStore
	members RegistrationStore
	coupons *CouponService
	usages  CouponUsageStore
	gateway payment.Gateway
	baseURL string
	now     func() time.Time
}

func NewEventPaymentService(
	events EventStore,
	users UserStore,
	members RegistrationStore,
	coupons *CouponService,
	usages CouponUsageStore,
	gateway payment.Gateway,
	baseURL string,
) *EventPaymentService {
	return &EventPaymentService{
		events:  events,
		users:   users,
		members: members,
		coupons: coupons,
		usages:  usages,
		gateway: gateway,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// Invoice is the phase-A response: payment methods plus the resolved
// amount, discounted when a coupon code was accepted.
type Invoice struct {
	PaymentMethods []payment.PaymentMethod `json:"payment_methods"`
	Amount         float64                 `json:"amount"`
	Currency       string                  `json:"currency"`
	Category       string                  `json:"category"`
	Tier           string                  `json:"tier"`
	EventTitle     string                  `json:"event_title"`
	Coupon         *Quotation              `json:"-"`
}

// Execution is the phase-B response.
type Execution struct {
	PaymentURL      string
	InvoiceID       string
	IsDirectPayment bool
	EventMemberID   uint
}

// Confirmation is the callback verification outcome.
type Confirmation struct {
	EventMemberID  uint
	AmountPaid     float64
	EventTitle     string
	AlreadySettled bool
}

func (s *EventPaymentService) loadPaidEventAndUser(eventID, userID uint) (*models.Event, *models.User, error) {
	ev, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, nil, err
	}
	if ev == nil {
		return nil, nil, domain.ErrEventNotFound
	}
	if !ev.IsPaid {
		return nil, nil, domain.ErrEventFree
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	return ev, user, nil
}

// resolveAmount prices the event for the user right now. A missing or
// non-positive matrix cell on a paid event is an admin data gap and blocks
// payment rather than charging zero.
func (s *EventPaymentService) resolveAmount(ev *models.Event, user *models.User) (float64, pricing.Quote, error) {
	q := pricing.UserEventPrice(ev, pricing.ProfileFor(user), s.now())
	if q.Price == nil || *q.Price <= 0 {
		return 0, q, domain.ErrPriceNotConfigured
	}
	return *q.Price, q, nil
}

func (s *EventPaymentService) callbackURL(eventID, userID uint) string {
	return fmt.Sprintf("%s/api/v1/payments/event/callback?event_id=%d&user_id=%d", s.baseURL, eventID, userID)
}

func (s *EventPaymentService) errorURL() string {
	return s.baseURL + "/events?error=payment_failed"
}

func (s *EventPaymentService) initiateRequest(ev *models.Event, user *models.User, amount float64) payment.InitiateRequest {
	return payment.InitiateRequest{
		Amount:   amount,
		Currency: domain.Currency,
		Payer: payment.Payer{
			Name:   user.FullName,
			Email:  user.Email,
			Mobile: user.ContactMobile(),
		},
		Items: []payment.InvoiceItem{
			{Name: "Event Registration - " + ev.Title, Quantity: 1, UnitPrice: amount},
		},
		CallbackURL: s.callbackURL(ev.ID, user.ID),
		ErrorURL:    s.errorURL(),
		ReferenceID: fmt.Sprintf("EVT-%d-%d", ev.ID, user.ID),
	}
}

// PreviewCoupon validates a code against the user's current price without
// recording anything; the apply endpoint uses it so a browsed code never
// blocks a later payment.
func (s *EventPaymentService) PreviewCoupon(eventID, userID uint, code string) (*Quotation, error) {
	ev, user, err := s.loadPaidEventAndUser(eventID, userID)
	if err != nil {
		return nil, err
	}
	amount, _, err := s.resolveAmount(ev, user)
	if err != nil {
		return nil, err
	}
	return s.coupons.Validate(eventID, userID, code, amount)
}

// CreateInvoice resolves the user's price, optionally applies a coupon,
// and asks the gateway which methods can collect the amount. Nothing is
// written to the registration store here; only a provisional coupon usage
// may be recorded.
func (s *EventPaymentService) CreateInvoice(ctx context.Context, eventID, userID uint, couponCode string) (*Invoice, error) {
	ev, user, err := s.loadPaidEventAndUser(eventID, userID)
	if err != nil {
		return nil, err
	}
	settled, err := s.members.GetSettled(eventID, userID)
	if err != nil {
		return nil, err
	}
	if settled != nil {
		return nil, domain.ErrAlreadyPaid
	}
	amount, quote, err := s.resolveAmount(ev, user)
	if err != nil {
		return nil, err
	}

	var applied *Quotation
	if code := strings.TrimSpace(couponCode); code != "" {
		applied, err = s.coupons.Apply(eventID, userID, code, amount)
		if err != nil {
			return nil, err
		}
		amount = applied.AmountAfter
	}

	methods, err := s.gateway.InitiatePayment(ctx, s.initiateRequest(ev, user, amount))
	if err != nil {
		return nil, &domain.GatewayError{Op: "initiate", Err: err}
	}
	return &Invoice{
		PaymentMethods: methods,
		Amount:         amount,
		Currency:       domain.Currency,
		Category:       quote.Category,
		Tier:           quote.Tier,
		EventTitle:     ev.Title,
		Coupon:         applied,
	}, nil
}

// ExecutePayment sends the user to the gateway's checkout. The payable
// amount is re-resolved server side; a provisional coupon usage from phase
// A carries its discounted amount forward. On gateway success the pending
// registration is materialized so the callback has a row to settle.
func (s *EventPaymentService) ExecutePayment(ctx context.Context, eventID, userID uint, paymentMethodID int) (*Execution, error) {
	ev, user, err := s.loadPaidEventAndUser(eventID, userID)
	if err != nil {
		return nil, err
	}
	settled, err := s.members.GetSettled(eventID, userID)
	if err != nil {
		return nil, err
	}
	if settled != nil {
		return nil, domain.ErrAlreadyPaid
	}
	amount, err := s.payableAmount(ev, user)
	if err != nil {
		return nil, err
	}

	res, err := s.gateway.ExecutePayment(ctx, payment.ExecuteRequest{
		InitiateRequest: s.initiateRequest(ev, user, amount),
		PaymentMethodID: paymentMethodID,
	})
	if err != nil {
		return nil, &domain.GatewayError{Op: "execute", Err: err}
	}

	member := s.materializeRegistration(ev, user)
	out := &Execution{
		PaymentURL:      res.PaymentURL,
		InvoiceID:       res.InvoiceID,
		IsDirectPayment: res.IsDirectPayment,
	}
	if member != nil {
		out.EventMemberID = member.ID
	}
	return out, nil
}

// payableAmount prefers the amount frozen in the latest provisional coupon
// usage; without one the price is resolved fresh.
func (s *EventPaymentService) payableAmount(ev *models.Event, user *models.User) (float64, error) {
	usage, err := s.usages.LatestProvisional(ev.ID, user.ID)
	if err != nil {
		return 0, err
	}
	if usage != nil {
		return usage.AmountAfter, nil
	}
	amount, _, err := s.resolveAmount(ev, user)
	return amount, err
}

// materializeRegistration ensures a pending registration row exists after
// the gateway accepted the payment. Failures here must not fail the
// request: the user is already on their way to checkout, and the callback
// path recreates a missing row.
func (s *EventPaymentService) materializeRegistration(ev *models.Event, user *models.User) *models.EventMember {
	rows, err := s.members.ListByEventAndUser(ev.ID, user.ID)
	if err != nil {
		log.Printf("[EVENT-PAY] registration lookup failed event=%d user=%d: %v", ev.ID, user.ID, err)
		return nil
	}
	if m := pickRegistration(rows); m != nil {
		return m
	}

	member := &models.EventMember{
		EventID:  ev.ID,
		UserID:   user.ID,
		Token:    newRegistrationToken(),
		IsMember: user.MembershipType == domain.MembershipPaid,
		JoinedAt: s.now(),
	}
	err = s.members.Create(member)
	if err == nil {
		return member
	}
	if errors.Is(err, domain.ErrDuplicateRegistration) {
		rows, qerr := s.members.ListByEventAndUser(ev.ID, user.ID)
		if qerr == nil {
			if m := pickRegistration(rows); m != nil {
				return m
			}
		}
	}
	log.Printf("[EVENT-PAY] registration insert failed event=%d user=%d: %v", ev.ID, user.ID, err)
	return nil
}

// pickRegistration prefers a settled row; otherwise the newest.
func pickRegistration(rows []models.EventMember) *models.EventMember {
	for i := range rows {
		if rows[i].Settled() {
			return &rows[i]
		}
	}
	if len(rows) > 0 {
		return &rows[0]
	}
	return nil
}

// ConfirmCallback verifies the charge with the gateway and settles the
// registration. Repeat callbacks for a settled registration short-circuit
// without touching the gateway.
func (s *EventPaymentService) ConfirmCallback(ctx context.Context, eventID, userID uint, paymentKey string) (*Confirmation, error) {
	ev, user, err := s.loadPaidEventAndUser(eventID, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.members.ListByEventAndUser(eventID, userID)
	if err != nil {
		return nil, err
	}
	member := pickRegistration(rows)
	if member != nil && member.Settled() {
		return &Confirmation{
			EventMemberID:  member.ID,
			AmountPaid:     member.PricePaid,
			EventTitle:     ev.Title,
			AlreadySettled: true,
		}, nil
	}

	status, err := s.verifyPayment(ctx, paymentKey)
	if err != nil {
		return nil, err
	}
	if !status.Paid() {
		log.Printf("[EVENT-PAY] callback status %q not paid event=%d user=%d key=%s",
			status.InvoiceStatus, eventID, userID, paymentKey)
		return nil, domain.ErrPaymentNotConfirmed
	}

	if member == nil {
		member = &models.EventMember{
			EventID:  eventID,
			UserID:   userID,
			Token:    newRegistrationToken(),
			IsMember: user.MembershipType == domain.MembershipPaid,
			JoinedAt: s.now(),
		}
		if err := s.members.Create(member); err != nil {
			if !errors.Is(err, domain.ErrDuplicateRegistration) {
				return nil, err
			}
			rows, err = s.members.ListByEventAndUser(eventID, userID)
			if err != nil {
				return nil, err
			}
			member = pickRegistration(rows)
			if member == nil {
				return nil, domain.ErrDuplicateRegistration
			}
		}
	}

	amount, err := s.settlementAmount(ev, user, status)
	if err != nil {
		return nil, err
	}
	if err := s.members.SetPricePaid(member.ID, amount); err != nil {
		return nil, err
	}
	if err := s.coupons.Finalize(eventID, userID, member.ID); err != nil {
		log.Printf("[EVENT-PAY] coupon finalize failed event=%d user=%d member=%d: %v",
			eventID, userID, member.ID, err)
	}
	log.Printf("[EVENT-PAY] settled event=%d user=%d member=%d amount=%.3f", eventID, userID, member.ID, amount)
	return &Confirmation{EventMemberID: member.ID, AmountPaid: amount, EventTitle: ev.Title}, nil
}

// verifyPayment tries the callback key against the gateway in the order
// the key shapes suggest: short numeric keys as an invoice id, then the
// raw key as an invoice id, then long keys as a payment id.
func (s *EventPaymentService) verifyPayment(ctx context.Context, key string) (*payment.Status, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.ErrPaymentNotConfirmed
	}

	var lastErr error
	if numeric := strings.TrimLeft(key, "0"); isDigits(numeric) && numeric != "" && len(numeric) <= 10 {
		st, err := s.gateway.GetPaymentStatus(ctx, numeric, payment.KeyInvoiceID)
		if err == nil {
			return st, nil
		}
		lastErr = err
	}
	if st, err := s.gateway.GetPaymentStatus(ctx, key, payment.KeyInvoiceID); err == nil {
		return st, nil
	} else {
		lastErr = err
	}
	if len(key) > 10 {
		if st, err := s.gateway.GetPaymentStatus(ctx, key, payment.KeyPaymentID); err == nil {
			return st, nil
		} else {
			lastErr = err
		}
	}
	return nil, &domain.GatewayError{Op: "status", Err: lastErr}
}

// settlementAmount decides what to record as paid: the provisional coupon
// amount, else the freshly resolved price, else whatever the gateway says
// it collected.
func (s *EventPaymentService) settlementAmount(ev *models.Event, user *models.User, status *payment.Status) (float64, error) {
	usage, err := s.usages.LatestProvisional(ev.ID, user.ID)
	if err != nil {
		return 0, err
	}
	if usage != nil {
		return usage.AmountAfter, nil
	}
	if amount, _, err := s.resolveAmount(ev, user); err == nil {
		return amount, nil
	}
	return status.InvoiceValue, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// newRegistrationToken mints the attendance token printed on the
// confirmation, e.g. EVT-MB3K2J1A-7F2C.
func newRegistrationToken() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return "EVT-" + ts + "-" + suffix
}

// SuccessRedirect builds the browser redirect after a confirmed payment.
func (s *EventPaymentService) SuccessRedirect(eventTitle string) string {
	return s.baseURL + "/events?success=payment_completed&event=" + url.QueryEscape(eventTitle)
}

// FailureRedirect builds the browser redirect for a failed callback.
func (s *EventPaymentService) FailureRedirect(reason string) string {
	return s.baseURL + "/events?error=" + url.QueryEscape(reason)
}
