package checkout

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lamasat/storefront/internal/cart"
	"github.com/lamasat/storefront/internal/domain"
)

// Notifier delivers a composed order to the outbound notification channel.
type Notifier interface {
	Send(ctx context.Context, order domain.Order) error
}

// phonePattern matches Syrian mobile numbers: an optional +963, 00963 or 0
// prefix followed by a 9-digit subscriber number starting with 9.
var phonePattern = regexp.MustCompile(`^((\+963|00963|0)?9[0-9]{8})$`)

// Service runs the checkout workflow: validate the customer form, price the
// order from the cart, submit one outbound notification, and clear the cart on
// success. A failed submission preserves cart and form state for retry.
type Service struct {
	carts    cart.Store
	notifier Notifier

	mu       sync.Mutex
	inFlight map[string]struct{} // sessions with a submission in progress
}

func NewService(carts cart.Store, notifier Notifier) *Service {
	return &Service{
		carts:    carts,
		notifier: notifier,
		inFlight: make(map[string]struct{}),
	}
}

// Validate applies the checkout field rules and returns a field→message map,
// empty when every rule passes. Messages are the storefront's Arabic copy.
func Validate(info domain.CustomerInfo) FieldErrors {
	errs := make(FieldErrors)

	if strings.TrimSpace(info.Name) == "" {
		errs["name"] = "الاسم مطلوب"
	}

	phone := strings.ReplaceAll(info.Phone, " ", "")
	if strings.TrimSpace(info.Phone) == "" {
		errs["phone"] = "رقم الهاتف مطلوب"
	} else if !phonePattern.MatchString(phone) {
		errs["phone"] = "رقم الهاتف غير صحيح"
	}

	if info.City == "" {
		errs["city"] = "المدينة مطلوبة"
	} else if !knownCity(info.City) {
		errs["city"] = "المدينة غير معروفة"
	}

	if strings.TrimSpace(info.DetailedAddress) == "" {
		errs["detailed_address"] = "العنوان التفصيلي مطلوب"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Submit runs one checkout attempt for a session. At most one submission may
// be in flight per session; re-entrant attempts return ErrSubmissionInFlight
// without touching the network.
func (s *Service) Submit(ctx context.Context, sessionID string, info domain.CustomerInfo, currency string) (domain.Order, error) {
	if !s.begin(sessionID) {
		return domain.Order{}, ErrSubmissionInFlight
	}
	defer s.end(sessionID)

	if errs := Validate(info); errs != nil {
		return domain.Order{}, errs
	}

	snapshot := s.carts.Get(sessionID)
	if snapshot.Empty() {
		return domain.Order{}, ErrEmptyCart
	}

	order := composeOrder(snapshot, info, currency)

	if err := s.notifier.Send(ctx, order); err != nil {
		// Cart and form state stay intact so the user can retry
		return domain.Order{}, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	if err := s.carts.Clear(sessionID); err != nil {
		return domain.Order{}, fmt.Errorf("clear cart after submission: %w", err)
	}

	return order, nil
}

// Submitting reports whether a submission is currently in flight for a session.
func (s *Service) Submitting(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[sessionID]
	return busy
}

func (s *Service) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *Service) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}

// composeOrder snapshots the cart into an ephemeral order record. All sums are
// in the canonical currency; display conversion happens at serialization.
func composeOrder(snapshot domain.Cart, info domain.CustomerInfo, currency string) domain.Order {
	items := make([]domain.OrderItem, len(snapshot.Items))
	for i, line := range snapshot.Items {
		items[i] = domain.OrderItem{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
		}
	}

	subtotal := snapshot.Subtotal()
	shipping := shippingFee(info.City)
	now := time.Now()

	return domain.Order{
		ID:           strconv.FormatInt(now.UnixMilli(), 10),
		Items:        items,
		Customer:     info,
		Subtotal:     subtotal,
		ShippingCost: shipping,
		Total:        subtotal + shipping,
		Currency:     currency,
		Status:       domain.OrderStatusPending,
		CreatedAt:    now,
	}
}
