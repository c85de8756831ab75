package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"dealspot/internal/domain"
	"dealspot/internal/repository"
)

var (
	ErrLineNotFound       = errors.New("cart line not found")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// CustomerInfo is the checkout form payload
type CustomerInfo struct {
	Name  string
	City  string
	Phone string
}

// CartView is the cart resolved against the catalog for display:
// current prices, availability and the running total
type CartView struct {
	SessionID string             `json:"session_id"`
	Lines     []domain.OrderLine `json:"lines"`
	Total     float64            `json:"total"`
}

// CheckoutResult is returned on successful checkout: the ephemeral
// order payload plus the outbound redirect the client should follow
type CheckoutResult struct {
	Order       *domain.OrderRequest `json:"order"`
	RedirectURL string               `json:"redirect_url"`
}

// OrderNotifier composes the outbound redirect for a finalized order
type OrderNotifier interface {
	OrderRedirectURL(order *domain.OrderRequest) string
}

// CartService defines the cart and checkout operations
type CartService interface {
	View(ctx context.Context, sessionID string) (*CartView, error)
	Add(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error)
	Remove(ctx context.Context, sessionID, itemID string) (*domain.Cart, error)
	SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error)
	Total(ctx context.Context, sessionID string) (float64, error)
	Checkout(ctx context.Context, sessionID string, info CustomerInfo) (*CheckoutResult, error)
}

type cartService struct {
	cartRepo     repository.CartRepository
	catalogRepo  repository.CatalogRepository
	settingsRepo repository.SettingsRepository
	notifier     OrderNotifier
	cities       []string
	submitDelay  time.Duration

	mu         sync.Mutex
	submitting map[string]struct{}
	sessions   map[string]*sync.Mutex
}

// NewCartService creates a new instance of CartService. submitDelay is
// the minimum visible duration of the submitting state; cities, when
// non-empty, restricts the deliverable cities accepted at checkout.
func NewCartService(
	cartRepo repository.CartRepository,
	catalogRepo repository.CatalogRepository,
	settingsRepo repository.SettingsRepository,
	notifier OrderNotifier,
	cities []string,
	submitDelay time.Duration,
) CartService {
	return &cartService{
		cartRepo:     cartRepo,
		catalogRepo:  catalogRepo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
		cities:       cities,
		submitDelay:  submitDelay,
		submitting:   make(map[string]struct{}),
		sessions:     make(map[string]*sync.Mutex),
	}
}

// lockSession serializes the read-modify-write cycle for one session's
// cart. Without it two concurrent adds both load the same snapshot and
// the second save overwrites the first.
func (s *cartService) lockSession(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.sessions[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.sessions[sessionID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// View resolves the cart against the catalog. Lines whose item was
// deleted render as unavailable and contribute 0 to the total.
func (s *cartService) View(ctx context.Context, sessionID string) (*CartView, error) {
	cart, err := s.cartRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	lines, total := s.resolve(ctx, cart)
	return &CartView{SessionID: sessionID, Lines: lines, Total: total}, nil
}

// Add puts quantity of the item into the cart. Adding an item already
// present merges into the existing line instead of appending a second
// one. Unknown item ids fail and leave the cart unchanged.
func (s *cartService) Add(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error) {
	if _, err := s.catalogRepo.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	if quantity < 1 {
		quantity = 1
	}

	defer s.lockSession(sessionID)()

	cart, err := s.cartRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if line := cart.Line(itemID); line != nil {
		line.Quantity += quantity
	} else {
		cart.Lines = append(cart.Lines, domain.CartLine{ItemID: itemID, Quantity: quantity})
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// Remove deletes the line referencing itemID; removing an absent line
// is a no-op
func (s *cartService) Remove(ctx context.Context, sessionID, itemID string) (*domain.Cart, error) {
	defer s.lockSession(sessionID)()

	cart, err := s.cartRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Lines {
		if cart.Lines[i].ItemID == itemID {
			cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			if err := s.cartRepo.Save(ctx, cart); err != nil {
				return nil, err
			}
			break
		}
	}

	return cart, nil
}

// SetQuantity sets the line's quantity, clamped to a minimum of 1.
// Decreasing to zero never removes the line; removal is explicit.
func (s *cartService) SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	defer s.lockSession(sessionID)()

	cart, err := s.cartRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line := cart.Line(itemID)
	if line == nil {
		return nil, ErrLineNotFound
	}

	line.Quantity = quantity
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// Total returns the cart total, treating missing items or prices as 0
func (s *cartService) Total(ctx context.Context, sessionID string) (float64, error) {
	cart, err := s.cartRepo.Find(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	_, total := s.resolve(ctx, cart)
	return total, nil
}

// Checkout validates the customer info, produces the order request,
// hands it to the notifier and clears the cart. A second submit for the
// same session while one is in flight is rejected.
func (s *cartService) Checkout(ctx context.Context, sessionID string, info CustomerInfo) (*CheckoutResult, error) {
	if err := s.enterSubmitting(sessionID); err != nil {
		return nil, err
	}
	defer s.leaveSubmitting(sessionID)

	defer s.lockSession(sessionID)()

	cart, err := s.cartRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.validateCheckout(cart, info); err != nil {
		return nil, err
	}

	lines, total := s.resolve(ctx, cart)
	order := &domain.OrderRequest{
		CustomerName: strings.TrimSpace(info.Name),
		City:         strings.TrimSpace(info.City),
		Phone:        strings.TrimSpace(info.Phone),
		Lines:        lines,
		Total:        total,
		SubmittedAt:  time.Now(),
	}

	// Minimum visible submitting duration; purely perceived
	// responsiveness, configured to 0 in tests
	if s.submitDelay > 0 {
		select {
		case <-time.After(s.submitDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	redirectURL := s.notifier.OrderRedirectURL(order)

	if err := s.cartRepo.Clear(ctx, sessionID); err != nil {
		return nil, err
	}

	if _, err := s.settingsRepo.Update(ctx, func(settings *domain.SiteSettings) {
		settings.EarningsTotal += total
	}); err != nil {
		return nil, fmt.Errorf("failed to record earnings: %w", err)
	}

	return &CheckoutResult{Order: order, RedirectURL: redirectURL}, nil
}

func (s *cartService) enterSubmitting(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.submitting[sessionID]; busy {
		return ErrCheckoutInProgress
	}
	s.submitting[sessionID] = struct{}{}
	return nil
}

func (s *cartService) leaveSubmitting(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.submitting, sessionID)
}

// validateCheckout enforces the checkout form rules, reporting every
// missing field at once
func (s *cartService) validateCheckout(cart *domain.Cart, info CustomerInfo) error {
	var ve ValidationError

	if strings.TrimSpace(info.Name) == "" {
		ve.add("name", "name is required")
	}

	city := strings.TrimSpace(info.City)
	switch {
	case city == "":
		ve.add("city", "city is required")
	case len(s.cities) > 0 && !s.citySupported(city):
		ve.add("city", "city is not supported")
	}

	if strings.TrimSpace(info.Phone) == "" {
		ve.add("phone", "phone is required")
	}

	if cart.IsEmpty() {
		ve.add("cart", "cart is empty")
	}

	return ve.orNil()
}

func (s *cartService) citySupported(city string) bool {
	for _, c := range s.cities {
		if strings.EqualFold(c, city) {
			return true
		}
	}
	return false
}

// resolve joins cart lines against the catalog, returning display lines
// and the total. Dangling references are kept as unavailable lines with
// price 0 rather than failing the whole cart.
func (s *cartService) resolve(ctx context.Context, cart *domain.Cart) ([]domain.OrderLine, float64) {
	lines := make([]domain.OrderLine, 0, len(cart.Lines))
	total := 0.0

	for _, cl := range cart.Lines {
		line := domain.OrderLine{ItemID: cl.ItemID, Quantity: cl.Quantity}

		item, err := s.catalogRepo.FindByID(ctx, cl.ItemID)
		if err != nil {
			line.Unavailable = true
		} else {
			line.Title = item.Title
			line.UnitPrice = item.Price()
			line.Subtotal = line.UnitPrice * float64(cl.Quantity)
		}

		total += line.Subtotal
		lines = append(lines, line)
	}

	return lines, total
}
