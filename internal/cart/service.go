package cart

import (
	"errors"
	"time"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidIdentity = errors.New("missing cart identity")
)

// ServiceInterface is consumed by the order handler when snapshotting a cart
// into an order.
type ServiceInterface interface {
	Get(id Identity) (Cart, error)
	AddItem(id Identity, productID, storeID, quantity int, catalogID *int) (Cart, error)
	UpdateItem(id Identity, productID, quantity int) (Cart, error)
	RemoveItem(id Identity, productID int) (Cart, error)
	Clear(id Identity) (Cart, error)
	ClearStore(id Identity, storeID int) (Cart, error)
}

// Service owns cart lifecycle rules: lazy creation on first add, TTL expiry,
// and the quantity >= 1 invariant.
type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

func NewService(repo Repository, ttl time.Duration) *Service {
	return &Service{repo: repo, ttl: ttl, now: time.Now}
}

var _ ServiceInterface = (*Service)(nil)

// Get returns the identity's cart, or an empty unsaved cart when none
// exists. Expired carts are purged and treated as absent.
func (s *Service) Get(id Identity) (Cart, error) {
	if !id.Valid() {
		return Cart{}, ErrInvalidIdentity
	}
	c, err := s.repo.Get(id)
	if errors.Is(err, ErrNotFound) {
		return s.emptyCart(id), nil
	}
	if err != nil {
		return Cart{}, err
	}
	if s.expired(c) {
		if err := s.repo.Delete(c.ID); err != nil {
			return Cart{}, err
		}
		return s.emptyCart(id), nil
	}
	return c, nil
}

func (s *Service) AddItem(id Identity, productID, storeID, quantity int, catalogID *int) (Cart, error) {
	if !id.Valid() {
		return Cart{}, ErrInvalidIdentity
	}
	if quantity < 1 || productID <= 0 || storeID <= 0 {
		return Cart{}, ErrInvalidQuantity
	}

	c, err := s.liveCart(id)
	if errors.Is(err, ErrNotFound) {
		c, err = s.createCart(id)
	}
	if err != nil {
		return Cart{}, err
	}

	now := s.now().UTC()
	item := Item{
		ProductID: productID,
		StoreID:   storeID,
		Quantity:  quantity,
		CatalogID: catalogID,
		AddedAt:   now.Format(time.RFC3339),
	}
	if err := s.repo.UpsertItem(c.ID, item); err != nil {
		return Cart{}, err
	}
	return s.refresh(c.ID, now)
}

func (s *Service) UpdateItem(id Identity, productID, quantity int) (Cart, error) {
	if !id.Valid() {
		return Cart{}, ErrInvalidIdentity
	}
	if quantity < 1 {
		return Cart{}, ErrInvalidQuantity
	}
	c, err := s.liveCart(id)
	if err != nil {
		return Cart{}, err
	}
	if err := s.repo.UpdateItemQuantity(c.ID, productID, quantity); err != nil {
		return Cart{}, err
	}
	return s.refresh(c.ID, s.now().UTC())
}

func (s *Service) RemoveItem(id Identity, productID int) (Cart, error) {
	if !id.Valid() {
		return Cart{}, ErrInvalidIdentity
	}
	c, err := s.liveCart(id)
	if err != nil {
		return Cart{}, err
	}
	if err := s.repo.DeleteItem(c.ID, productID); err != nil {
		return Cart{}, err
	}
	return s.refresh(c.ID, s.now().UTC())
}

func (s *Service) Clear(id Identity) (Cart, error) {
	if !id.Valid() {
		return Cart{}, ErrInvalidIdentity
	}
	c, err := s.liveCart(id)
	if errors.Is(err, ErrNotFound) {
		return s.emptyCart(id), nil
	}
	if err != nil {
		return Cart{}, err
	}
	if err := s.repo.DeleteAllItems(c.ID); err != nil {
		return Cart{}, err
	}
	return s.refresh(c.ID, s.now().UTC())
}

// ClearStore removes every line belonging to one store, leaving the rest of
// the cart alone. Used after a per-store order is placed.
func (s *Service) ClearStore(id Identity, storeID int) (Cart, error) {
	if !id.Valid() {
		return Cart{}, ErrInvalidIdentity
	}
	c, err := s.liveCart(id)
	if errors.Is(err, ErrNotFound) {
		return s.emptyCart(id), nil
	}
	if err != nil {
		return Cart{}, err
	}
	for _, it := range c.Items {
		if it.StoreID != storeID {
			continue
		}
		if err := s.repo.DeleteItem(c.ID, it.ProductID); err != nil && !errors.Is(err, ErrItemNotFound) {
			return Cart{}, err
		}
	}
	return s.refresh(c.ID, s.now().UTC())
}

// liveCart returns the stored cart, purging it first when expired.
func (s *Service) liveCart(id Identity) (Cart, error) {
	c, err := s.repo.Get(id)
	if err != nil {
		return Cart{}, err
	}
	if s.expired(c) {
		if err := s.repo.Delete(c.ID); err != nil {
			return Cart{}, err
		}
		return Cart{}, ErrNotFound
	}
	return c, nil
}

func (s *Service) createCart(id Identity) (Cart, error) {
	now := s.now().UTC()
	c := Cart{
		GuestSession: id.GuestSession,
		ExpiresAt:    now.Add(s.ttl).Format(time.RFC3339),
		CreatedAt:    now.Format(time.RFC3339),
		UpdatedAt:    now.Format(time.RFC3339),
		Items:        []Item{},
	}
	if id.UserID > 0 {
		uid := id.UserID
		c.UserID = &uid
	}
	return s.repo.Create(c)
}

func (s *Service) refresh(cartID int, now time.Time) (Cart, error) {
	err := s.repo.Touch(cartID, now.Format(time.RFC3339), now.Add(s.ttl).Format(time.RFC3339))
	if err != nil {
		return Cart{}, err
	}
	return s.repo.GetByID(cartID)
}

func (s *Service) expired(c Cart) bool {
	if c.ExpiresAt == "" {
		return false
	}
	exp, err := time.Parse(time.RFC3339, c.ExpiresAt)
	if err != nil {
		return false
	}
	return s.now().UTC().After(exp)
}

func (s *Service) emptyCart(id Identity) Cart {
	c := Cart{GuestSession: id.GuestSession, Items: []Item{}}
	if id.UserID > 0 {
		uid := id.UserID
		c.UserID = &uid
	}
	return c
}
