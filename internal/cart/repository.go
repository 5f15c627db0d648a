package cart

import (
	"errors"
	"sync"
)

var (
	ErrNotFound     = errors.New("cart not found")
	ErrItemNotFound = errors.New("cart item not found")
)

// Repository provides persistence for carts. Expiry is enforced by the
// service; repositories only store and return what they are given.
type Repository interface {
	// Get returns the cart owned by the identity, items in insertion order.
	Get(id Identity) (Cart, error)
	Create(c Cart) (Cart, error)
	UpsertItem(cartID int, item Item) error
	UpdateItemQuantity(cartID, productID, quantity int) error
	DeleteItem(cartID, productID int) error
	DeleteAllItems(cartID int) error
	// Touch refreshes the updated/expiry stamps after a mutation.
	Touch(cartID int, updatedAt, expiresAt string) error
	Delete(cartID int) error
	GetByID(cartID int) (Cart, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu         sync.RWMutex
	nextCartID int
	nextItemID int
	carts      []Cart
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextCartID: 1, nextItemID: 1}
}

func (r *InMemoryRepository) owns(c Cart, id Identity) bool {
	if id.UserID > 0 {
		return c.UserID != nil && *c.UserID == id.UserID
	}
	return id.GuestSession != "" && c.GuestSession == id.GuestSession
}

func (r *InMemoryRepository) Get(id Identity) (Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.carts {
		if r.owns(c, id) {
			return copyCart(c), nil
		}
	}
	return Cart{}, ErrNotFound
}

func (r *InMemoryRepository) GetByID(cartID int) (Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.carts {
		if c.ID == cartID {
			return copyCart(c), nil
		}
	}
	return Cart{}, ErrNotFound
}

func (r *InMemoryRepository) Create(c Cart) (Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextCartID
	r.nextCartID++
	if c.Items == nil {
		c.Items = []Item{}
	}
	r.carts = append(r.carts, c)
	return copyCart(c), nil
}

func (r *InMemoryRepository) UpsertItem(cartID int, item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.carts {
		if r.carts[i].ID != cartID {
			continue
		}
		for j := range r.carts[i].Items {
			if r.carts[i].Items[j].ProductID == item.ProductID {
				r.carts[i].Items[j].Quantity += item.Quantity
				return nil
			}
		}
		item.ID = r.nextItemID
		r.nextItemID++
		r.carts[i].Items = append(r.carts[i].Items, item)
		return nil
	}
	return ErrNotFound
}

func (r *InMemoryRepository) UpdateItemQuantity(cartID, productID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.carts {
		if r.carts[i].ID != cartID {
			continue
		}
		for j := range r.carts[i].Items {
			if r.carts[i].Items[j].ProductID == productID {
				r.carts[i].Items[j].Quantity = quantity
				return nil
			}
		}
		return ErrItemNotFound
	}
	return ErrNotFound
}

func (r *InMemoryRepository) DeleteItem(cartID, productID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.carts {
		if r.carts[i].ID != cartID {
			continue
		}
		items := r.carts[i].Items
		for j := range items {
			if items[j].ProductID == productID {
				r.carts[i].Items = append(items[:j:j], items[j+1:]...)
				return nil
			}
		}
		return ErrItemNotFound
	}
	return ErrNotFound
}

func (r *InMemoryRepository) DeleteAllItems(cartID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.carts {
		if r.carts[i].ID == cartID {
			r.carts[i].Items = []Item{}
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Touch(cartID int, updatedAt, expiresAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.carts {
		if r.carts[i].ID == cartID {
			r.carts[i].UpdatedAt = updatedAt
			r.carts[i].ExpiresAt = expiresAt
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) Delete(cartID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.carts {
		if r.carts[i].ID == cartID {
			r.carts = append(r.carts[:i:i], r.carts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func copyCart(c Cart) Cart {
	out := c
	out.Items = append([]Item(nil), c.Items...)
	return out
}
