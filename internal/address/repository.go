package address

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("address not found")

// Repository provides access to delivery addresses.
type Repository interface {
	ListByUser(userID int) ([]Address, error)
	Create(a Address) (Address, error)
	Update(id int, a Address) (Address, error)
	Delete(id, userID int) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu        sync.RWMutex
	nextID    int
	addresses []Address
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{nextID: 1}
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Address, 0)
	for _, a := range r.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(a Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID
	r.nextID++
	r.addresses = append(r.addresses, a)
	return a, nil
}

func (r *InMemoryRepository) Update(id int, a Address) (Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.addresses {
		if existing.ID == id && existing.UserID == a.UserID {
			a.ID = id
			r.addresses[i] = a
			return a, nil
		}
	}
	return Address{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.addresses {
		if a.ID == id && a.UserID == userID {
			r.addresses = append(r.addresses[:i:i], r.addresses[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
