package store

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("store not found")

// Repository provides access to store records.
type Repository interface {
	List() ([]Store, error)
	GetByID(id int) (Store, error)
	ListByIDs(ids []int) ([]Store, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	stores []Store
}

func NewInMemoryRepository(seed []Store) *InMemoryRepository {
	return &InMemoryRepository{stores: append([]Store(nil), seed...)}
}

func (r *InMemoryRepository) List() ([]Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Store(nil), r.stores...), nil
}

func (r *InMemoryRepository) GetByID(id int) (Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.stores {
		if s.ID == id {
			return s, nil
		}
	}
	return Store{}, ErrNotFound
}

func (r *InMemoryRepository) ListByIDs(ids []int) ([]Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Store, 0, len(ids))
	for _, id := range ids {
		for _, s := range r.stores {
			if s.ID == id {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}
