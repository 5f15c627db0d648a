package catalog

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("catalog not found")

// Repository provides access to catalog records.
type Repository interface {
	ListByStore(storeID int) ([]Catalog, error)
	GetByID(id int) (Catalog, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu       sync.RWMutex
	catalogs []Catalog
}

func NewInMemoryRepository(seed []Catalog) *InMemoryRepository {
	return &InMemoryRepository{catalogs: append([]Catalog(nil), seed...)}
}

func (r *InMemoryRepository) ListByStore(storeID int) ([]Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Catalog, 0)
	for _, ct := range r.catalogs {
		if ct.StoreID == storeID {
			out = append(out, ct)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Catalog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ct := range r.catalogs {
		if ct.ID == id {
			return ct, nil
		}
	}
	return Catalog{}, ErrNotFound
}
