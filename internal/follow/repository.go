package follow

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("follow not found")

// Repository provides access to follow relationships.
type Repository interface {
	Add(f Follow) error
	Remove(userID, storeID int) error
	ListStoreIDs(userID int) ([]int, error)
	CountFollowers(storeID int) (int, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu      sync.RWMutex
	follows []Follow
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Add(f Follow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.follows {
		if existing.UserID == f.UserID && existing.StoreID == f.StoreID {
			return nil // already following, idempotent
		}
	}
	r.follows = append(r.follows, f)
	return nil
}

func (r *InMemoryRepository) Remove(userID, storeID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.follows {
		if f.UserID == userID && f.StoreID == storeID {
			r.follows = append(r.follows[:i:i], r.follows[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) ListStoreIDs(userID int) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]int, 0)
	for _, f := range r.follows {
		if f.UserID == userID {
			out = append(out, f.StoreID)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) CountFollowers(storeID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, f := range r.follows {
		if f.StoreID == storeID {
			n++
		}
	}
	return n, nil
}
