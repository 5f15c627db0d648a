package follow

import (
	"time"

	"github.com/thanakrit55/streetmarket-backend/internal/store"
)

// Service resolves follow relationships into store records for display.
type Service struct {
	repo   Repository
	stores store.ServiceInterface
}

func NewService(repo Repository, stores store.ServiceInterface) *Service {
	return &Service{repo: repo, stores: stores}
}

func (s *Service) Follow(userID, storeID int) error {
	if userID <= 0 || storeID <= 0 {
		return ErrNotFound
	}
	// only existing stores can be followed
	if _, err := s.stores.GetByID(storeID); err != nil {
		return err
	}
	return s.repo.Add(Follow{
		UserID:    userID,
		StoreID:   storeID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Service) Unfollow(userID, storeID int) error {
	if userID <= 0 || storeID <= 0 {
		return ErrNotFound
	}
	return s.repo.Remove(userID, storeID)
}

func (s *Service) FollowedStores(userID int) ([]store.Store, error) {
	ids, err := s.repo.ListStoreIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []store.Store{}, nil
	}
	names, err := s.stores.NamesByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]store.Store, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out = append(out, store.Store{ID: id, Name: name})
		}
	}
	return out, nil
}

func (s *Service) FollowerCount(storeID int) (int, error) {
	return s.repo.CountFollowers(storeID)
}
