package address

import (
	"errors"
	"time"
)

var ErrInvalidAddress = errors.New("address detail is required")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByUser(userID int) ([]Address, error) {
	if userID <= 0 {
		return []Address{}, nil
	}
	return s.repo.ListByUser(userID)
}

func (s *Service) Create(a Address) (Address, error) {
	if a.Detail == "" {
		return Address{}, ErrInvalidAddress
	}
	now := time.Now().UTC().Format(time.RFC3339)
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.repo.Create(a)
}

func (s *Service) Update(id int, a Address) (Address, error) {
	if a.Detail == "" {
		return Address{}, ErrInvalidAddress
	}
	a.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Update(id, a)
}

func (s *Service) Delete(id, userID int) error {
	return s.repo.Delete(id, userID)
}
