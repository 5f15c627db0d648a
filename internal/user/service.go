package user

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// ServiceInterface lets other packages depend on user behaviour without the
// concrete service, mirroring how handlers are tested with fakes.
type ServiceInterface interface {
	GetByID(id int) (User, error)
	Register(u User) (User, error)
	Authenticate(email, password string) (User, error)
	UpdateProfile(id int, u User) (User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

func (s *Service) GetByID(id int) (User, error) {
	if id <= 0 {
		return User{}, ErrNotFound
	}
	return s.repo.GetByID(id)
}

// Register hashes the password and stores the new account. Accounts default
// to the customer role; store and driver accounts are provisioned with an
// explicit role in the payload.
func (s *Service) Register(u User) (User, error) {
	if u.Email == "" || u.Password == "" {
		return User{}, errors.New("email and password are required")
	}
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u.Password = string(hashed)
	now := time.Now().UTC().Format(time.RFC3339)
	u.CreatedAt = now
	u.UpdatedAt = now

	created, err := s.repo.Create(u)
	if err != nil {
		return User{}, err
	}
	created.Password = ""
	return created, nil
}

func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	u.Password = ""
	return u, nil
}

// UpdateProfile applies a partial update. Empty fields in the payload keep
// their current value; role and store binding never change here.
func (s *Service) UpdateProfile(id int, patch User) (User, error) {
	current, err := s.repo.GetByID(id)
	if err != nil {
		return User{}, err
	}
	if patch.FirstName != "" {
		current.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		current.LastName = patch.LastName
	}
	if patch.Phone != "" {
		current.Phone = patch.Phone
	}
	if patch.Email != "" {
		current.Email = patch.Email
	}
	current.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	updated, err := s.repo.Update(id, current)
	if err != nil {
		return User{}, err
	}
	updated.Password = ""
	return updated, nil
}
