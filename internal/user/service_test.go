package user

import (
	"errors"
	"testing"
)

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	s := NewService(NewInMemoryRepository(nil))

	u, err := s.Register(User{Email: "a@example.com", Password: "secret123", FirstName: "Anan"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Password != "" {
		t.Fatal("password should not be echoed back")
	}
	if u.Role != RoleCustomer {
		t.Fatalf("role = %s, want customer", u.Role)
	}

	stored, err := s.repo.GetByEmail("a@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.Password == "secret123" || stored.Password == "" {
		t.Fatal("stored password must be a hash")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := NewService(NewInMemoryRepository(nil))
	if _, err := s.Register(User{Email: "a@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := s.Register(User{Email: "a@example.com", Password: "other456"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("got %v, want ErrDuplicateEmail", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s := NewService(NewInMemoryRepository(nil))
	if _, err := s.Register(User{Email: "a@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	u, err := s.Authenticate("a@example.com", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.Email != "a@example.com" {
		t.Fatalf("email = %s", u.Email)
	}

	if _, err := s.Authenticate("a@example.com", "wrong"); err == nil {
		t.Fatal("wrong password should fail")
	}
	if _, err := s.Authenticate("nobody@example.com", "secret123"); err == nil {
		t.Fatal("unknown email should fail")
	}
}

func TestUpdateProfile_PartialPatch(t *testing.T) {
	s := NewService(NewInMemoryRepository(nil))
	u, err := s.Register(User{Email: "a@example.com", Password: "secret123", FirstName: "Anan", Phone: "081"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := s.UpdateProfile(u.ID, User{Phone: "089"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != "089" {
		t.Fatalf("phone = %s", updated.Phone)
	}
	if updated.FirstName != "Anan" {
		t.Fatalf("firstName overwritten: %s", updated.FirstName)
	}
}
