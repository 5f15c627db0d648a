package cart

import (
	"errors"
	"testing"
	"time"
)

func newTestService() (*Service, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewService(NewInMemoryRepository(), 72*time.Hour)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestGet_AbsentCartIsEmpty(t *testing.T) {
	s, _ := newTestService()
	id := Identity{UserID: 7}

	c, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(c.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(c.Items))
	}
	if c.ID != 0 {
		t.Fatalf("absent cart should not be persisted, got id %d", c.ID)
	}
}

func TestAddItem_CreatesCartLazily(t *testing.T) {
	s, _ := newTestService()
	id := Identity{UserID: 7}

	c, err := s.AddItem(id, 1, 3, 2, nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("cart should be persisted after first add")
	}
	if len(c.Items) != 1 || c.Items[0].Quantity != 2 {
		t.Fatalf("items = %+v", c.Items)
	}
	if c.ExpiresAt == "" {
		t.Fatal("expiry not set")
	}
}

func TestAddItem_IncrementsExistingLine(t *testing.T) {
	s, _ := newTestService()
	id := Identity{GuestSession: "g-123"}

	if _, err := s.AddItem(id, 1, 3, 2, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	c, err := s.AddItem(id, 1, 3, 1, nil)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].Quantity != 3 {
		t.Fatalf("items = %+v, want single line qty 3", c.Items)
	}
}

func TestAddItem_RejectsBadQuantity(t *testing.T) {
	s, _ := newTestService()
	id := Identity{UserID: 7}
	if _, err := s.AddItem(id, 1, 3, 0, nil); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("qty 0: got %v, want ErrInvalidQuantity", err)
	}
	if _, err := s.AddItem(id, 1, 3, -2, nil); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("qty -2: got %v, want ErrInvalidQuantity", err)
	}
}

func TestUpdateItem(t *testing.T) {
	s, _ := newTestService()
	id := Identity{UserID: 7}
	s.AddItem(id, 1, 3, 2, nil)

	c, err := s.UpdateItem(id, 1, 5)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if c.Items[0].Quantity != 5 {
		t.Fatalf("quantity = %d, want 5", c.Items[0].Quantity)
	}

	if _, err := s.UpdateItem(id, 1, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("qty 0: got %v, want ErrInvalidQuantity", err)
	}
	if _, err := s.UpdateItem(id, 99, 2); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("missing line: got %v, want ErrItemNotFound", err)
	}
}

func TestRemoveItem(t *testing.T) {
	s, _ := newTestService()
	id := Identity{UserID: 7}
	s.AddItem(id, 1, 3, 2, nil)
	s.AddItem(id, 2, 3, 1, nil)

	c, err := s.RemoveItem(id, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].ProductID != 2 {
		t.Fatalf("items = %+v", c.Items)
	}

	if _, err := s.RemoveItem(id, 1); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("double remove: got %v, want ErrItemNotFound", err)
	}
}

func TestClearStore_LeavesOtherStores(t *testing.T) {
	s, _ := newTestService()
	id := Identity{UserID: 7}
	s.AddItem(id, 1, 3, 2, nil)
	s.AddItem(id, 2, 3, 1, nil)
	s.AddItem(id, 5, 4, 1, nil)

	c, err := s.ClearStore(id, 3)
	if err != nil {
		t.Fatalf("clear store: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].StoreID != 4 {
		t.Fatalf("items = %+v, want only store 4 line", c.Items)
	}
}

func TestClear(t *testing.T) {
	s, _ := newTestService()
	id := Identity{UserID: 7}
	s.AddItem(id, 1, 3, 2, nil)

	c, err := s.Clear(id)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(c.Items) != 0 {
		t.Fatalf("items = %+v, want empty", c.Items)
	}
}

func TestExpiredCartTreatedAsAbsent(t *testing.T) {
	s, now := newTestService()
	id := Identity{GuestSession: "g-123"}
	s.AddItem(id, 1, 3, 2, nil)

	*now = now.Add(73 * time.Hour)

	c, err := s.Get(id)
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if len(c.Items) != 0 || c.ID != 0 {
		t.Fatalf("expired cart should read as empty, got %+v", c)
	}

	// adding again starts a fresh cart
	c, err = s.AddItem(id, 2, 3, 1, nil)
	if err != nil {
		t.Fatalf("add after expiry: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].ProductID != 2 {
		t.Fatalf("fresh cart items = %+v", c.Items)
	}
}

func TestMutationExtendsExpiry(t *testing.T) {
	s, now := newTestService()
	id := Identity{UserID: 7}
	first, _ := s.AddItem(id, 1, 3, 2, nil)

	*now = now.Add(48 * time.Hour)
	second, err := s.UpdateItem(id, 1, 3)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if second.ExpiresAt <= first.ExpiresAt {
		t.Fatalf("expiry not extended: %s -> %s", first.ExpiresAt, second.ExpiresAt)
	}
}

func TestInvalidIdentityRejected(t *testing.T) {
	s, _ := newTestService()
	if _, err := s.Get(Identity{}); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("empty identity: got %v, want ErrInvalidIdentity", err)
	}
}

func TestGuestAndUserCartsAreSeparate(t *testing.T) {
	s, _ := newTestService()
	s.AddItem(Identity{UserID: 7}, 1, 3, 2, nil)
	s.AddItem(Identity{GuestSession: "g-123"}, 2, 3, 1, nil)

	userCart, _ := s.Get(Identity{UserID: 7})
	guestCart, _ := s.Get(Identity{GuestSession: "g-123"})
	if len(userCart.Items) != 1 || userCart.Items[0].ProductID != 1 {
		t.Fatalf("user cart = %+v", userCart.Items)
	}
	if len(guestCart.Items) != 1 || guestCart.Items[0].ProductID != 2 {
		t.Fatalf("guest cart = %+v", guestCart.Items)
	}
}
