package cart

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresGet_ByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	cartRows := sqlmock.NewRows([]string{"cartId", "userId", "guestSession", "expiresAt", "createdAt", "updatedAt"}).
		AddRow(11, 7, nil, "2025-06-04T12:00:00Z", "2025-06-01T12:00:00Z", "2025-06-01T12:00:00Z")
	mock.ExpectQuery(`FROM carts WHERE "userId"`).WithArgs(7).WillReturnRows(cartRows)

	itemRows := sqlmock.NewRows([]string{"itemId", "productId", "storeId", "quantity", "catalogId", "addedAt"}).
		AddRow(1, 1, 3, 2, nil, "2025-06-01T12:00:00Z").
		AddRow(2, 5, 4, 1, 9, "2025-06-01T12:05:00Z")
	mock.ExpectQuery(`FROM cart_items`).WithArgs(11).WillReturnRows(itemRows)

	c, err := repo.Get(Identity{UserID: 7})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.ID != 11 || c.UserID == nil || *c.UserID != 7 {
		t.Fatalf("cart = %+v", c)
	}
	if len(c.Items) != 2 {
		t.Fatalf("items = %+v", c.Items)
	}
	if c.Items[1].CatalogID == nil || *c.Items[1].CatalogID != 9 {
		t.Fatalf("catalogId not scanned: %+v", c.Items[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGet_MissingCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`FROM carts WHERE "guestSession"`).WithArgs("g-123").
		WillReturnRows(sqlmock.NewRows([]string{"cartId", "userId", "guestSession", "expiresAt", "createdAt", "updatedAt"}))

	if _, err := repo.Get(Identity{GuestSession: "g-123"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpsertItem_InsertsWhenUpdateMissesNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// no existing line, update touches zero rows, insert follows
	mock.ExpectExec(`UPDATE cart_items SET quantity`).
		WithArgs(2, 11, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO cart_items`).
		WithArgs(11, 1, 3, 2, nil, "2025-06-01T12:00:00Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.UpsertItem(11, Item{ProductID: 1, StoreID: 3, Quantity: 2, AddedAt: "2025-06-01T12:00:00Z"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpsertItem_IncrementsExisting(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`UPDATE cart_items SET quantity`).
		WithArgs(1, 11, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpsertItem(11, Item{ProductID: 1, StoreID: 3, Quantity: 1, AddedAt: "2025-06-01T12:00:00Z"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateItemQuantity_MissingLine(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`UPDATE cart_items SET quantity`).
		WithArgs(5, 11, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateItemQuantity(11, 99, 5); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("got %v, want ErrItemNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
