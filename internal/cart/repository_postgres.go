package cart

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const cartColumns = `"cartId", "userId", "guestSession", "expiresAt", "createdAt", "updatedAt"`

func (r *PostgresRepository) Get(id Identity) (Cart, error) {
	var row *sql.Row
	if id.UserID > 0 {
		row = r.db.QueryRow(`SELECT `+cartColumns+` FROM carts WHERE "userId" = $1`, id.UserID)
	} else {
		row = r.db.QueryRow(`SELECT `+cartColumns+` FROM carts WHERE "guestSession" = $1`, id.GuestSession)
	}
	return r.scanCartWithItems(row)
}

func (r *PostgresRepository) GetByID(cartID int) (Cart, error) {
	row := r.db.QueryRow(`SELECT `+cartColumns+` FROM carts WHERE "cartId" = $1`, cartID)
	return r.scanCartWithItems(row)
}

func (r *PostgresRepository) scanCartWithItems(row *sql.Row) (Cart, error) {
	var c Cart
	var userID sql.NullInt64
	var guest sql.NullString
	err := row.Scan(&c.ID, &userID, &guest, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return Cart{}, ErrNotFound
	}
	if err != nil {
		return Cart{}, err
	}
	if userID.Valid {
		uid := int(userID.Int64)
		c.UserID = &uid
	}
	if guest.Valid {
		c.GuestSession = guest.String
	}

	// itemId order preserves insertion order, which the client relies on
	// when deriving per-store groupings.
	rows, err := r.db.Query(`SELECT "itemId", "productId", "storeId", quantity, "catalogId", "addedAt"
        FROM cart_items WHERE "cartId" = $1 ORDER BY "itemId"`, c.ID)
	if err != nil {
		return Cart{}, err
	}
	defer rows.Close()

	c.Items = make([]Item, 0)
	for rows.Next() {
		var it Item
		var catalogID sql.NullInt64
		if err := rows.Scan(&it.ID, &it.ProductID, &it.StoreID, &it.Quantity, &catalogID, &it.AddedAt); err != nil {
			return Cart{}, err
		}
		if catalogID.Valid {
			cid := int(catalogID.Int64)
			it.CatalogID = &cid
		}
		c.Items = append(c.Items, it)
	}
	return c, rows.Err()
}

func (r *PostgresRepository) Create(c Cart) (Cart, error) {
	var userID interface{}
	if c.UserID != nil {
		userID = *c.UserID
	}
	var guest interface{}
	if c.GuestSession != "" {
		guest = c.GuestSession
	}
	err := r.db.QueryRow(`INSERT INTO carts ("userId", "guestSession", "expiresAt", "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5) RETURNING "cartId"`,
		userID, guest, c.ExpiresAt, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return Cart{}, err
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return c, nil
}

func (r *PostgresRepository) UpsertItem(cartID int, item Item) error {
	res, err := r.db.Exec(`UPDATE cart_items SET quantity = quantity + $1
        WHERE "cartId" = $2 AND "productId" = $3`, item.Quantity, cartID, item.ProductID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	_, err = r.db.Exec(`INSERT INTO cart_items ("cartId", "productId", "storeId", quantity, "catalogId", "addedAt")
        VALUES ($1,$2,$3,$4,$5,$6)`,
		cartID, item.ProductID, item.StoreID, item.Quantity, item.CatalogID, item.AddedAt)
	return err
}

func (r *PostgresRepository) UpdateItemQuantity(cartID, productID, quantity int) error {
	res, err := r.db.Exec(`UPDATE cart_items SET quantity = $1
        WHERE "cartId" = $2 AND "productId" = $3`, quantity, cartID, productID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteItem(cartID, productID int) error {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE "cartId" = $1 AND "productId" = $2`, cartID, productID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteAllItems(cartID int) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE "cartId" = $1`, cartID)
	return err
}

func (r *PostgresRepository) Touch(cartID int, updatedAt, expiresAt string) error {
	_, err := r.db.Exec(`UPDATE carts SET "updatedAt" = $1, "expiresAt" = $2 WHERE "cartId" = $3`, updatedAt, expiresAt, cartID)
	return err
}

func (r *PostgresRepository) Delete(cartID int) error {
	if _, err := r.db.Exec(`DELETE FROM cart_items WHERE "cartId" = $1`, cartID); err != nil {
		return err
	}
	_, err := r.db.Exec(`DELETE FROM carts WHERE "cartId" = $1`, cartID)
	return err
}
