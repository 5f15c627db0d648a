package address

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const addressColumns = `"addressId", "userId", label, detail, phone, "createdAt", "updatedAt"`

func (r *PostgresRepository) ListByUser(userID int) ([]Address, error) {
	rows, err := r.db.Query(`SELECT `+addressColumns+` FROM addresses WHERE "userId" = $1 ORDER BY "addressId"`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Label, &a.Detail, &a.Phone, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(a Address) (Address, error) {
	err := r.db.QueryRow(`INSERT INTO addresses ("userId", label, detail, phone, "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5,$6) RETURNING "addressId"`,
		a.UserID, a.Label, a.Detail, a.Phone, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err != nil {
		return Address{}, err
	}
	return a, nil
}

func (r *PostgresRepository) Update(id int, a Address) (Address, error) {
	row := r.db.QueryRow(`UPDATE addresses SET label = $1, detail = $2, phone = $3, "updatedAt" = $4
        WHERE "addressId" = $5 AND "userId" = $6
        RETURNING `+addressColumns,
		a.Label, a.Detail, a.Phone, a.UpdatedAt, id, a.UserID)
	var out Address
	err := row.Scan(&out.ID, &out.UserID, &out.Label, &out.Detail, &out.Phone, &out.CreatedAt, &out.UpdatedAt)
	if err == sql.ErrNoRows {
		return Address{}, ErrNotFound
	}
	return out, err
}

func (r *PostgresRepository) Delete(id, userID int) error {
	res, err := r.db.Exec(`DELETE FROM addresses WHERE "addressId" = $1 AND "userId" = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
