package store

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const storeColumns = `"storeId", "storeName", description, "imageUrl", "ownerUserId", "createdAt", "updatedAt"`

func scanStores(rows *sql.Rows) ([]Store, error) {
	defer rows.Close()
	out := make([]Store, 0)
	for rows.Next() {
		var s Store
		var owner sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.ImageURL, &owner, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if owner.Valid {
			id := int(owner.Int64)
			s.OwnerUserID = &id
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) List() ([]Store, error) {
	rows, err := r.db.Query(`SELECT ` + storeColumns + ` FROM stores ORDER BY "storeId"`)
	if err != nil {
		return nil, err
	}
	return scanStores(rows)
}

func (r *PostgresRepository) GetByID(id int) (Store, error) {
	var s Store
	var owner sql.NullInt64
	err := r.db.QueryRow(`SELECT `+storeColumns+` FROM stores WHERE "storeId" = $1`, id).
		Scan(&s.ID, &s.Name, &s.Description, &s.ImageURL, &owner, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return Store{}, ErrNotFound
	}
	if err != nil {
		return Store{}, err
	}
	if owner.Valid {
		oid := int(owner.Int64)
		s.OwnerUserID = &oid
	}
	return s, nil
}

// ListByIDs returns stores in the same order as the ids argument.
func (r *PostgresRepository) ListByIDs(ids []int) ([]Store, error) {
	if len(ids) == 0 {
		return []Store{}, nil
	}
	rows, err := r.db.Query(`SELECT `+storeColumns+` FROM stores
        WHERE "storeId" = ANY($1::int[])
        ORDER BY array_position($1::int[], "storeId")`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return scanStores(rows)
}
