package catalog

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByStore(storeID int) ([]Catalog, error) {
	rows, err := r.db.Query(`SELECT "catalogId", "storeId", "catalogName", ord
        FROM catalogs WHERE "storeId" = $1 ORDER BY ord DESC, "catalogId"`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Catalog, 0)
	for rows.Next() {
		var ct Catalog
		if err := rows.Scan(&ct.ID, &ct.StoreID, &ct.Name, &ct.Ord); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Catalog, error) {
	var ct Catalog
	err := r.db.QueryRow(`SELECT "catalogId", "storeId", "catalogName", ord FROM catalogs WHERE "catalogId" = $1`, id).
		Scan(&ct.ID, &ct.StoreID, &ct.Name, &ct.Ord)
	if err == sql.ErrNoRows {
		return Catalog{}, ErrNotFound
	}
	return ct, err
}
