package product

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

const productColumns = `"productID", "storeID", "productName", "productPrice", "productDesc", "productImg", "catalogId", "createdAt", "updatedAt"`

func scanProducts(rows *sql.Rows) ([]Product, error) {
	defer rows.Close()
	out := make([]Product, 0)
	for rows.Next() {
		var p Product
		var catalogID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Name, &p.Price, &p.Description, &p.ImageURL, &catalogID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if catalogID.Valid {
			cid := int(catalogID.Int64)
			p.CatalogID = &cid
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) List() ([]Product, error) {
	rows, err := r.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY "productID"`)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	var p Product
	var catalogID sql.NullInt64
	err := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE "productID" = $1`, id).
		Scan(&p.ID, &p.StoreID, &p.Name, &p.Price, &p.Description, &p.ImageURL, &catalogID, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	if catalogID.Valid {
		cid := int(catalogID.Int64)
		p.CatalogID = &cid
	}
	return p, nil
}

func (r *PostgresRepository) ListByStore(storeID int) ([]Product, error) {
	rows, err := r.db.Query(`SELECT `+productColumns+` FROM products WHERE "storeID" = $1 ORDER BY "productID"`, storeID)
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}

// ListByIDs returns products in the same order as the ids argument.
func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	rows, err := r.db.Query(`SELECT `+productColumns+` FROM products
        WHERE "productID" = ANY($1::int[])
        ORDER BY array_position($1::int[], "productID")`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return scanProducts(rows)
}
