package follow

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Add(f Follow) error {
	_, err := r.db.Exec(`INSERT INTO follows ("userId", "storeId", "createdAt")
        VALUES ($1,$2,$3) ON CONFLICT ("userId", "storeId") DO NOTHING`,
		f.UserID, f.StoreID, f.CreatedAt)
	return err
}

func (r *PostgresRepository) Remove(userID, storeID int) error {
	res, err := r.db.Exec(`DELETE FROM follows WHERE "userId" = $1 AND "storeId" = $2`, userID, storeID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListStoreIDs(userID int) ([]int, error) {
	rows, err := r.db.Query(`SELECT "storeId" FROM follows WHERE "userId" = $1 ORDER BY "createdAt"`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CountFollowers(storeID int) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE "storeId" = $1`, storeID).Scan(&n)
	return n, err
}
