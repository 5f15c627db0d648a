package user

import (
	"database/sql"
	"strings"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `"userId", email, password, "firstName", "lastName", phone, role, "storeId", "createdAt", "updatedAt"`

func scanUser(row *sql.Row) (User, error) {
	var u User
	var storeID sql.NullInt64
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FirstName, &u.LastName, &u.Phone, &u.Role, &storeID, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	if storeID.Valid {
		id := int(storeID.Int64)
		u.StoreID = &id
	}
	return u, nil
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE "userId" = $1`, id)
	return scanUser(row)
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresRepository) Create(u User) (User, error) {
	row := r.db.QueryRow(`INSERT INTO users (email, password, "firstName", "lastName", phone, role, "storeId", "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING `+userColumns,
		u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.Role, u.StoreID, u.CreatedAt, u.UpdatedAt)
	created, err := scanUser(row)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return User{}, ErrDuplicateEmail
	}
	return created, err
}

func (r *PostgresRepository) Update(id int, u User) (User, error) {
	row := r.db.QueryRow(`UPDATE users SET email = $1, password = $2, "firstName" = $3, "lastName" = $4, phone = $5, role = $6, "storeId" = $7, "updatedAt" = $8
        WHERE "userId" = $9
        RETURNING `+userColumns,
		u.Email, u.Password, u.FirstName, u.LastName, u.Phone, u.Role, u.StoreID, u.UpdatedAt, id)
	return scanUser(row)
}
