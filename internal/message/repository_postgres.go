package message

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(m Message) (Message, error) {
	err := r.db.QueryRow(`INSERT INTO messages ("fromUserId", "toUserId", "orderId", body, read, "createdAt")
        VALUES ($1,$2,$3,$4,$5,$6) RETURNING "messageId"`,
		m.FromUserID, m.ToUserID, m.OrderID, m.Body, m.Read, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return Message{}, err
	}
	return m, nil
}

func (r *PostgresRepository) ListInbox(userID int) ([]Message, error) {
	rows, err := r.db.Query(`SELECT "messageId", "fromUserId", "toUserId", "orderId", body, read, "createdAt"
        FROM messages WHERE "toUserId" = $1 ORDER BY "messageId" DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Message, 0)
	for rows.Next() {
		var m Message
		var orderID sql.NullInt64
		if err := rows.Scan(&m.ID, &m.FromUserID, &m.ToUserID, &orderID, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		if orderID.Valid {
			id := int(orderID.Int64)
			m.OrderID = &id
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) CountUnread(userID int) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE "toUserId" = $1 AND read = FALSE`, userID).Scan(&n)
	return n, err
}

func (r *PostgresRepository) MarkRead(id, userID int) error {
	res, err := r.db.Exec(`UPDATE messages SET read = TRUE WHERE "messageId" = $1 AND "toUserId" = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
