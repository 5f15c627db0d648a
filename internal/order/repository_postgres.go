package order

import (
	"database/sql"
	"encoding/json"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `"orderID", "orderName", "userId", "storeId", "driverId", items, status, "isTakeout",
        "addressId", "deliveryFee", "totalAmount", paid,
        "prepareMinutes", "pickupMinutes", "deliverMinutes",
        "prepareProgress", "pickupProgress", "deliverProgress",
        feedback, "placedAt", "acceptedAt", "preparedAt", "pickedUpAt", "deliveredAt", "receivedAt",
        "createdAt", "updatedAt"`

func scanOrder(scan func(dest ...interface{}) error) (Order, error) {
	var o Order
	var driverID, addressID sql.NullInt64
	var itemsJSON []byte
	var feedbackJSON []byte
	err := scan(&o.ID, &o.Name, &o.UserID, &o.StoreID, &driverID, &itemsJSON, &o.Status, &o.IsTakeout,
		&addressID, &o.Fee, &o.Total, &o.Paid,
		&o.PrepareMinutes, &o.PickupMinutes, &o.DeliverMinutes,
		&o.PrepareProgress, &o.PickupProgress, &o.DeliverProgress,
		&feedbackJSON, &o.PlacedAt, &o.AcceptedAt, &o.PreparedAt, &o.PickedUpAt, &o.DeliveredAt, &o.ReceivedAt,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	if driverID.Valid {
		id := int(driverID.Int64)
		o.DriverID = &id
	}
	if addressID.Valid {
		id := int(addressID.Int64)
		o.AddressID = &id
	}
	o.Items = []Item{}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return Order{}, err
		}
	}
	if len(feedbackJSON) > 0 {
		var fb Feedback
		if err := json.Unmarshal(feedbackJSON, &fb); err != nil {
			return Order{}, err
		}
		o.Feedback = &fb
	}
	return o, nil
}

func (r *PostgresRepository) Create(o Order) (Order, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return Order{}, err
	}

	row := r.db.QueryRow(`INSERT INTO orders ("orderName", "userId", "storeId", "driverId", items, status, "isTakeout",
        "addressId", "deliveryFee", "totalAmount", paid,
        "prepareMinutes", "pickupMinutes", "deliverMinutes",
        "prepareProgress", "pickupProgress", "deliverProgress",
        "placedAt", "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
        RETURNING `+orderColumns,
		o.Name, o.UserID, o.StoreID, o.DriverID, itemsJSON, o.Status, o.IsTakeout,
		o.AddressID, o.Fee, o.Total, o.Paid,
		o.PrepareMinutes, o.PickupMinutes, o.DeliverMinutes,
		o.PrepareProgress, o.PickupProgress, o.DeliverProgress,
		o.PlacedAt, o.CreatedAt, o.UpdatedAt)
	return scanOrder(row.Scan)
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE "orderID" = $1`, id)
	o, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	return o, err
}

func (r *PostgresRepository) queryOrders(query string, args ...interface{}) ([]Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	return r.queryOrders(`SELECT `+orderColumns+` FROM orders WHERE "userId" = $1 ORDER BY "orderID" DESC`, userID)
}

func (r *PostgresRepository) ListByStore(storeID int) ([]Order, error) {
	return r.queryOrders(`SELECT `+orderColumns+` FROM orders WHERE "storeId" = $1 ORDER BY "orderID" DESC`, storeID)
}

func (r *PostgresRepository) ListByDriver(driverID int) ([]Order, error) {
	return r.queryOrders(`SELECT `+orderColumns+` FROM orders WHERE "driverId" = $1 ORDER BY "orderID" DESC`, driverID)
}

func (r *PostgresRepository) ListUnassignedTakeout(status Status) ([]Order, error) {
	return r.queryOrders(`SELECT `+orderColumns+` FROM orders
        WHERE "driverId" IS NULL AND "isTakeout" = TRUE AND status = $1
        ORDER BY "orderID" DESC`, status)
}

func (r *PostgresRepository) Update(o Order) (Order, error) {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return Order{}, err
	}
	var feedbackJSON interface{}
	if o.Feedback != nil {
		b, err := json.Marshal(o.Feedback)
		if err != nil {
			return Order{}, err
		}
		feedbackJSON = b
	}

	row := r.db.QueryRow(`UPDATE orders SET
        "orderName" = $1, "driverId" = $2, items = $3, status = $4,
        "addressId" = $5, "deliveryFee" = $6, "totalAmount" = $7, paid = $8,
        "prepareMinutes" = $9, "pickupMinutes" = $10, "deliverMinutes" = $11,
        "prepareProgress" = $12, "pickupProgress" = $13, "deliverProgress" = $14,
        feedback = $15, "acceptedAt" = $16, "preparedAt" = $17, "pickedUpAt" = $18,
        "deliveredAt" = $19, "receivedAt" = $20, "updatedAt" = $21
        WHERE "orderID" = $22
        RETURNING `+orderColumns,
		o.Name, o.DriverID, itemsJSON, o.Status,
		o.AddressID, o.Fee, o.Total, o.Paid,
		o.PrepareMinutes, o.PickupMinutes, o.DeliverMinutes,
		o.PrepareProgress, o.PickupProgress, o.DeliverProgress,
		feedbackJSON, o.AcceptedAt, o.PreparedAt, o.PickedUpAt,
		o.DeliveredAt, o.ReceivedAt, o.UpdatedAt, o.ID)
	updated, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	return updated, err
}
