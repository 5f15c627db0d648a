package order

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("order not found")

// Repository defines persistence operations for orders.
type Repository interface {
	Create(o Order) (Order, error)
	GetByID(id int) (Order, error)
	ListByUser(userID int) ([]Order, error)
	ListByStore(storeID int) ([]Order, error)
	ListByDriver(driverID int) ([]Order, error)
	// ListUnassignedTakeout returns takeout orders with no driver in the
	// given status, newest first. Drivers browse this to pick up work.
	ListUnassignedTakeout(status Status) ([]Order, error)
	Update(o Order) (Order, error)
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu     sync.RWMutex
	nextID int
	orders []Order
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{nextID: 1}
	for _, o := range seed {
		if o.ID >= r.nextID {
			r.nextID = o.ID + 1
		}
		r.orders = append(r.orders, o)
	}
	return r
}

func (r *InMemoryRepository) Create(o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	if o.Items == nil {
		o.Items = []Item{}
	}
	r.orders = append(r.orders, o)
	return copyOrder(o), nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == id {
			return copyOrder(o), nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) list(match func(Order) bool) []Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	// newest first
	for i := len(r.orders) - 1; i >= 0; i-- {
		if match(r.orders[i]) {
			out = append(out, copyOrder(r.orders[i]))
		}
	}
	return out
}

func (r *InMemoryRepository) ListByUser(userID int) ([]Order, error) {
	return r.list(func(o Order) bool { return o.UserID == userID }), nil
}

func (r *InMemoryRepository) ListByStore(storeID int) ([]Order, error) {
	return r.list(func(o Order) bool { return o.StoreID == storeID }), nil
}

func (r *InMemoryRepository) ListByDriver(driverID int) ([]Order, error) {
	return r.list(func(o Order) bool { return o.DriverID != nil && *o.DriverID == driverID }), nil
}

func (r *InMemoryRepository) ListUnassignedTakeout(status Status) ([]Order, error) {
	return r.list(func(o Order) bool {
		return o.DriverID == nil && o.IsTakeout && o.Status == status
	}), nil
}

func (r *InMemoryRepository) Update(o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.orders {
		if r.orders[i].ID == o.ID {
			r.orders[i] = copyOrder(o)
			return copyOrder(o), nil
		}
	}
	return Order{}, ErrNotFound
}

func copyOrder(o Order) Order {
	out := o
	out.Items = append([]Item(nil), o.Items...)
	if o.Feedback != nil {
		fb := *o.Feedback
		fb.Reactions = append([]string(nil), o.Feedback.Reactions...)
		out.Feedback = &fb
	}
	if o.DriverID != nil {
		id := *o.DriverID
		out.DriverID = &id
	}
	if o.AddressID != nil {
		id := *o.AddressID
		out.AddressID = &id
	}
	return out
}
