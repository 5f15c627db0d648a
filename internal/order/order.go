package order

// Status is the lifecycle state of an order. Transitions are role-gated and
// validated against the table in workflow.go; terminal statuses never move
// again. Orders are never deleted, only terminally statused.
type Status string

const (
	StatusPlaced           Status = "placed"
	StatusAccepted         Status = "accepted"
	StatusRejected         Status = "rejected"
	StatusPrepared         Status = "prepared"
	StatusAcceptedByDriver Status = "accepted-by-driver"
	StatusPickedUp         Status = "pickedup"
	StatusDelivered        Status = "delivered"
	StatusReceived         Status = "received"

	StatusCanceledByCustomer Status = "canceled by customer"
	StatusCanceledByStore    Status = "canceled by store"
	StatusCanceledByDriver   Status = "canceled by driver"
)

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusReceived, StatusCanceledByCustomer, StatusCanceledByStore, StatusCanceledByDriver:
		return true
	}
	return false
}

// Item is a snapshot of a cart line at placement time. Name and price are
// copied so later product edits do not rewrite order history.
type Item struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"productName"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	CatalogID *int    `json:"catalogId,omitempty"`
}

// Feedback is the customer's one-shot rating after receiving an order.
type Feedback struct {
	Rating    int      `json:"rating"`
	Comment   string   `json:"comment,omitempty"`
	Reactions []string `json:"reactions,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

type Order struct {
	ID      int    `json:"orderID"`
	Name    string `json:"orderName"`
	UserID  int    `json:"userId"`
	StoreID int    `json:"storeId"`
	// DriverID stays nil until a driver accepts the hand-off.
	DriverID *int `json:"driverId,omitempty"`

	Items []Item `json:"items"`

	Status    Status  `json:"status"`
	IsTakeout bool    `json:"isTakeout"`
	AddressID *int    `json:"addressId,omitempty"`
	Fee       float64 `json:"deliveryFee"`
	Total     float64 `json:"totalAmount"`
	Paid      bool    `json:"paid"`

	// Remaining-minutes estimates per phase; adjusted in ±1/±3/±5 steps
	// by the responsible role.
	PrepareMinutes int `json:"prepareMinutes"`
	PickupMinutes  int `json:"pickupMinutes"`
	DeliverMinutes int `json:"deliverMinutes"`

	// Coarse progress percentages the order screens render.
	PrepareProgress int `json:"prepareProgress"`
	PickupProgress  int `json:"pickupProgress"`
	DeliverProgress int `json:"deliverProgress"`

	Feedback *Feedback `json:"feedback,omitempty"`

	PlacedAt    string `json:"placedAt,omitempty"`
	AcceptedAt  string `json:"acceptedAt,omitempty"`
	PreparedAt  string `json:"preparedAt,omitempty"`
	PickedUpAt  string `json:"pickedUpAt,omitempty"`
	DeliveredAt string `json:"deliveredAt,omitempty"`
	ReceivedAt  string `json:"receivedAt,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
