package message

// Message is a direct message between two accounts, optionally attached to
// an order (customer <-> store or customer <-> driver chat).
type Message struct {
	ID         int    `json:"messageId"`
	FromUserID int    `json:"fromUserId"`
	ToUserID   int    `json:"toUserId"`
	OrderID    *int   `json:"orderId,omitempty"`
	Body       string `json:"body"`
	Read       bool   `json:"read"`
	CreatedAt  string `json:"createdAt,omitempty"`
}
