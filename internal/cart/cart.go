package cart

// Item is one product line within a cart. Quantity is always >= 1; a line
// whose quantity would reach zero is deleted instead of kept at zero.
type Item struct {
	ID        int    `json:"itemId"`
	ProductID int    `json:"productId"`
	StoreID   int    `json:"storeId"`
	Quantity  int    `json:"quantity"`
	CatalogID *int   `json:"catalogId,omitempty"`
	AddedAt   string `json:"addedAt,omitempty"`
}

// Cart holds pending purchase lines for a user or guest session. Items from
// different stores coexist in one cart; grouping by store happens client
// side. Carts are created lazily on first add and expire after a TTL.
type Cart struct {
	ID           int    `json:"cartId"`
	UserID       *int   `json:"userId,omitempty"`
	GuestSession string `json:"guestSession,omitempty"`
	Items        []Item `json:"items"`
	ExpiresAt    string `json:"expiresAt,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// Identity names the owner of a cart: an authenticated user or an anonymous
// guest session token. Exactly one side is expected to be set.
type Identity struct {
	UserID       int
	GuestSession string
}

func (id Identity) Valid() bool {
	return id.UserID > 0 || id.GuestSession != ""
}
