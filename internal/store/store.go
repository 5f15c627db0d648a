package store

// Store is a seller storefront. Products and cart items reference it by id;
// the client groups cart items into per-store views using these records.
type Store struct {
	ID          int     `json:"storeId"`
	Name        string  `json:"storeName"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	OwnerUserID *int    `json:"ownerUserId,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}
