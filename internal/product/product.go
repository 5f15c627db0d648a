package product

// Product belongs to exactly one store. The store reference is denormalized
// onto cart items so the cart can be grouped without extra lookups.
type Product struct {
	ID          int     `json:"productID"`
	StoreID     int     `json:"storeID"`
	Name        string  `json:"productName"`
	Price       float64 `json:"productPrice"`
	Description *string `json:"productDesc,omitempty"`
	ImageURL    *string `json:"productImg,omitempty"`
	CatalogID   *int    `json:"catalogId,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}
