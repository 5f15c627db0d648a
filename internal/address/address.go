package address

// Address is a saved delivery address. Delivery (non-takeout) orders
// reference one by id.
type Address struct {
	ID        int    `json:"addressId"`
	UserID    int    `json:"userId"`
	Label     string `json:"label"`
	Detail    string `json:"detail"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
