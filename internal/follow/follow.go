package follow

// Follow records that a customer follows a store. Followed stores surface
// first in the client's store lists.
type Follow struct {
	UserID    int    `json:"userId"`
	StoreID   int    `json:"storeId"`
	CreatedAt string `json:"createdAt,omitempty"`
}
