package catalog

// Catalog is a named product listing a store curates (seasonal menu, promo
// set). Cart items may reference the catalog they were added from.
type Catalog struct {
	ID      int    `json:"catalogId"`
	StoreID int    `json:"storeId"`
	Name    string `json:"catalogName"`
	Ord     int    `json:"ord"`
}
