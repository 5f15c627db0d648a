package client

import (
	"log"
	"sync"

	"github.com/thanakrit55/streetmarket-backend/internal/cart"
)

// StoreCart is one store's slice of the cart, the unit the checkout screen
// renders. Items keep the order they were first added in.
type StoreCart struct {
	StoreID   int         `json:"storeId"`
	StoreName string      `json:"storeName"`
	Items     []cart.Item `json:"items"`
}

// Aggregator keeps a local snapshot of the server-side cart and exposes the
// mutate-then-reload operations the screens use. Every mutation round-trips
// through the API and the snapshot is replaced wholesale by the reload, so
// the last reload wins when calls race.
type Aggregator struct {
	api      CartAPI
	notifier Notifier
	logger   *log.Logger

	mu      sync.Mutex
	current cart.Cart
	groups  []StoreCart
}

func NewAggregator(api CartAPI, notifier Notifier, logger *log.Logger) *Aggregator {
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Aggregator{api: api, notifier: notifier, logger: logger}
}

// Load refreshes the snapshot from the server. A failed load is reported to
// the user and the aggregator falls back to an empty cart rather than keeping
// a stale one.
func (a *Aggregator) Load() {
	crt, err := a.api.CurrentCart()
	if err != nil {
		a.logger.Printf("cart load failed: %v", err)
		a.notifier.Notify("could not load your cart")
		a.replace(cart.Cart{Items: []cart.Item{}})
		return
	}
	a.replace(crt)
}

// replace swaps in a new snapshot and rebuilds the per-store groups.
func (a *Aggregator) replace(crt cart.Cart) {
	groups := groupByStore(crt.Items)
	if len(groups) > 0 {
		ids := make([]int, 0, len(groups))
		for _, g := range groups {
			ids = append(ids, g.StoreID)
		}
		names, err := a.api.StoreNames(ids)
		if err != nil {
			a.logger.Printf("store name lookup failed: %v", err)
		} else {
			for i := range groups {
				groups[i].StoreName = names[groups[i].StoreID]
			}
		}
	}

	a.mu.Lock()
	a.current = crt
	a.groups = groups
	a.mu.Unlock()
}

// groupByStore buckets items by store, stores ordered by first occurrence.
func groupByStore(items []cart.Item) []StoreCart {
	groups := make([]StoreCart, 0)
	index := make(map[int]int)
	for _, it := range items {
		i, ok := index[it.StoreID]
		if !ok {
			i = len(groups)
			index[it.StoreID] = i
			groups = append(groups, StoreCart{StoreID: it.StoreID, Items: []cart.Item{}})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// ChangeQuantity applies a signed delta to the line for productID. A delta
// that would take the quantity below zero is rejected with a notice; exactly
// zero removes the line; a positive result on a missing line adds it with
// quantity equal to the delta. On success the whole cart is reloaded.
func (a *Aggregator) ChangeQuantity(productID, storeID, delta int, catalogID *int) {
	a.mu.Lock()
	existing, found := findItem(a.current.Items, productID)
	a.mu.Unlock()

	newQty := delta
	if found {
		newQty = existing.Quantity + delta
	}
	if newQty < 0 {
		a.notifier.Notify("quantity cannot go below zero")
		return
	}

	var err error
	switch {
	case newQty == 0:
		if !found {
			return
		}
		err = a.api.RemoveCartItem(productID)
	case !found:
		err = a.api.AddCartItem(productID, storeID, newQty, catalogID)
	default:
		// keep the line's catalog binding when the caller doesn't name one
		if catalogID == nil {
			catalogID = existing.CatalogID
		}
		err = a.api.UpdateCartItem(productID, newQty, catalogID)
	}
	if err != nil {
		a.logger.Printf("cart update failed: %v", err)
		a.notifier.Notify(userMessage(err))
		return
	}
	a.Load()
}

// RemoveItem drops a line regardless of its quantity.
func (a *Aggregator) RemoveItem(productID int) {
	a.mu.Lock()
	_, found := findItem(a.current.Items, productID)
	a.mu.Unlock()
	if !found {
		return
	}
	if err := a.api.RemoveCartItem(productID); err != nil {
		a.logger.Printf("cart remove failed: %v", err)
		a.notifier.Notify(userMessage(err))
		return
	}
	a.Load()
}

// Clear empties the whole cart.
func (a *Aggregator) Clear() {
	if err := a.api.ClearCart(); err != nil {
		a.logger.Printf("cart clear failed: %v", err)
		a.notifier.Notify(userMessage(err))
		return
	}
	a.Load()
}

// ClearStore drops one store's lines, e.g. after checking that store out.
func (a *Aggregator) ClearStore(storeID int) {
	if err := a.api.ClearStoreCart(storeID); err != nil {
		a.logger.Printf("cart clear failed: %v", err)
		a.notifier.Notify(userMessage(err))
		return
	}
	a.Load()
}

func findItem(items []cart.Item, productID int) (cart.Item, bool) {
	for _, it := range items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return cart.Item{}, false
}

// Quantity returns the current quantity of a line, zero when absent.
func (a *Aggregator) Quantity(productID int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if it, ok := findItem(a.current.Items, productID); ok {
		return it.Quantity
	}
	return 0
}

// ItemCount is the number of distinct lines in the cart.
func (a *Aggregator) ItemCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.current.Items)
}

// TotalItemCount sums quantities across every line, the badge number.
func (a *Aggregator) TotalItemCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0
	for _, it := range a.current.Items {
		total += it.Quantity
	}
	return total
}

// StoreItemCount sums quantities for one store's lines.
func (a *Aggregator) StoreItemCount(storeID int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0
	for _, it := range a.current.Items {
		if it.StoreID == storeID {
			total += it.Quantity
		}
	}
	return total
}

// StoreCarts returns the per-store view. The slice is a copy; callers may
// keep it across reloads.
func (a *Aggregator) StoreCarts() []StoreCart {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]StoreCart, len(a.groups))
	for i, g := range a.groups {
		items := make([]cart.Item, len(g.Items))
		copy(items, g.Items)
		out[i] = StoreCart{StoreID: g.StoreID, StoreName: g.StoreName, Items: items}
	}
	return out
}

// Cart returns a copy of the raw snapshot.
func (a *Aggregator) Cart() cart.Cart {
	a.mu.Lock()
	defer a.mu.Unlock()
	crt := a.current
	items := make([]cart.Item, len(crt.Items))
	copy(items, crt.Items)
	crt.Items = items
	return crt
}

// userMessage extracts the normalized message from an API error.
func userMessage(err error) string {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Message
	}
	return "something went wrong"
}
