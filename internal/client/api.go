package client

import (
	"fmt"
	"net/http"

	"github.com/thanakrit55/streetmarket-backend/internal/cart"
	"github.com/thanakrit55/streetmarket-backend/internal/order"
	"github.com/thanakrit55/streetmarket-backend/internal/store"
)

// CartAPI is the slice of the API the cart aggregator needs; tests swap in a
// fake.
type CartAPI interface {
	CurrentCart() (cart.Cart, error)
	AddCartItem(productID, storeID, quantity int, catalogID *int) error
	UpdateCartItem(productID, quantity int, catalogID *int) error
	RemoveCartItem(productID int) error
	ClearCart() error
	ClearStoreCart(storeID int) error
	StoreNames(ids []int) (map[int]string, error)
}

var _ CartAPI = (*Client)(nil)

// persistGuestSession stores the session marker the server attached to a
// cart payload, so later requests reuse the same anonymous cart. Every cart
// endpoint echoes the cart back; a fresh guest may be minted a session on any
// of them, including their very first add.
func (c *Client) persistGuestSession(crt cart.Cart) {
	if crt.GuestSession != "" && c.token == "" {
		c.sessions.SetGuestSession(crt.GuestSession)
	}
}

// CurrentCart fetches the cart and persists any guest session marker.
func (c *Client) CurrentCart() (cart.Cart, error) {
	var crt cart.Cart
	if err := c.do(http.MethodGet, "/api/v1/cart", nil, &crt); err != nil {
		return cart.Cart{}, err
	}
	c.persistGuestSession(crt)
	return crt, nil
}

type addCartItemRequest struct {
	ProductID int  `json:"productId"`
	StoreID   int  `json:"storeId"`
	Quantity  int  `json:"quantity"`
	CatalogID *int `json:"catalogId,omitempty"`
}

type updateCartItemRequest struct {
	Quantity  int  `json:"quantity"`
	CatalogID *int `json:"catalogId,omitempty"`
}

// cartMutation performs one cart call, keeping the guest session the response
// carries.
func (c *Client) cartMutation(method, path string, body interface{}) error {
	var crt cart.Cart
	if err := c.do(method, path, body, &crt); err != nil {
		return err
	}
	c.persistGuestSession(crt)
	return nil
}

func (c *Client) AddCartItem(productID, storeID, quantity int, catalogID *int) error {
	return c.cartMutation(http.MethodPost, "/api/v1/cart/items", addCartItemRequest{
		ProductID: productID,
		StoreID:   storeID,
		Quantity:  quantity,
		CatalogID: catalogID,
	})
}

func (c *Client) UpdateCartItem(productID, quantity int, catalogID *int) error {
	return c.cartMutation(http.MethodPut, fmt.Sprintf("/api/v1/cart/items/%d", productID), updateCartItemRequest{
		Quantity:  quantity,
		CatalogID: catalogID,
	})
}

func (c *Client) RemoveCartItem(productID int) error {
	return c.cartMutation(http.MethodDelete, fmt.Sprintf("/api/v1/cart/items/%d", productID), nil)
}

func (c *Client) ClearCart() error {
	return c.cartMutation(http.MethodDelete, "/api/v1/cart", nil)
}

// ClearStoreCart drops only the lines belonging to one store, used right
// after that store's order is placed.
func (c *Client) ClearStoreCart(storeID int) error {
	return c.cartMutation(http.MethodDelete, fmt.Sprintf("/api/v1/cart?storeId=%d", storeID), nil)
}

// StoreNames resolves display names for the given store ids.
func (c *Client) StoreNames(ids []int) (map[int]string, error) {
	if len(ids) == 0 {
		return map[int]string{}, nil
	}
	var stores []store.Store
	if err := c.do(http.MethodGet, "/api/v1/stores", nil, &stores); err != nil {
		return nil, err
	}
	names := make(map[int]string, len(ids))
	for _, id := range ids {
		for _, s := range stores {
			if s.ID == id {
				names[id] = s.Name
				break
			}
		}
	}
	return names, nil
}

type placeOrderRequest struct {
	StoreID   int    `json:"storeId"`
	OrderName string `json:"orderName,omitempty"`
	IsTakeout bool   `json:"isTakeout"`
	AddressID *int   `json:"addressId,omitempty"`
}

// PlaceOrder turns the caller's cart lines for one store into an order.
func (c *Client) PlaceOrder(storeID int, name string, isTakeout bool, addressID *int) (order.Order, error) {
	var o order.Order
	err := c.do(http.MethodPost, "/api/v1/orders", placeOrderRequest{
		StoreID:   storeID,
		OrderName: name,
		IsTakeout: isTakeout,
		AddressID: addressID,
	}, &o)
	return o, err
}

func (c *Client) Orders() ([]order.Order, error) {
	var orders []order.Order
	err := c.do(http.MethodGet, "/api/v1/orders", nil, &orders)
	return orders, err
}

func (c *Client) AvailableOrders() ([]order.Order, error) {
	var orders []order.Order
	err := c.do(http.MethodGet, "/api/v1/orders/available", nil, &orders)
	return orders, err
}

// OrderStats returns the caller's per-status order counts; screens refresh
// these after every workflow action.
func (c *Client) OrderStats() (map[order.Status]int, error) {
	var stats map[order.Status]int
	err := c.do(http.MethodGet, "/api/v1/orders/stats", nil, &stats)
	return stats, err
}

// orderAction posts one workflow action and returns the updated order.
func (c *Client) orderAction(id int, action string) (order.Order, error) {
	var o order.Order
	err := c.do(http.MethodPost, fmt.Sprintf("/api/v1/order/%d/%s", id, action), nil, &o)
	return o, err
}

func (c *Client) AcceptOrder(id int) (order.Order, error)  { return c.orderAction(id, "accept") }
func (c *Client) RejectOrder(id int) (order.Order, error)  { return c.orderAction(id, "reject") }
func (c *Client) PrepareOrder(id int) (order.Order, error) { return c.orderAction(id, "prepare") }
func (c *Client) PickupOrder(id int) (order.Order, error)  { return c.orderAction(id, "pickup") }
func (c *Client) DeliverOrder(id int) (order.Order, error) { return c.orderAction(id, "deliver") }
func (c *Client) ReceiveOrder(id int) (order.Order, error) { return c.orderAction(id, "receive") }
func (c *Client) CancelOrder(id int) (order.Order, error)  { return c.orderAction(id, "cancel") }

type adjustTimeRequest struct {
	Minutes int `json:"minutes"`
}

func (c *Client) adjustTime(id int, phase string, minutes int) (order.Order, error) {
	var o order.Order
	err := c.do(http.MethodPost, fmt.Sprintf("/api/v1/order/%d/adjust-%s-time", id, phase), adjustTimeRequest{Minutes: minutes}, &o)
	return o, err
}

func (c *Client) AdjustPrepareTime(id, minutes int) (order.Order, error) {
	return c.adjustTime(id, "prepare", minutes)
}

func (c *Client) AdjustPickupTime(id, minutes int) (order.Order, error) {
	return c.adjustTime(id, "pickup", minutes)
}

func (c *Client) AdjustDeliverTime(id, minutes int) (order.Order, error) {
	return c.adjustTime(id, "deliver", minutes)
}

type feedbackRequest struct {
	Rating    int      `json:"rating"`
	Comment   string   `json:"comment,omitempty"`
	Reactions []string `json:"reactions,omitempty"`
}

func (c *Client) SendFeedback(id, rating int, comment string, reactions []string) (order.Order, error) {
	var o order.Order
	err := c.do(http.MethodPost, fmt.Sprintf("/api/v1/order/%d/feedback", id), feedbackRequest{
		Rating:    rating,
		Comment:   comment,
		Reactions: reactions,
	}, &o)
	return o, err
}

// OrderActions fetches the server's view of what the caller may do; it
// matches order.ResolveActions on the same snapshot by construction.
func (c *Client) OrderActions(id int) ([]order.Action, bool, error) {
	var data struct {
		Actions   []order.Action `json:"actions"`
		CanCancel bool           `json:"canCancel"`
	}
	err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/order/%d/actions", id), nil, &data)
	return data.Actions, data.CanCancel, err
}

// UnreadMessages returns the unread message counter for the badge poller.
func (c *Client) UnreadMessages() (int, error) {
	var data struct {
		Unread int `json:"unread"`
	}
	err := c.do(http.MethodGet, "/api/v1/messages/unread-count", nil, &data)
	return data.Unread, err
}
