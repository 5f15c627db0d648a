package order

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/thanakrit55/streetmarket-backend/internal/cart"
	"github.com/thanakrit55/streetmarket-backend/internal/product"
	"github.com/thanakrit55/streetmarket-backend/internal/user"
)

// deliveryFee is the flat fee applied to non-takeout orders.
const deliveryFee = 39.0

// Handler wires the order workflow to HTTP. Placement snapshots the caller's
// cart, so it needs the cart and product services alongside its own.
type Handler struct {
	service        *Service
	cartService    cart.ServiceInterface
	productService product.ServiceInterface
}

func NewHandler(s *Service, cs cart.ServiceInterface, ps product.ServiceInterface) *Handler {
	return &Handler{service: s, cartService: cs, productService: ps}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders", h.placeOrder)
	app.Get("/api/v1/orders", h.listOrders)
	app.Get("/api/v1/orders/available", h.listAvailable)
	app.Get("/api/v1/orders/stats", h.orderStats)
	app.Get("/api/v1/order/:id<[0-9]+>", h.getOrder)
	app.Get("/api/v1/order/:id<[0-9]+>/actions", h.getActions)

	app.Post("/api/v1/order/:id<[0-9]+>/accept", h.action(ActionAccept))
	app.Post("/api/v1/order/:id<[0-9]+>/reject", h.action(ActionReject))
	app.Post("/api/v1/order/:id<[0-9]+>/prepare", h.action(ActionPrepare))
	app.Post("/api/v1/order/:id<[0-9]+>/pickup", h.action(ActionPickup))
	app.Post("/api/v1/order/:id<[0-9]+>/deliver", h.action(ActionDeliver))
	app.Post("/api/v1/order/:id<[0-9]+>/receive", h.action(ActionReceive))
	app.Post("/api/v1/order/:id<[0-9]+>/cancel", h.action(ActionCancel))

	app.Post("/api/v1/order/:id<[0-9]+>/adjust-prepare-time", h.adjustTime(PhasePrepare))
	app.Post("/api/v1/order/:id<[0-9]+>/adjust-pickup-time", h.adjustTime(PhasePickup))
	app.Post("/api/v1/order/:id<[0-9]+>/adjust-deliver-time", h.adjustTime(PhaseDeliver))

	app.Post("/api/v1/order/:id<[0-9]+>/feedback", h.addFeedback)
}

type placeOrderRequest struct {
	StoreID   int    `json:"storeId"`
	OrderName string `json:"orderName"`
	IsTakeout bool   `json:"isTakeout"`
	AddressID *int   `json:"addressId,omitempty"`
}

type adjustTimeRequest struct {
	Minutes int `json:"minutes"`
}

type feedbackRequest struct {
	Rating    int      `json:"rating"`
	Comment   string   `json:"comment"`
	Reactions []string `json:"reactions"`
}

// actor resolves who is acting: stores act as their bound store id, everyone
// else as their user id.
func actor(c *fiber.Ctx) (Role, int, error) {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return "", 0, err
	}
	role := Role(user.GetRoleFromCtx(c))
	if role == RoleStore {
		storeID := user.GetStoreIDFromCtx(c)
		if storeID == 0 {
			return "", 0, errors.New("store account has no store binding")
		}
		return role, storeID, nil
	}
	return role, userID, nil
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}

	payload := new(placeOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	if payload.StoreID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "storeId is required"})
	}

	crt, err := h.cartService.Get(cart.Identity{UserID: userID})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	items, err := h.snapshotItems(crt, payload.StoreID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	fee := 0.0
	if !payload.IsTakeout {
		fee = deliveryFee
	}

	o, err := h.service.Place(userID, payload.StoreID, payload.OrderName, payload.IsTakeout, payload.AddressID, items, fee)
	if err != nil {
		return h.fail(c, err)
	}

	// the ordered lines leave the cart; lines from other stores stay
	if _, err := h.cartService.ClearStore(cart.Identity{UserID: userID}, payload.StoreID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "data": o})
}

// snapshotItems copies one store's cart lines into order items, denormalizing
// product name and price at placement time.
func (h *Handler) snapshotItems(crt cart.Cart, storeID int) ([]Item, error) {
	ids := make([]int, 0, len(crt.Items))
	for _, it := range crt.Items {
		if it.StoreID == storeID {
			ids = append(ids, it.ProductID)
		}
	}
	products, err := h.productService.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]Item, 0, len(ids))
	for _, it := range crt.Items {
		if it.StoreID != storeID {
			continue
		}
		item := Item{ProductID: it.ProductID, Quantity: it.Quantity, CatalogID: it.CatalogID}
		if p, ok := byID[it.ProductID]; ok {
			item.Name = p.Name
			item.Price = p.Price
		}
		items = append(items, item)
	}
	return items, nil
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	role, actorID, err := actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	orders, err := h.service.ListForRole(role, actorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": orders})
}

func (h *Handler) listAvailable(c *fiber.Ctx) error {
	role, _, err := actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	if role != RoleDriver {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "drivers only"})
	}
	orders, err := h.service.Available()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": orders})
}

func (h *Handler) orderStats(c *fiber.Ctx) error {
	role, actorID, err := actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	stats, err := h.service.Stats(role, actorID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	role, actorID, err := actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	o, err := h.service.GetByID(id)
	if err != nil {
		return h.fail(c, err)
	}
	if !canView(o, role, actorID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "no permission"})
	}
	return c.JSON(fiber.Map{"success": true, "data": o})
}

// getActions exposes the workflow resolver so clients can render exactly the
// buttons the server would accept.
func (h *Handler) getActions(c *fiber.Ctx) error {
	role, actorID, err := actor(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	o, err := h.service.GetByID(id)
	if err != nil {
		return h.fail(c, err)
	}
	if !canView(o, role, actorID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "no permission"})
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
		"actions":   ResolveActions(o, role),
		"canCancel": CanCancel(o, role),
	}})
}

func (h *Handler) action(a Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, actorID, err := actor(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
		}
		id, _ := strconv.Atoi(c.Params("id"))

		o, err := h.service.Apply(id, role, actorID, a)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "data": o})
	}
}

func (h *Handler) adjustTime(phase Phase) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, actorID, err := actor(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
		}
		id, _ := strconv.Atoi(c.Params("id"))

		payload := new(adjustTimeRequest)
		if err := c.BodyParser(payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
		}

		o, err := h.service.AdjustTime(id, role, actorID, phase, payload.Minutes)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "data": o})
	}
}

func (h *Handler) addFeedback(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "unauthorized"})
	}
	id, _ := strconv.Atoi(c.Params("id"))

	payload := new(feedbackRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	o, err := h.service.AddFeedback(id, userID, Feedback{
		Rating:    payload.Rating,
		Comment:   payload.Comment,
		Reactions: payload.Reactions,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": o})
}

func canView(o Order, role Role, actorID int) bool {
	switch role {
	case RoleCustomer:
		return o.UserID == actorID
	case RoleStore:
		return o.StoreID == actorID
	case RoleDriver:
		if o.DriverID != nil {
			return *o.DriverID == actorID
		}
		// unclaimed takeout orders are browsable by any driver
		return o.IsTakeout
	}
	return false
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "no permission"})
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrInvalidAdjustment),
		errors.Is(err, ErrInvalidRating), errors.Is(err, ErrFeedbackNotAllowed),
		errors.Is(err, ErrEmptyOrder):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
}
