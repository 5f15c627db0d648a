package cart

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/thanakrit55/streetmarket-backend/internal/user"
)

// Handler exposes the cart API. Routes work for both authenticated users and
// anonymous guests; a guest that shows up without a session token gets one
// issued and returned on the cart payload.
type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Put("/api/v1/cart/items/:productId<[0-9]+>", h.updateItem)
	app.Delete("/api/v1/cart/items/:productId<[0-9]+>", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

type addItemRequest struct {
	ProductID int  `json:"productId"`
	StoreID   int  `json:"storeId"`
	Quantity  int  `json:"quantity"`
	CatalogID *int `json:"catalogId,omitempty"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// identity resolves the cart owner from the JWT when present, otherwise from
// the guest session header, otherwise mints a fresh guest token.
func (h *Handler) identity(c *fiber.Ctx) Identity {
	if userID, err := user.GetUserIDFromCtx(c); err == nil {
		return Identity{UserID: userID}
	}
	if tok := c.Get("X-Guest-Session"); tok != "" {
		return Identity{GuestSession: tok}
	}
	return Identity{GuestSession: uuid.NewString()}
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	crt, err := h.service.Get(h.identity(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": crt})
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	crt, err := h.service.AddItem(h.identity(c), payload.ProductID, payload.StoreID, payload.Quantity, payload.CatalogID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": crt})
}

func (h *Handler) updateItem(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid product id"})
	}
	payload := new(updateItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	crt, err := h.service.UpdateItem(h.identity(c), productID, payload.Quantity)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": crt})
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid product id"})
	}

	crt, err := h.service.RemoveItem(h.identity(c), productID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": crt})
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	var (
		crt Cart
		err error
	)
	if v := c.Query("storeId"); v != "" {
		storeID, convErr := strconv.Atoi(v)
		if convErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "invalid storeId"})
		}
		crt, err = h.service.ClearStore(h.identity(c), storeID)
	} else {
		crt, err = h.service.Clear(h.identity(c))
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "data": crt})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": err.Error()})
	case errors.Is(err, ErrInvalidIdentity):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": err.Error()})
	}
}
