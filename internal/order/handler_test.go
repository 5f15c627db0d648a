package order

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/thanakrit55/streetmarket-backend/internal/cart"
	"github.com/thanakrit55/streetmarket-backend/internal/product"
)

// makeApp builds a fiber app with a lightweight auth middleware: X-User-ID
// sets the user claim, X-Role the role, X-Store-ID the store binding.
func makeApp(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			claims := jwt.MapClaims{}
			if id, err := strconv.Atoi(v); err == nil {
				claims["user_id"] = float64(id)
			}
			if role := c.Get("X-Role"); role != "" {
				claims["role"] = role
			}
			if sv := c.Get("X-Store-ID"); sv != "" {
				if sid, err := strconv.Atoi(sv); err == nil {
					claims["store_id"] = float64(sid)
				}
			}
			c.Locals("user", &jwt.Token{Claims: claims})
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func newHandlerFixture() (*Handler, *Service, cart.ServiceInterface) {
	orderService := NewService(NewInMemoryRepository(nil))
	orderService.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	cartService := cart.NewService(cart.NewInMemoryRepository(), 72*time.Hour)
	productService := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: 1, StoreID: 3, Name: "Boat noodles", Price: 60},
		{ID: 2, StoreID: 3, Name: "Dumplings", Price: 45},
		{ID: 5, StoreID: 4, Name: "Mango sticky rice", Price: 80},
	}))

	return NewHandler(orderService, cartService, productService), orderService, cartService
}

type orderEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    Order  `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}

func customerHeaders() map[string]string {
	return map[string]string{"X-User-ID": "5", "X-Role": "customer"}
}

func storeHeaders() map[string]string {
	return map[string]string{"X-User-ID": "2", "X-Role": "store", "X-Store-ID": "3"}
}

func driverHeaders(id string) map[string]string {
	return map[string]string{"X-User-ID": id, "X-Role": "driver"}
}

func TestPlaceOrder_SnapshotsCartAndClearsStoreLines(t *testing.T) {
	h, _, cartService := newHandlerFixture()
	app := makeApp(h)

	id := cart.Identity{UserID: 5}
	cartService.AddItem(id, 1, 3, 2, nil)
	cartService.AddItem(id, 2, 3, 1, nil)
	cartService.AddItem(id, 5, 4, 1, nil)

	status, body := doJSON(t, app, "POST", "/api/v1/orders",
		`{"storeId":3,"orderName":"lunch","isTakeout":false}`, customerHeaders())
	if status != fiber.StatusOK {
		t.Fatalf("status = %d: %s", status, body)
	}

	var env orderEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	o := env.Data
	if len(o.Items) != 2 {
		t.Fatalf("items = %+v", o.Items)
	}
	if o.Items[0].Name != "Boat noodles" || o.Items[0].Price != 60 {
		t.Fatalf("snapshot missing product data: %+v", o.Items[0])
	}
	if want := 2*60.0 + 45.0 + 39.0; o.Total != want {
		t.Fatalf("total = %v, want %v", o.Total, want)
	}

	// only store 3 lines leave the cart
	crt, _ := cartService.Get(id)
	if len(crt.Items) != 1 || crt.Items[0].StoreID != 4 {
		t.Fatalf("cart after place = %+v", crt.Items)
	}
}

func TestPlaceOrder_TakeoutHasNoDeliveryFee(t *testing.T) {
	h, _, cartService := newHandlerFixture()
	app := makeApp(h)
	cartService.AddItem(cart.Identity{UserID: 5}, 1, 3, 1, nil)

	status, body := doJSON(t, app, "POST", "/api/v1/orders",
		`{"storeId":3,"isTakeout":true}`, customerHeaders())
	if status != fiber.StatusOK {
		t.Fatalf("status = %d: %s", status, body)
	}
	var env orderEnvelope
	json.Unmarshal(body, &env)
	if env.Data.Fee != 0 || env.Data.Total != 60 {
		t.Fatalf("fee = %v total = %v", env.Data.Fee, env.Data.Total)
	}
}

func TestPlaceOrder_EmptyStoreCartIs400(t *testing.T) {
	h, _, _ := newHandlerFixture()
	app := makeApp(h)

	status, _ := doJSON(t, app, "POST", "/api/v1/orders",
		`{"storeId":3}`, customerHeaders())
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestActionsEndpoint_MatchesRole(t *testing.T) {
	h, _, cartService := newHandlerFixture()
	app := makeApp(h)
	cartService.AddItem(cart.Identity{UserID: 5}, 1, 3, 1, nil)
	doJSON(t, app, "POST", "/api/v1/orders", `{"storeId":3}`, customerHeaders())

	status, body := doJSON(t, app, "GET", "/api/v1/order/1/actions", "", storeHeaders())
	if status != fiber.StatusOK {
		t.Fatalf("status = %d: %s", status, body)
	}
	var env struct {
		Data struct {
			Actions   []Action `json:"actions"`
			CanCancel bool     `json:"canCancel"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Actions) != 2 || env.Data.Actions[0] != ActionAccept || env.Data.Actions[1] != ActionReject {
		t.Fatalf("store actions on placed = %v", env.Data.Actions)
	}
	if !env.Data.CanCancel {
		t.Fatal("store should be able to cancel a placed order")
	}
}

func TestActionRoutes_FullTakeoutFlow(t *testing.T) {
	h, _, cartService := newHandlerFixture()
	app := makeApp(h)
	cartService.AddItem(cart.Identity{UserID: 5}, 1, 3, 1, nil)
	doJSON(t, app, "POST", "/api/v1/orders", `{"storeId":3,"isTakeout":true}`, customerHeaders())

	steps := []struct {
		path    string
		headers map[string]string
		want    Status
	}{
		{"/api/v1/order/1/accept", storeHeaders(), StatusAccepted},
		{"/api/v1/order/1/prepare", storeHeaders(), StatusPrepared},
		{"/api/v1/order/1/accept", driverHeaders("9"), StatusAcceptedByDriver},
		{"/api/v1/order/1/pickup", driverHeaders("9"), StatusPickedUp},
		{"/api/v1/order/1/deliver", driverHeaders("9"), StatusDelivered},
		{"/api/v1/order/1/receive", customerHeaders(), StatusReceived},
	}
	for _, step := range steps {
		status, body := doJSON(t, app, "POST", step.path, "", step.headers)
		if status != fiber.StatusOK {
			t.Fatalf("%s: status %d: %s", step.path, status, body)
		}
		var env orderEnvelope
		json.Unmarshal(body, &env)
		if env.Data.Status != step.want {
			t.Fatalf("%s: status %s, want %s", step.path, env.Data.Status, step.want)
		}
	}
}

func TestActionRoutes_WrongRoleRejected(t *testing.T) {
	h, _, cartService := newHandlerFixture()
	app := makeApp(h)
	cartService.AddItem(cart.Identity{UserID: 5}, 1, 3, 1, nil)
	doJSON(t, app, "POST", "/api/v1/orders", `{"storeId":3}`, customerHeaders())

	// customers cannot accept their own order
	status, _ := doJSON(t, app, "POST", "/api/v1/order/1/accept", "", customerHeaders())
	if status != fiber.StatusBadRequest {
		t.Fatalf("customer accept: status %d, want 400", status)
	}

	// another store cannot accept either
	otherStore := map[string]string{"X-User-ID": "8", "X-Role": "store", "X-Store-ID": "99"}
	status, _ = doJSON(t, app, "POST", "/api/v1/order/1/accept", "", otherStore)
	if status != fiber.StatusForbidden {
		t.Fatalf("other store accept: status %d, want 403", status)
	}
}

func TestAvailable_DriversOnly(t *testing.T) {
	h, _, _ := newHandlerFixture()
	app := makeApp(h)

	status, _ := doJSON(t, app, "GET", "/api/v1/orders/available", "", customerHeaders())
	if status != fiber.StatusForbidden {
		t.Fatalf("customer: status %d, want 403", status)
	}
	status, _ = doJSON(t, app, "GET", "/api/v1/orders/available", "", driverHeaders("9"))
	if status != fiber.StatusOK {
		t.Fatalf("driver: status %d, want 200", status)
	}
}

func TestAdjustTimeRoute(t *testing.T) {
	h, _, cartService := newHandlerFixture()
	app := makeApp(h)
	cartService.AddItem(cart.Identity{UserID: 5}, 1, 3, 1, nil)
	doJSON(t, app, "POST", "/api/v1/orders", `{"storeId":3}`, customerHeaders())
	doJSON(t, app, "POST", "/api/v1/order/1/accept", "", storeHeaders())

	status, body := doJSON(t, app, "POST", "/api/v1/order/1/adjust-prepare-time",
		`{"minutes":5}`, storeHeaders())
	if status != fiber.StatusOK {
		t.Fatalf("status = %d: %s", status, body)
	}
	var env orderEnvelope
	json.Unmarshal(body, &env)
	if env.Data.PrepareMinutes != 20 {
		t.Fatalf("prepareMinutes = %d, want 20", env.Data.PrepareMinutes)
	}

	status, _ = doJSON(t, app, "POST", "/api/v1/order/1/adjust-prepare-time",
		`{"minutes":4}`, storeHeaders())
	if status != fiber.StatusBadRequest {
		t.Fatalf("step 4: status %d, want 400", status)
	}
}

func TestFeedbackRoute(t *testing.T) {
	h, _, cartService := newHandlerFixture()
	app := makeApp(h)
	cartService.AddItem(cart.Identity{UserID: 5}, 1, 3, 1, nil)
	doJSON(t, app, "POST", "/api/v1/orders", `{"storeId":3}`, customerHeaders())
	doJSON(t, app, "POST", "/api/v1/order/1/accept", "", storeHeaders())
	doJSON(t, app, "POST", "/api/v1/order/1/prepare", "", storeHeaders())
	doJSON(t, app, "POST", "/api/v1/order/1/receive", "", customerHeaders())

	status, body := doJSON(t, app, "POST", "/api/v1/order/1/feedback",
		`{"rating":5,"comment":"great"}`, customerHeaders())
	if status != fiber.StatusOK {
		t.Fatalf("status = %d: %s", status, body)
	}
	var env orderEnvelope
	json.Unmarshal(body, &env)
	if env.Data.Feedback == nil || env.Data.Feedback.Rating != 5 {
		t.Fatalf("feedback = %+v", env.Data.Feedback)
	}

	status, _ = doJSON(t, app, "POST", "/api/v1/order/1/feedback",
		`{"rating":4}`, customerHeaders())
	if status != fiber.StatusBadRequest {
		t.Fatalf("second feedback: status %d, want 400", status)
	}
}

func TestGetOrder_Visibility(t *testing.T) {
	h, _, cartService := newHandlerFixture()
	app := makeApp(h)
	cartService.AddItem(cart.Identity{UserID: 5}, 1, 3, 1, nil)
	doJSON(t, app, "POST", "/api/v1/orders", `{"storeId":3,"isTakeout":true}`, customerHeaders())

	// another customer cannot see it
	other := map[string]string{"X-User-ID": "77", "X-Role": "customer"}
	status, _ := doJSON(t, app, "GET", "/api/v1/order/1", "", other)
	if status != fiber.StatusForbidden {
		t.Fatalf("other customer: status %d, want 403", status)
	}

	// any driver can browse an unclaimed takeout order
	status, _ = doJSON(t, app, "GET", "/api/v1/order/1", "", driverHeaders("9"))
	if status != fiber.StatusOK {
		t.Fatalf("driver browse: status %d, want 200", status)
	}

	status, _ = doJSON(t, app, "GET", "/api/v1/order/99", "", customerHeaders())
	if status != fiber.StatusNotFound {
		t.Fatalf("missing order: status %d, want 404", status)
	}
}

func TestStatsRoute(t *testing.T) {
	h, _, cartService := newHandlerFixture()
	app := makeApp(h)
	cartService.AddItem(cart.Identity{UserID: 5}, 1, 3, 1, nil)
	doJSON(t, app, "POST", "/api/v1/orders", `{"storeId":3}`, customerHeaders())

	status, body := doJSON(t, app, "GET", "/api/v1/orders/stats", "", customerHeaders())
	if status != fiber.StatusOK {
		t.Fatalf("status = %d: %s", status, body)
	}
	var env struct {
		Data map[Status]int `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data[StatusPlaced] != 1 {
		t.Fatalf("stats = %v", env.Data)
	}
}
