// Command dev runs the API against in-memory repositories with a small seed
// data set, so the client can be exercised without Postgres.
package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"

	"github.com/thanakrit55/streetmarket-backend/internal/address"
	"github.com/thanakrit55/streetmarket-backend/internal/cart"
	"github.com/thanakrit55/streetmarket-backend/internal/catalog"
	"github.com/thanakrit55/streetmarket-backend/internal/config"
	"github.com/thanakrit55/streetmarket-backend/internal/follow"
	"github.com/thanakrit55/streetmarket-backend/internal/message"
	"github.com/thanakrit55/streetmarket-backend/internal/order"
	"github.com/thanakrit55/streetmarket-backend/internal/product"
	"github.com/thanakrit55/streetmarket-backend/internal/store"
	"github.com/thanakrit55/streetmarket-backend/internal/user"
)

func main() {
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "dev-secret")
	}
	cfg := config.Load()

	app := fiber.New()
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Guest-Session",
	}))

	desc := func(s string) *string { return &s }

	storeService := store.NewService(store.NewInMemoryRepository([]store.Store{
		{ID: 1, Name: "Nai Daeng Noodles", Description: desc("boat noodles, evening stall")},
		{ID: 2, Name: "Pa Nid Fruit Cart", Description: desc("cut fruit and smoothies")},
	}))
	productService := product.NewService(product.NewInMemoryRepository([]product.Product{
		{ID: 1, StoreID: 1, Name: "Boat noodles", Price: 60},
		{ID: 2, StoreID: 1, Name: "Fried pork dumplings", Price: 45},
		{ID: 3, StoreID: 2, Name: "Mango sticky rice", Price: 80},
	}))
	catalogService := catalog.NewService(catalog.NewInMemoryRepository([]catalog.Catalog{
		{ID: 1, StoreID: 1, Name: "Evening menu", Ord: 1},
	}))

	userService := user.NewService(user.NewInMemoryRepository(nil))
	cartService := cart.NewService(cart.NewInMemoryRepository(), cfg.CartTTL)
	orderService := order.NewService(order.NewInMemoryRepository(nil))

	userHandler := user.NewHandler(userService)
	userHandler.RegisterPublicRoutes(app)
	store.NewHandler(storeService).RegisterPublicRoutes(app)
	catalog.NewHandler(catalogService).RegisterPublicRoutes(app)
	product.NewHandler(productService).RegisterPublicRoutes(app)

	app.Use(user.OptionalAuth(cfg.JWTSecret))
	cart.NewHandler(cartService).RegisterRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	order.NewHandler(orderService, cartService, productService).RegisterProtectedRoutes(app)
	follow.NewHandler(follow.NewService(follow.NewInMemoryRepository(), storeService)).RegisterProtectedRoutes(app)
	message.NewHandler(message.NewService(message.NewInMemoryRepository())).RegisterProtectedRoutes(app)
	address.NewHandler(address.NewService(address.NewInMemoryRepository())).RegisterProtectedRoutes(app)

	log.Printf("starting dev server on %s (in-memory data)", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
