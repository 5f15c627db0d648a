package main

import (
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

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
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLogger)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	mustMigrate(db)

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService)

	storeService := store.NewService(store.NewPostgresRepository(db))
	storeHandler := store.NewHandler(storeService)

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService)

	catalogHandler := catalog.NewHandler(catalog.NewService(catalog.NewPostgresRepository(db)))

	cartService := cart.NewService(cart.NewPostgresRepository(db), cfg.CartTTL)
	cartHandler := cart.NewHandler(cartService)

	orderService := order.NewService(order.NewPostgresRepository(db))
	orderHandler := order.NewHandler(orderService, cartService, productService)

	followHandler := follow.NewHandler(follow.NewService(follow.NewPostgresRepository(db), storeService))
	messageHandler := message.NewHandler(message.NewService(message.NewPostgresRepository(db)))
	addressHandler := address.NewHandler(address.NewService(address.NewPostgresRepository(db)))

	// browsing endpoints stay open
	userHandler.RegisterPublicRoutes(app)
	storeHandler.RegisterPublicRoutes(app)
	catalogHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	// cart works for guests too, so it sits in front of the JWT gate; a
	// bearer token is still honored when present
	app.Use(user.OptionalAuth(cfg.JWTSecret))
	cartHandler.RegisterRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	followHandler.RegisterProtectedRoutes(app)
	messageHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Guest-Session",
	}))
}

func requestLogger(c *fiber.Ctx) error {
	log.Printf("%s %s", c.Method(), c.OriginalURL())
	return c.Next()
}

func mustOpenDB(url string) *sql.DB {
	if url == "" {
		panic("DATABASE_URL is not set")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		panic(err)
	}
	if err := db.Ping(); err != nil {
		panic(err)
	}
	return db
}

// mustMigrate creates the tables on first run. Timestamps are RFC3339 TEXT
// to match what the repositories read and write.
func mustMigrate(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            "userId" SERIAL PRIMARY KEY,
            email TEXT UNIQUE NOT NULL,
            password TEXT NOT NULL,
            "firstName" TEXT,
            "lastName" TEXT,
            phone TEXT,
            role TEXT NOT NULL DEFAULT 'customer',
            "storeId" INT,
            "createdAt" TEXT,
            "updatedAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS stores (
            "storeId" SERIAL PRIMARY KEY,
            "storeName" TEXT NOT NULL,
            description TEXT,
            "imageUrl" TEXT,
            "ownerUserId" INT,
            "createdAt" TEXT,
            "updatedAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS catalogs (
            "catalogId" SERIAL PRIMARY KEY,
            "storeId" INT NOT NULL,
            "catalogName" TEXT,
            ord INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            "productID" SERIAL PRIMARY KEY,
            "storeID" INT NOT NULL,
            "productName" TEXT,
            "productPrice" NUMERIC NOT NULL DEFAULT 0,
            "productDesc" TEXT,
            "productImg" TEXT,
            "catalogId" INT,
            "createdAt" TEXT,
            "updatedAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS carts (
            "cartId" SERIAL PRIMARY KEY,
            "userId" INT,
            "guestSession" TEXT,
            "expiresAt" TEXT,
            "createdAt" TEXT,
            "updatedAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS cart_items (
            "itemId" SERIAL PRIMARY KEY,
            "cartId" INT NOT NULL,
            "productId" INT NOT NULL,
            "storeId" INT NOT NULL,
            quantity INT NOT NULL,
            "catalogId" INT,
            "addedAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            "orderID" SERIAL PRIMARY KEY,
            "orderName" TEXT,
            "userId" INT NOT NULL,
            "storeId" INT NOT NULL,
            "driverId" INT,
            items JSONB NOT NULL DEFAULT '[]',
            status TEXT NOT NULL,
            "isTakeout" BOOLEAN NOT NULL DEFAULT FALSE,
            "addressId" INT,
            "deliveryFee" NUMERIC NOT NULL DEFAULT 0,
            "totalAmount" NUMERIC NOT NULL DEFAULT 0,
            paid BOOLEAN NOT NULL DEFAULT FALSE,
            "prepareMinutes" INT NOT NULL DEFAULT 0,
            "pickupMinutes" INT NOT NULL DEFAULT 0,
            "deliverMinutes" INT NOT NULL DEFAULT 0,
            "prepareProgress" INT NOT NULL DEFAULT 0,
            "pickupProgress" INT NOT NULL DEFAULT 0,
            "deliverProgress" INT NOT NULL DEFAULT 0,
            feedback JSONB,
            "placedAt" TEXT,
            "acceptedAt" TEXT,
            "preparedAt" TEXT,
            "pickedUpAt" TEXT,
            "deliveredAt" TEXT,
            "receivedAt" TEXT,
            "createdAt" TEXT,
            "updatedAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS follows (
            "userId" INT NOT NULL,
            "storeId" INT NOT NULL,
            "createdAt" TEXT,
            PRIMARY KEY ("userId", "storeId")
        )`,
		`CREATE TABLE IF NOT EXISTS messages (
            "messageId" SERIAL PRIMARY KEY,
            "fromUserId" INT NOT NULL,
            "toUserId" INT NOT NULL,
            "orderId" INT,
            body TEXT,
            read BOOLEAN NOT NULL DEFAULT FALSE,
            "createdAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS addresses (
            "addressId" SERIAL PRIMARY KEY,
            "userId" INT NOT NULL,
            label TEXT,
            detail TEXT,
            phone TEXT,
            "createdAt" TEXT,
            "updatedAt" TEXT
        )`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
