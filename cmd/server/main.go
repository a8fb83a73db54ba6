package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/PabloRelojeroo/slinkhard/internal/config"
	"github.com/PabloRelojeroo/slinkhard/internal/database"
	"github.com/PabloRelojeroo/slinkhard/internal/gateway"
	"github.com/PabloRelojeroo/slinkhard/internal/handler"
	"github.com/PabloRelojeroo/slinkhard/internal/middleware"
	"github.com/PabloRelojeroo/slinkhard/internal/queue"
	"github.com/PabloRelojeroo/slinkhard/internal/repository"
	"github.com/PabloRelojeroo/slinkhard/internal/router"
	queue_publisher "github.com/PabloRelojeroo/slinkhard/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set env vars
	cfg := config.Load()

	db, err := database.Open(database.Params{
		User: cfg.DBUser, Pass: cfg.DBPass,
		Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
		MaxConns:        cfg.DBMaxConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables rate limiting and caching
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	categories := repository.NewCategoryRepo(db)
	products := repository.NewProductRepo(db)
	cart := repository.NewCartRepo(db)
	orders := repository.NewOrderRepo(db)
	payments := repository.NewPaymentRepo(db)

	gw := gateway.NewHTTPClient(cfg.GatewayBaseURL, cfg.GatewayToken)
	auth := middleware.NewAuthenticator(cfg.JWTSecret, sessions, users)

	paymentsHandler := handler.NewPaymentHandler(cfg, orders, payments, products, gw)
	paymentsHandler.PublishPaid = func(ctx context.Context, evt queue.OrderPaidEvent) {
		_ = queue_publisher.PublishOrderPaid(ctx, evt)
	}

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, sessions),
		Catalog:      handler.NewCatalogHandler(products, categories),
		AdminCatalog: handler.NewAdminCatalogHandler(products, categories, cfg.UploadDir),
		Cart:         handler.NewCartHandler(cart, products),
		Orders:       handler.NewOrderHandler(orders, products, cart),
		Payments:     paymentsHandler,
	}

	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, h, auth, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
