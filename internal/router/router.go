// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/PabloRelojeroo/slinkhard/internal/config"
	"github.com/PabloRelojeroo/slinkhard/internal/handler"
	"github.com/PabloRelojeroo/slinkhard/internal/middleware"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Auth         *handler.AuthHandler
	Catalog      *handler.CatalogHandler
	AdminCatalog *handler.AdminCatalogHandler
	Cart         *handler.CartHandler
	Orders       *handler.OrderHandler
	Payments     *handler.PaymentHandler
}

// Register wires all routes onto the Echo instance. Public catalog routes
// get the Redis response cache; everything gets the rate limiter. The
// webhook receiver stays outside all auth middleware because the gateway
// calls it unauthenticated.
func Register(e *echo.Echo, h Handlers, auth *middleware.Authenticator, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	e.Use(limiter)

	e.GET("/healthz", handler.Health)

	// auth
	a := e.Group("/v1/auth")
	a.POST("/register", h.Auth.Register)
	a.POST("/login", h.Auth.Login)
	a.POST("/logout", h.Auth.Logout)

	// public catalog, cached; Optional resolves a principal when a token is
	// present but never rejects anonymous browsing
	pub := e.Group("/v1", auth.Optional(), cache)
	pub.GET("/products", h.Catalog.ListProducts)
	pub.GET("/products/:id", h.Catalog.GetProduct)
	pub.GET("/categories", h.Catalog.ListCategories)
	pub.GET("/categories/:slug", h.Catalog.GetCategory)

	// payment gateway surface: webhook is public, methods list too
	e.POST("/v1/payments/webhook", h.Payments.Webhook)
	e.GET("/v1/payments/methods", h.Payments.Methods)

	// protected routes: token + live session required
	priv := e.Group("/v1", auth.Require())
	priv.GET("/profile", h.Auth.Profile)
	priv.POST("/change-password", h.Auth.ChangePassword)

	priv.GET("/cart", h.Cart.Get)
	priv.POST("/cart", h.Cart.Add)
	priv.PUT("/cart", h.Cart.Update)
	priv.DELETE("/cart", h.Cart.Clear)
	priv.DELETE("/cart/:productId", h.Cart.Remove)

	priv.POST("/orders", h.Orders.Create)
	priv.GET("/orders", h.Orders.List)
	priv.GET("/orders/:id", h.Orders.Get)

	priv.POST("/orders/:id/payment-preference", h.Payments.CreatePreference)
	priv.GET("/orders/:id/payment", h.Payments.Status)
	priv.POST("/orders/:id/payments/manual", h.Payments.SubmitManual)

	// admin-only catalog mutations
	admin := e.Group("/v1/admin", auth.Require(), middleware.RequireAdmin())
	admin.POST("/products", h.AdminCatalog.CreateProduct)
	admin.PATCH("/products/:id", h.AdminCatalog.UpdateProduct)
	admin.DELETE("/products/:id", h.AdminCatalog.DeleteProduct)
	admin.POST("/categories", h.AdminCatalog.CreateCategory)
	admin.DELETE("/categories/:id", h.AdminCatalog.DeleteCategory)
}
