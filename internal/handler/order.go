package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/PabloRelojeroo/slinkhard/internal/model"
	"github.com/PabloRelojeroo/slinkhard/internal/repository"
)

// OrderHandler creates and lists orders. Creation snapshots current
// product prices into immutable line items and runs as one transaction
// together with the cart wipe. Stock is not validated or reserved here;
// it is decremented when a payment is approved.
type OrderHandler struct {
	Orders   *repository.OrderRepo
	Products *repository.ProductRepo
	Cart     *repository.CartRepo
}

func NewOrderHandler(o *repository.OrderRepo, p *repository.ProductRepo, cart *repository.CartRepo) *OrderHandler {
	if o == nil || p == nil || cart == nil {
		panic("nil repository passed to NewOrderHandler")
	}
	return &OrderHandler{Orders: o, Products: p, Cart: cart}
}

type orderLineReq struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type createOrderReq struct {
	Items           []orderLineReq `json:"items"`
	ShippingAddress string         `json:"shipping_address"`
	PaymentMethod   *string        `json:"payment_method"`
	Notes           *string        `json:"notes"`
}

// buildOrderLines snapshots each requested line against current product
// data and returns the items plus the order total. The total is by
// construction the sum of the line totals.
func buildOrderLines(products map[string]model.Product, reqs []orderLineReq) ([]model.OrderItem, decimal.Decimal) {
	items := make([]model.OrderItem, 0, len(reqs))
	total := decimal.Zero
	for _, r := range reqs {
		p := products[r.ProductID]
		line := p.Price.Mul(decimal.NewFromInt(r.Quantity))
		items = append(items, model.OrderItem{
			ProductID: r.ProductID,
			Quantity:  r.Quantity,
			UnitPrice: p.Price,
			LineTotal: line,
		})
		total = total.Add(line)
	}
	return items, total
}

// Create handles POST /v1/orders. When the body carries no explicit items
// the user's cart contents are used. Order and items are inserted in one
// transaction; when checking out from the cart the cart wipe joins the
// same transaction.
func (h *OrderHandler) Create(c echo.Context) error {
	principal, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ShippingAddress == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "shipping_address required"})
	}

	ctx := c.Request().Context()
	fromCart := len(req.Items) == 0
	if fromCart {
		lines, err := h.Cart.ListByUser(ctx, principal.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		for _, l := range lines {
			req.Items = append(req.Items, orderLineReq{ProductID: l.ProductID, Quantity: l.Quantity})
		}
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order has no items"})
	}
	for _, it := range req.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each item needs product_id and positive quantity"})
		}
	}

	products, err := h.loadProducts(ctx, req.Items)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "order references unknown product"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	items, total := buildOrderLines(products, req.Items)
	order := model.Order{
		UserID:          principal.ID,
		Status:          model.OrderPending,
		Total:           total,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	}

	tx, err := h.Orders.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Orders.CreateTx(ctx, tx, &order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := h.Orders.CreateItemsBulkTx(ctx, tx, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order items failed"})
	}
	if fromCart {
		if err := h.Cart.ClearTx(ctx, tx, principal.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear cart failed"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"id":     order.ID,
		"status": order.Status,
		"total":  order.Total,
	})
}

// List handles GET /v1/orders for the authenticated user.
func (h *OrderHandler) List(c echo.Context) error {
	principal, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orders, err := h.Orders.ListByUser(c.Request().Context(), principal.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": orders})
}

// Get handles GET /v1/orders/:id, scoped to the owning user, with line
// items included.
func (h *OrderHandler) Get(c echo.Context) error {
	principal, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	order, err := h.Orders.GetByIDForUser(ctx, c.Param("id"), principal.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.Orders.Items(ctx, order.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"order": order, "items": items})
}

func (h *OrderHandler) loadProducts(ctx context.Context, reqs []orderLineReq) (map[string]model.Product, error) {
	out := make(map[string]model.Product, len(reqs))
	for _, r := range reqs {
		if _, ok := out[r.ProductID]; ok {
			continue
		}
		p, err := h.Products.GetByID(ctx, r.ProductID)
		if err != nil {
			return nil, err
		}
		out[r.ProductID] = p
	}
	return out, nil
}
