package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/PabloRelojeroo/slinkhard/internal/repository"
)

// CartHandler serves the authenticated user's cart. The cart holds no
// business rules beyond quantity bookkeeping; checkout happens in the
// order handler.
type CartHandler struct {
	Cart     *repository.CartRepo
	Products *repository.ProductRepo
}

func NewCartHandler(cart *repository.CartRepo, products *repository.ProductRepo) *CartHandler {
	return &CartHandler{Cart: cart, Products: products}
}

type cartMutationReq struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// Get handles GET /v1/cart. It returns the cart lines with joined product
// data plus the running subtotal.
func (h *CartHandler) Get(c echo.Context) error {
	p, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	lines, err := h.Cart.ListByUser(c.Request().Context(), p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": lines, "subtotal": subtotal})
}

// Add handles POST /v1/cart. Adding a product already in the cart
// increments the existing line's quantity.
func (h *CartHandler) Add(c echo.Context) error {
	p, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req cartMutationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and positive quantity required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Products.GetByID(ctx, req.ProductID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Cart.Add(ctx, p.ID, req.ProductID, req.Quantity); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add to cart failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Update handles PUT /v1/cart. It sets an absolute quantity on an existing
// line; a quantity of zero removes the line.
func (h *CartHandler) Update(c echo.Context) error {
	p, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req cartMutationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ProductID == "" || req.Quantity < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and non-negative quantity required"})
	}
	ctx := c.Request().Context()
	if req.Quantity == 0 {
		err = h.Cart.Remove(ctx, p.ID, req.ProductID)
	} else {
		err = h.Cart.UpdateQuantity(ctx, p.ID, req.ProductID, req.Quantity)
	}
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update cart failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Remove handles DELETE /v1/cart/:productId.
func (h *CartHandler) Remove(c echo.Context) error {
	p, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Cart.Remove(c.Request().Context(), p.ID, c.Param("productId")); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cart item not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove from cart failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear handles DELETE /v1/cart.
func (h *CartHandler) Clear(c echo.Context) error {
	p, err := currentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Cart.Clear(c.Request().Context(), p.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear cart failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
