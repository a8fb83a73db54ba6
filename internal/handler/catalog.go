// Package handler exposes HTTP handlers for both authenticated and public
// endpoints. This file defines the public catalog API: product listing with
// filters and pagination, single-product lookup and category listing. None
// of these routes require authentication.
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/PabloRelojeroo/slinkhard/internal/model"
	"github.com/PabloRelojeroo/slinkhard/internal/repository"
)

// CatalogHandler aggregates the repositories backing catalog browsing.
type CatalogHandler struct {
	Products   *repository.ProductRepo
	Categories *repository.CategoryRepo
}

func NewCatalogHandler(p *repository.ProductRepo, cat *repository.CategoryRepo) *CatalogHandler {
	return &CatalogHandler{Products: p, Categories: cat}
}

// productView is the public product shape. Price is serialized as a string
// to keep the fixed-point representation exact.
type productView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	CategoryID  *string          `json:"category_id,omitempty"`
	Status      string           `json:"status"`
	Kind        string           `json:"kind"`
	Stock       int64            `json:"stock"`
	SKU         *string          `json:"sku,omitempty"`
	Weight      *decimal.Decimal `json:"weight,omitempty"`
	Dimensions  *string          `json:"dimensions,omitempty"`
	Featured    bool             `json:"featured"`
	Image       *string          `json:"image,omitempty"`
}

func toProductView(p model.Product) productView {
	return productView{
		ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price,
		CategoryID: p.CategoryID, Status: p.Status, Kind: p.Kind, Stock: p.Stock,
		SKU: p.SKU, Weight: p.Weight, Dimensions: p.Dimensions,
		Featured: p.Featured, Image: p.Image,
	}
}

// ListProducts handles GET /v1/products. Supported query parameters:
// category (slug), kind, featured, search, sort_by, sort_dir, page, limit.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	q := repository.ProductQuery{
		CategorySlug: c.QueryParam("category"),
		Kind:         c.QueryParam("kind"),
		Search:       c.QueryParam("search"),
		SortBy:       c.QueryParam("sort_by"),
		SortDir:      c.QueryParam("sort_dir"),
	}
	if f := c.QueryParam("featured"); f != "" {
		b := strings.EqualFold(f, "true") || f == "1"
		q.Featured = &b
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}

	products, total, err := h.Products.Search(c.Request().Context(), q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items := make([]productView, 0, len(products))
	for _, p := range products {
		items = append(items, toProductView(p))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":    items,
		"total":    total,
		"page":     q.Page,
		"limit":    q.Limit,
		"has_next": int64(q.Page*q.Limit) < total,
		"has_prev": q.Page > 1,
	})
}

// GetProduct handles GET /v1/products/:id.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	p, err := h.Products.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toProductView(p))
}

// GetCategory handles GET /v1/categories/:slug.
func (h *CatalogHandler) GetCategory(c echo.Context) error {
	cat, err := h.Categories.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": cat.ID, "name": cat.Name, "slug": cat.Slug})
}

// ListCategories handles GET /v1/categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cats, err := h.Categories.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(cats))
	for _, cat := range cats {
		out = append(out, echo.Map{"id": cat.ID, "name": cat.Name, "slug": cat.Slug})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
