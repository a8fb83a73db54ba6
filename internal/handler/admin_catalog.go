package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/PabloRelojeroo/slinkhard/internal/model"
	"github.com/PabloRelojeroo/slinkhard/internal/repository"
)

// AdminCatalogHandler groups the admin-only catalog mutations. Routes using
// it are wrapped in RequireAdmin by the router.
type AdminCatalogHandler struct {
	Products   *repository.ProductRepo
	Categories *repository.CategoryRepo
	UploadDir  string
}

func NewAdminCatalogHandler(p *repository.ProductRepo, cat *repository.CategoryRepo, uploadDir string) *AdminCatalogHandler {
	return &AdminCatalogHandler{Products: p, Categories: cat, UploadDir: uploadDir}
}

type createProductReq struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	CategoryID  *string          `json:"category_id"`
	Status      string           `json:"status"`
	Kind        string           `json:"kind"`
	Stock       int64            `json:"stock"`
	SKU         *string          `json:"sku"`
	Weight      *decimal.Decimal `json:"weight"`
	Dimensions  *string          `json:"dimensions"`
	Featured    bool             `json:"featured"`
	Image       *string          `json:"image"`
}

var validStatus = map[string]bool{
	model.ProductAvailable:    true,
	model.ProductOutOfStock:   true,
	model.ProductDiscontinued: true,
}

var validKind = map[string]bool{
	model.KindNormal: true,
	model.KindOffer:  true,
	model.KindNew:    true,
	model.KindUsed:   true,
	model.KindUnique: true,
}

// CreateProduct handles POST /v1/admin/products.
func (h *AdminCatalogHandler) CreateProduct(c echo.Context) error {
	var req createProductReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	if req.Price.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}
	if req.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock must not be negative"})
	}
	if req.Status == "" {
		req.Status = model.ProductAvailable
	}
	if req.Kind == "" {
		req.Kind = model.KindNormal
	}
	if !validStatus[req.Status] || !validKind[req.Kind] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status or kind"})
	}

	p := model.Product{
		Name: req.Name, Description: req.Description, Price: req.Price,
		CategoryID: req.CategoryID, Status: req.Status, Kind: req.Kind,
		Stock: req.Stock, SKU: req.SKU, Weight: req.Weight,
		Dimensions: req.Dimensions, Featured: req.Featured, Image: req.Image,
	}
	id, err := h.Products.Create(c.Request().Context(), &p)
	if err != nil {
		if err == repository.ErrDuplicateSKU {
			return c.JSON(http.StatusConflict, echo.Map{"error": "sku already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create product failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateProduct handles PATCH /v1/admin/products/:id. The body is decoded
// with DisallowUnknownFields so a typo'd or unexpected key is rejected
// instead of silently ignored; only the enumerated ProductPatch fields can
// reach the database.
func (h *AdminCatalogHandler) UpdateProduct(c echo.Context) error {
	var patch repository.ProductPatch
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stock must not be negative"})
	}
	if patch.Status != nil && !validStatus[*patch.Status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if patch.Kind != nil && !validKind[*patch.Kind] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid kind"})
	}

	err := h.Products.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		case repository.ErrDuplicateSKU:
			return c.JSON(http.StatusConflict, echo.Map{"error": "sku already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update product failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteProduct handles DELETE /v1/admin/products/:id. The uploaded image,
// if any, is removed best-effort: a failure is logged but never fails the
// request.
func (h *AdminCatalogHandler) DeleteProduct(c echo.Context) error {
	image, err := h.Products.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete product failed"})
	}
	if image != nil && *image != "" {
		path := filepath.Join(h.UploadDir, filepath.Base(*image))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("catalog: could not remove image %s: %v", path, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateCategory handles POST /v1/admin/categories.
func (h *AdminCatalogHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	if req.Name == "" || req.Slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/slug required"})
	}
	id, err := h.Categories.Create(c.Request().Context(), req.Name, req.Slug)
	if err != nil {
		if err == repository.ErrCategoryExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create category failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// DeleteCategory handles DELETE /v1/admin/categories/:id. Referencing
// products are detached by the schema, not deleted.
func (h *AdminCatalogHandler) DeleteCategory(c echo.Context) error {
	if err := h.Categories.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete category failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
