package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PabloRelojeroo/slinkhard/internal/model"
)

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

const productColumns = "id,name,description,price,category_id,status,kind,stock,sku,weight,dimensions,featured,image,created_at,updated_at"

// ProductPatch enumerates exactly the mutable product fields. A nil field
// leaves the corresponding column untouched; handlers reject unknown JSON
// keys before a patch reaches the repository, so no column outside this
// list can ever be rewritten.
type ProductPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"category_id"`
	Status      *string          `json:"status"`
	Kind        *string          `json:"kind"`
	Stock       *int64           `json:"stock"`
	SKU         *string          `json:"sku"`
	Weight      *decimal.Decimal `json:"weight"`
	Dimensions  *string          `json:"dimensions"`
	Featured    *bool            `json:"featured"`
	Image       *string          `json:"image"`
}

// Create inserts a product and returns its id. A SKU collision surfaces as
// ErrDuplicateSKU since the only unique key on products is the SKU.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, category_id, status, kind, stock, sku, weight, dimensions, featured, image)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, p.Name, p.Description, p.Price, p.CategoryID, p.Status, p.Kind,
		p.Stock, p.SKU, p.Weight, p.Dimensions, p.Featured, p.Image)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return "", ErrDuplicateSKU
		}
		return "", err
	}
	return id, nil
}

// GetByID fetches a single product.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (model.Product, error) {
	p, err := scanProduct(r.DB.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// Update applies a sparse patch, rewriting only the columns whose patch
// fields are non-nil. Updating nothing is a no-op, not an error.
func (r *ProductRepo) Update(ctx context.Context, id string, patch ProductPatch) error {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.CategoryID != nil {
		add("category_id", *patch.CategoryID)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Kind != nil {
		add("kind", *patch.Kind)
	}
	if patch.Stock != nil {
		add("stock", *patch.Stock)
	}
	if patch.SKU != nil {
		add("sku", *patch.SKU)
	}
	if patch.Weight != nil {
		add("weight", *patch.Weight)
	}
	if patch.Dimensions != nil {
		add("dimensions", *patch.Dimensions)
	}
	if patch.Featured != nil {
		add("featured", *patch.Featured)
	}
	if patch.Image != nil {
		add("image", *patch.Image)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE products SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateSKU
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// distinguish a missing row from an update that changed nothing
		var exists int
		switch err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM products WHERE id=? LIMIT 1", id).Scan(&exists); err {
		case nil:
		case sql.ErrNoRows:
			return ErrNotFound
		default:
			return err
		}
	}
	return nil
}

// Delete removes a product and returns the image path that was associated
// with it so the caller can best-effort remove the uploaded file.
func (r *ProductRepo) Delete(ctx context.Context, id string) (*string, error) {
	var image *string
	err := r.DB.QueryRowContext(ctx,
		"SELECT image FROM products WHERE id=? LIMIT 1", id).Scan(&image)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id=?", id); err != nil {
		return nil, err
	}
	return image, nil
}

// SaleOutcome computes the stock and status a product lands in after an
// approved sale of qty units. Unique-kind items are removed from sale
// outright regardless of the ordered quantity; everything else decrements
// floored at zero.
func SaleOutcome(kind string, stock, qty int64) (int64, string) {
	if kind == model.KindUnique {
		return 0, model.ProductOutOfStock
	}
	left := stock - qty
	if left <= 0 {
		return 0, model.ProductOutOfStock
	}
	return left, model.ProductAvailable
}

// ApplySaleTx locks a product row, applies SaleOutcome for the ordered
// quantity and writes the result back, all within the caller's transaction.
func (r *ProductRepo) ApplySaleTx(ctx context.Context, tx *sql.Tx, productID string, qty int64) error {
	var kind string
	var stock int64
	err := tx.QueryRowContext(ctx,
		"SELECT kind, stock FROM products WHERE id=? FOR UPDATE", productID).
		Scan(&kind, &stock)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	newStock, newStatus := SaleOutcome(kind, stock, qty)
	_, err = tx.ExecContext(ctx,
		"UPDATE products SET stock=?, status=? WHERE id=?", newStock, newStatus, productID)
	return err
}

func scanProduct(row *sql.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID,
		&p.Status, &p.Kind, &p.Stock, &p.SKU, &p.Weight, &p.Dimensions,
		&p.Featured, &p.Image, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
