package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartRepo struct{ DB *sql.DB }

func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{DB: db} }

// CartLine is a cart item joined with the current product data the
// storefront needs to render the cart.
type CartLine struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int64           `json:"quantity"`
	Stock        int64           `json:"stock"`
	Status       string          `json:"status"`
	Image        *string         `json:"image,omitempty"`
}

// ListByUser returns the user's cart with product name, current price and
// availability joined in.
func (r *CartRepo) ListByUser(ctx context.Context, userID string) ([]CartLine, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT ci.id, ci.product_id, p.name, p.price, ci.quantity, p.stock, p.status, p.image
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_id = ?
		 ORDER BY ci.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []CartLine{}
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.ID, &l.ProductID, &l.ProductName, &l.UnitPrice,
			&l.Quantity, &l.Stock, &l.Status, &l.Image); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Add upserts a cart line. The UNIQUE(user_id, product_id) key makes a
// repeated add increment the existing quantity instead of inserting a
// duplicate row.
func (r *CartRepo) Add(ctx context.Context, userID, productID string, qty int64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO cart_items (id, user_id, product_id, quantity) VALUES (?,?,?,?)
		 ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		uuid.NewString(), userID, productID, qty)
	return err
}

// UpdateQuantity sets an absolute quantity on an existing line.
func (r *CartRepo) UpdateQuantity(ctx context.Context, userID, productID string, qty int64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cart_items SET quantity=? WHERE user_id=? AND product_id=?",
		qty, userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes a single line from the user's cart.
func (r *CartRepo) Remove(ctx context.Context, userID, productID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_id=? AND product_id=?", userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear empties the user's cart.
func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", userID)
	return err
}

// ClearTx empties the user's cart inside an existing transaction. Used at
// checkout so the order insert and the cart wipe commit together.
func (r *CartRepo) ClearTx(ctx context.Context, tx *sql.Tx, userID string) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id=?", userID)
	return err
}
