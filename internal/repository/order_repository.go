package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/PabloRelojeroo/slinkhard/internal/model"
)

// OrderRepo provides persistence for orders and their line items. Orders
// and items are only ever created together inside a transaction; afterwards
// the structure is immutable and only status fields change.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderColumns = "id,user_id,status,total,shipping_address,payment_method,gateway_payment_id,tracking_number,notes,created_at,updated_at"

// CreateTx inserts a new order within the scope of an existing transaction.
// It assigns the generated id on the provided record. The caller must
// commit or rollback the transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *model.Order) error {
	o.ID = uuid.NewString()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, status, total, shipping_address, payment_method, notes)
		 VALUES (?,?,?,?,?,?,?)`,
		o.ID, o.UserID, o.Status, o.Total, o.ShippingAddress, o.PaymentMethod, o.Notes)
	return err
}

// CreateItemsBulkTx inserts all line items for an order in one statement.
// Passing an empty slice has no effect and returns nil.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, line_total) VALUES `
	args := make([]any, 0, len(items)*6)
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,?,?)"
		args = append(args, items[i].ID, items[i].OrderID, items[i].ProductID,
			items[i].Quantity, items[i].UnitPrice, items[i].LineTotal)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByIDForUser returns a single order scoped to its owner. A foreign
// order is indistinguishable from a missing one: both yield ErrNotFound.
func (r *OrderRepo) GetByIDForUser(ctx context.Context, orderID, userID string) (model.Order, error) {
	o, err := scanOrder(r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=? AND user_id=? LIMIT 1",
		orderID, userID))
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	return o, err
}

// ListByUser returns all of a user's orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.ShippingAddress,
			&o.PaymentMethod, &o.GatewayPaymentID, &o.TrackingNumber, &o.Notes,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Items returns the line items of an order.
func (r *OrderRepo) Items(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price, line_total
		 FROM order_items WHERE order_id=?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

// ItemsTx is Items inside an existing transaction, used during webhook
// reconciliation so the item set is read under the same snapshot that the
// stock updates write into.
func (r *OrderRepo) ItemsTx(ctx context.Context, tx *sql.Tx, orderID string) ([]model.OrderItem, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price, line_total
		 FROM order_items WHERE order_id=?`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

// GetForUpdateTx locks an order row and returns it. Concurrent webhook
// deliveries for the same order serialize on this lock.
func (r *OrderRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, orderID string) (model.Order, error) {
	o, err := scanOrder(tx.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=? FOR UPDATE", orderID))
	if err == sql.ErrNoRows {
		return model.Order{}, ErrNotFound
	}
	return o, err
}

// UpdateStatusTx writes the order's derived status and, when present, the
// gateway payment id, within the caller's transaction.
func (r *OrderRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, orderID, status string, gatewayPaymentID *string) error {
	if gatewayPaymentID != nil {
		_, err := tx.ExecContext(ctx,
			"UPDATE orders SET status=?, gateway_payment_id=? WHERE id=?",
			status, *gatewayPaymentID, orderID)
		return err
	}
	_, err := tx.ExecContext(ctx, "UPDATE orders SET status=? WHERE id=?", status, orderID)
	return err
}

func scanOrder(row *sql.Row) (model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.ShippingAddress,
		&o.PaymentMethod, &o.GatewayPaymentID, &o.TrackingNumber, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func collectItems(rows *sql.Rows) ([]model.OrderItem, error) {
	out := []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity,
			&it.UnitPrice, &it.LineTotal); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
