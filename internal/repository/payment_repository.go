package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/PabloRelojeroo/slinkhard/internal/model"
)

// PaymentRepo persists payment attempts. An order can accumulate several
// rows across retries; status updates mutate rows in place as gateway
// notifications arrive.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

const paymentColumns = "id,order_id,method,amount,currency,status,external_id,raw_response,created_at,updated_at"

// Create inserts a payment row and returns its id.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO payments (id, order_id, method, amount, currency, status, external_id, raw_response)
		 VALUES (?,?,?,?,?,?,?,?)`,
		id, p.OrderID, p.Method, p.Amount, p.Currency, p.Status, p.ExternalID, p.RawResponse)
	if err != nil {
		return "", err
	}
	return id, nil
}

// LatestByOrder returns the most recent payment for an order.
func (r *PaymentRepo) LatestByOrder(ctx context.Context, orderID string) (model.Payment, error) {
	p, err := scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE order_id=? ORDER BY created_at DESC, id DESC LIMIT 1",
		orderID))
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrNotFound
	}
	return p, err
}

// LatestByOrderTx locks and returns the most recent payment row for an
// order inside the caller's transaction. The webhook handler updates this
// row with the authoritative gateway status.
func (r *PaymentRepo) LatestByOrderTx(ctx context.Context, tx *sql.Tx, orderID string) (model.Payment, error) {
	p, err := scanPayment(tx.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE order_id=? ORDER BY created_at DESC, id DESC LIMIT 1 FOR UPDATE",
		orderID))
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrNotFound
	}
	return p, err
}

// UpdateStatusTx rewrites a payment's status and stores the raw gateway
// payload for audit, within the caller's transaction.
func (r *PaymentRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, paymentID, status, raw string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE payments SET status=?, raw_response=? WHERE id=?", status, raw, paymentID)
	return err
}

func scanPayment(row *sql.Row) (model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Method, &p.Amount, &p.Currency,
		&p.Status, &p.ExternalID, &p.RawResponse, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
