// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPaidEvent is published when a webhook reconciliation transitions an
// order to paid. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type OrderPaidEvent struct {
	OrderID     string `json:"order_id"`
	UserID      string `json:"user_id"`
	PaymentID   string `json:"payment_id"`
	GatewayID   string `json:"gateway_payment_id"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
	ConfirmedAt string `json:"confirmed_at"`
}
