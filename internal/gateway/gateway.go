// Package gateway wraps the hosted-checkout payment provider. The rest of
// the application talks to the Client interface so the HTTP implementation
// can be swapped for a fake in tests.
package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// PreferenceItem describes one order line inside a checkout preference.
type PreferenceItem struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Currency  string          `json:"currency_id"`
}

// PreferenceRequest is the payload sent to the provider to create a hosted
// payment page. ExternalReference carries our order id so webhook
// notifications can be traced back to the order.
type PreferenceRequest struct {
	Items             []PreferenceItem `json:"items"`
	PayerName         string           `json:"payer_name"`
	PayerEmail        string           `json:"payer_email"`
	ExternalReference string           `json:"external_reference"`
	SuccessURL        string           `json:"success_url"`
	FailureURL        string           `json:"failure_url"`
	PendingURL        string           `json:"pending_url"`
	NotificationURL   string           `json:"notification_url"`
	ExpiresInMinutes  int              `json:"expires_in_minutes"`
}

// Preference is the provider's answer: the preference id our payment row
// stores as external id, and the URLs the buyer is redirected to.
type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// PaymentInfo is the authoritative state of a payment as reported by the
// provider. Status uses the provider's vocabulary (approved, rejected,
// cancelled, pending, in_process...). ExternalReference echoes the order id
// that was set on the preference. Raw holds the provider payload verbatim.
type PaymentInfo struct {
	ID                string
	Status            string
	ExternalReference string
	Raw               string
}

// Client is the provider contract the workflow depends on.
type Client interface {
	// CreatePreference registers a cart with the provider and returns the
	// hosted payment page reference.
	CreatePreference(ctx context.Context, req PreferenceRequest) (Preference, error)
	// GetPayment re-fetches a payment by provider id. Webhook payloads are
	// hints only; this call is the source of truth.
	GetPayment(ctx context.Context, paymentID string) (PaymentInfo, error)
}
