package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Payment status values. Rejected and cancelled are both terminal failures
// as far as the order workflow is concerned.
const (
    PaymentPending   = "pending"
    PaymentApproved  = "approved"
    PaymentRejected  = "rejected"
    PaymentCancelled = "cancelled"
)

// Payment method identifiers accepted by the API.
const (
    MethodGateway  = "gateway"
    MethodTransfer = "transfer"
    MethodCash     = "cash"
)

// Payment mirrors the `payments` table. An order can accumulate several
// payment rows across retries; ExternalID links a row to the gateway
// preference it was created for, and RawResponse keeps the gateway payload
// verbatim for audit.
type Payment struct {
    ID          string          // payments.id
    OrderID     string          // payments.order_id
    Method      string          // payments.method
    Amount      decimal.Decimal // payments.amount
    Currency    string          // payments.currency
    Status      string          // payments.status
    ExternalID  *string         // payments.external_id (nullable)
    RawResponse *string         // payments.raw_response (nullable)
    CreatedAt   time.Time       // payments.created_at
    UpdatedAt   time.Time       // payments.updated_at
}
