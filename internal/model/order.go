package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Order status values. The progression is pending → paid → shipped →
// delivered, with cancelled reachable from pending via a failed payment.
const (
    OrderPending   = "pending"
    OrderPaid      = "paid"
    OrderShipped   = "shipped"
    OrderDelivered = "delivered"
    OrderCancelled = "cancelled"
)

// Order mirrors the `orders` table. An order and its items are created
// together atomically at checkout and never restructured afterwards; only
// status, tracking and gateway reference fields are mutated.
type Order struct {
    ID               string          // orders.id
    UserID           string          // orders.user_id
    Status           string          // orders.status
    Total            decimal.Decimal // orders.total
    ShippingAddress  string          // orders.shipping_address
    PaymentMethod    *string         // orders.payment_method (nullable)
    GatewayPaymentID *string         // orders.gateway_payment_id (nullable)
    TrackingNumber   *string         // orders.tracking_number (nullable)
    Notes            *string         // orders.notes (nullable)
    CreatedAt        time.Time       // orders.created_at
    UpdatedAt        time.Time       // orders.updated_at
}

// OrderItem mirrors the `order_items` table. UnitPrice and LineTotal are
// captured at order time and stay fixed even if the product price changes.
type OrderItem struct {
    ID        string          // order_items.id
    OrderID   string          // order_items.order_id
    ProductID string          // order_items.product_id
    Quantity  int64           // order_items.quantity
    UnitPrice decimal.Decimal // order_items.unit_price
    LineTotal decimal.Decimal // order_items.line_total
}
