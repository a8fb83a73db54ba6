package model

import "time"

// CartItem mirrors the `cart_items` table. The (user_id, product_id) pair is
// unique; adding an already-present product increments quantity instead of
// inserting a second row.
type CartItem struct {
    ID        string    // cart_items.id
    UserID    string    // cart_items.user_id
    ProductID string    // cart_items.product_id
    Quantity  int64     // cart_items.quantity
    CreatedAt time.Time // cart_items.created_at
    UpdatedAt time.Time // cart_items.updated_at
}
