package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Product status values stored in products.status.
const (
    ProductAvailable    = "available"
    ProductOutOfStock   = "out_of_stock"
    ProductDiscontinued = "discontinued"
)

// Product kind values stored in products.kind. KindUnique marks items with
// exactly one sellable unit: a sale removes them from the catalog instead of
// decrementing a counter.
const (
    KindNormal = "normal"
    KindOffer  = "offer"
    KindNew    = "new"
    KindUsed   = "used"
    KindUnique = "unique"
)

// Category mirrors the `categories` table. Products reference a category
// through a nullable foreign key; deleting a category detaches its products.
type Category struct {
    ID        string    // categories.id
    Name      string    // categories.name
    Slug      string    // categories.slug
    CreatedAt time.Time // categories.created_at
}

// Product mirrors the `products` table.
//
// Fields:
//  Price      – fixed-point currency, never negative.
//  CategoryID – nullable reference into categories.
//  Status     – available / out_of_stock / discontinued.
//  Kind       – normal / offer / new / used / unique.
//  Stock      – non-negative unit count; forced to 0 when a unique item sells.
//  SKU        – nullable but unique when present.
//  Image      – relative path of the uploaded image, if any.
type Product struct {
    ID          string          // products.id
    Name        string          // products.name
    Description *string         // products.description (nullable)
    Price       decimal.Decimal // products.price
    CategoryID  *string         // products.category_id (nullable)
    Status      string          // products.status
    Kind        string          // products.kind
    Stock       int64           // products.stock
    SKU         *string         // products.sku (nullable)
    Weight      *decimal.Decimal // products.weight (nullable)
    Dimensions  *string         // products.dimensions (nullable)
    Featured    bool            // products.featured
    Image       *string         // products.image (nullable)
    CreatedAt   time.Time       // products.created_at
    UpdatedAt   time.Time       // products.updated_at
}
