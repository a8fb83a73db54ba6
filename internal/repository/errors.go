// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrNotFound covers both a missing row and a row owned by
// another user, so handlers never leak the existence of foreign
// resources, while ErrDuplicateSKU lets the catalog surface a SKU
// collision distinctly from a generic failure.
package repository

import "errors"

// ErrNotFound is returned when a requested entity does not exist or is
// not owned by the caller. Handlers should translate this into an
// HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering an email address that is
// already taken. Handlers should translate this into an HTTP 409
// response.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateSKU is returned when creating or updating a product with
// a SKU that is already assigned to another product.
var ErrDuplicateSKU = errors.New("sku already exists")

// ErrCategoryExists is returned when creating a category whose name or
// slug is already taken.
var ErrCategoryExists = errors.New("category already exists")
