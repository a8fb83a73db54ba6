package repository

import (
	"context"
	"strings"

	"github.com/PabloRelojeroo/slinkhard/internal/model"
)

// ProductQuery defines filters & pagination for listing products.
type ProductQuery struct {
	CategorySlug string
	Kind         string
	Featured     *bool
	Search       string
	SortBy       string
	SortDir      string
	Page         int
	Limit        int
}

// sortColumns whitelists the columns a listing may be ordered by. Anything
// outside this map falls back to created_at.
var sortColumns = map[string]string{
	"name":       "p.name",
	"price":      "p.price",
	"stock":      "p.stock",
	"created_at": "p.created_at",
	"updated_at": "p.updated_at",
}

// OrderClause resolves the query's sort column and direction against the
// whitelist. Unknown columns default to created_at, unknown directions to
// descending.
func (q ProductQuery) OrderClause() string {
	col, ok := sortColumns[strings.ToLower(q.SortBy)]
	if !ok {
		col = "p.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(q.SortDir, "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}

// Search lists products matching the query and returns the page plus the
// total match count for pagination flags.
func (r *ProductRepo) Search(ctx context.Context, q ProductQuery) ([]model.Product, int64, error) {
	where := []string{}
	args := []any{}

	if q.CategorySlug != "" {
		where = append(where, "c.slug = ?")
		args = append(args, q.CategorySlug)
	}
	if q.Kind != "" {
		where = append(where, "p.kind = ?")
		args = append(args, q.Kind)
	}
	if q.Featured != nil {
		where = append(where, "p.featured = ?")
		args = append(args, *q.Featured)
	}
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		where = append(where, "(LOWER(p.name) LIKE ? OR LOWER(COALESCE(p.description,'')) LIKE ?)")
		args = append(args, needle, needle)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ` + cond
	if err := r.DB.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	offset := (q.Page - 1) * q.Limit

	dataSQL := `SELECT p.id, p.name, p.description, p.price, p.category_id, p.status, p.kind,
			p.stock, p.sku, p.weight, p.dimensions, p.featured, p.image, p.created_at, p.updated_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ` + cond + `
		ORDER BY ` + q.OrderClause() + `
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), q.Limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Product, 0, q.Limit)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID,
			&p.Status, &p.Kind, &p.Stock, &p.SKU, &p.Weight, &p.Dimensions,
			&p.Featured, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
