package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	cases := []struct {
		name   string
		sortBy string
		dir    string
		want   string
	}{
		{"defaults", "", "", "p.created_at DESC"},
		{"known column asc", "price", "asc", "p.price ASC"},
		{"known column mixed case", "NAME", "ASC", "p.name ASC"},
		{"unknown column falls back", "password_hash", "asc", "p.created_at ASC"},
		{"injection attempt falls back", "price; DROP TABLE products", "desc", "p.created_at DESC"},
		{"unknown direction defaults to desc", "stock", "sideways", "p.stock DESC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := ProductQuery{SortBy: tc.sortBy, SortDir: tc.dir}
			assert.Equal(t, tc.want, q.OrderClause())
		})
	}
}
