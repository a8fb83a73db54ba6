package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloRelojeroo/slinkhard/internal/model"
	"github.com/PabloRelojeroo/slinkhard/internal/repository"
)

func TestBuildOrderLines_TotalIsSumOfLines(t *testing.T) {
	products := map[string]model.Product{
		"a": {ID: "a", Price: decimal.RequireFromString("10.50")},
		"b": {ID: "b", Price: decimal.RequireFromString("3.00")},
	}
	items, total := buildOrderLines(products, []orderLineReq{
		{ProductID: "a", Quantity: 2},
		{ProductID: "b", Quantity: 3},
	})

	require.Len(t, items, 2)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("10.50")))
	assert.True(t, items[0].LineTotal.Equal(decimal.RequireFromString("21.00")))
	assert.True(t, items[1].LineTotal.Equal(decimal.RequireFromString("9.00")))
	assert.True(t, total.Equal(decimal.RequireFromString("30.00")), "total %s", total)
}

func TestBuildOrderLines_Empty(t *testing.T) {
	items, total := buildOrderLines(nil, nil)
	assert.Empty(t, items)
	assert.True(t, total.IsZero())
}

func newOrderTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("principal", model.Principal{ID: "usr-1", Name: "Test", Email: "t@t.com", Role: model.RoleCustomer})
	return c, rec
}

func newOrderHandlerWithMock(t *testing.T) (*OrderHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	h := NewOrderHandler(repository.NewOrderRepo(db), repository.NewProductRepo(db), repository.NewCartRepo(db))
	return h, mock, func() { db.Close() }
}

func TestOrderCreate_RequiresShippingAddress(t *testing.T) {
	h, _, closeDB := newOrderHandlerWithMock(t)
	defer closeDB()

	c, rec := newOrderTestContext(http.MethodPost, "/v1/orders",
		`{"items":[{"product_id":"a","quantity":1}]}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "shipping_address")
}

func TestOrderCreate_RejectsNonPositiveQuantity(t *testing.T) {
	h, _, closeDB := newOrderHandlerWithMock(t)
	defer closeDB()

	c, rec := newOrderTestContext(http.MethodPost, "/v1/orders",
		`{"shipping_address":"123 Fake St","items":[{"product_id":"a","quantity":0}]}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderCreate_ExplicitItemsCommitAtomically(t *testing.T) {
	h, mock, closeDB := newOrderHandlerWithMock(t)
	defer closeDB()

	now := time.Now()
	productRow := func(id, price string, stock int64) *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"id", "name", "description", "price", "category_id", "status", "kind",
			"stock", "sku", "weight", "dimensions", "featured", "image", "created_at", "updated_at",
		}).AddRow(id, "Product "+id, nil, price, nil, "available", "normal",
			stock, nil, nil, nil, false, nil, now, now)
	}

	mock.ExpectQuery("FROM products WHERE id=\\? LIMIT 1").
		WithArgs("prod-1").
		WillReturnRows(productRow("prod-1", "25.00", 10))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(sqlmock.AnyArg(), "usr-1", model.OrderPending, sqlmock.AnyArg(),
			"123 Fake St", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := newOrderTestContext(http.MethodPost, "/v1/orders",
		`{"shipping_address":"123 Fake St","items":[{"product_id":"prod-1","quantity":2}]}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreate_FromCartWipesCartInSameTx(t *testing.T) {
	h, mock, closeDB := newOrderHandlerWithMock(t)
	defer closeDB()

	now := time.Now()
	mock.ExpectQuery("FROM cart_items ci").
		WithArgs("usr-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "product_id", "name", "price", "quantity", "stock", "status", "image",
		}).AddRow("line-1", "prod-1", "Product", "25.00", 2, 10, "available", nil))

	mock.ExpectQuery("FROM products WHERE id=\\? LIMIT 1").
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "price", "category_id", "status", "kind",
			"stock", "sku", "weight", "dimensions", "featured", "image", "created_at", "updated_at",
		}).AddRow("prod-1", "Product", nil, "25.00", nil, "available", "normal",
			10, nil, nil, nil, false, nil, now, now))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM cart_items WHERE user_id=\\?").
		WithArgs("usr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := newOrderTestContext(http.MethodPost, "/v1/orders",
		`{"shipping_address":"123 Fake St"}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreate_EmptyCartRejected(t *testing.T) {
	h, mock, closeDB := newOrderHandlerWithMock(t)
	defer closeDB()

	mock.ExpectQuery("FROM cart_items ci").
		WithArgs("usr-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "product_id", "name", "price", "quantity", "stock", "status", "image",
		}))

	c, rec := newOrderTestContext(http.MethodPost, "/v1/orders",
		`{"shipping_address":"123 Fake St"}`)
	require.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no items")
	require.NoError(t, mock.ExpectationsWereMet())
}
