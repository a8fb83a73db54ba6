package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloRelojeroo/slinkhard/internal/repository"
)

func newAdminCatalogWithMock(t *testing.T) (*AdminCatalogHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	h := NewAdminCatalogHandler(repository.NewProductRepo(db), repository.NewCategoryRepo(db), t.TempDir())
	return h, mock, func() { db.Close() }
}

func adminRequest(h echo.HandlerFunc, method, path, body string, params map[string]string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	_ = h(c)
	return rec
}

func TestUpdateProduct_UnknownFieldRejected(t *testing.T) {
	h, _, closeDB := newAdminCatalogWithMock(t)
	defer closeDB()

	rec := adminRequest(h.UpdateProduct, http.MethodPatch, "/v1/admin/products/p1",
		`{"name":"ok","role":"admin"}`, map[string]string{"id": "p1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProduct_NegativePriceRejected(t *testing.T) {
	h, _, closeDB := newAdminCatalogWithMock(t)
	defer closeDB()

	rec := adminRequest(h.UpdateProduct, http.MethodPatch, "/v1/admin/products/p1",
		`{"price":"-1.00"}`, map[string]string{"id": "p1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProduct_InvalidKindRejected(t *testing.T) {
	h, _, closeDB := newAdminCatalogWithMock(t)
	defer closeDB()

	rec := adminRequest(h.UpdateProduct, http.MethodPatch, "/v1/admin/products/p1",
		`{"kind":"antique"}`, map[string]string{"id": "p1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProduct_DuplicateSKUConflicts(t *testing.T) {
	h, mock, closeDB := newAdminCatalogWithMock(t)
	defer closeDB()

	mock.ExpectExec("INSERT INTO products").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))

	rec := adminRequest(h.CreateProduct, http.MethodPost, "/v1/admin/products",
		`{"name":"Watch","price":"10.00","sku":"SKU-1"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProduct_NameRequired(t *testing.T) {
	h, _, closeDB := newAdminCatalogWithMock(t)
	defer closeDB()

	rec := adminRequest(h.CreateProduct, http.MethodPost, "/v1/admin/products",
		`{"price":"10.00"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCategory_DuplicateSlugConflicts(t *testing.T) {
	h, mock, closeDB := newAdminCatalogWithMock(t)
	defer closeDB()

	mock.ExpectExec("INSERT INTO categories").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'watches'"))

	rec := adminRequest(h.CreateCategory, http.MethodPost, "/v1/admin/categories",
		`{"name":"Watches","slug":"Watches"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
