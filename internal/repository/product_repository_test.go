package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloRelojeroo/slinkhard/internal/model"
)

func TestSaleOutcome(t *testing.T) {
	cases := []struct {
		name       string
		kind       string
		stock, qty int64
		wantStock  int64
		wantStatus string
	}{
		{"normal partial sale", model.KindNormal, 5, 3, 2, model.ProductAvailable},
		{"normal exact sale empties", model.KindNormal, 5, 5, 0, model.ProductOutOfStock},
		{"oversell floors at zero", model.KindNormal, 5, 7, 0, model.ProductOutOfStock},
		{"offer behaves like normal", model.KindOffer, 10, 1, 9, model.ProductAvailable},
		{"unique sells out regardless of qty", model.KindUnique, 3, 1, 0, model.ProductOutOfStock},
		{"unique with qty zero still sells out", model.KindUnique, 1, 0, 0, model.ProductOutOfStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stock, status := SaleOutcome(tc.kind, tc.stock, tc.qty)
			assert.Equal(t, tc.wantStock, stock)
			assert.Equal(t, tc.wantStatus, status)
		})
	}
}

func TestApplySaleTx_DecrementsAndKeepsAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT kind, stock FROM products WHERE id=? FOR UPDATE")).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"kind", "stock"}).AddRow("normal", 5))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock=?, status=? WHERE id=?")).
		WithArgs(int64(2), model.ProductAvailable, "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	repo := NewProductRepo(db)
	require.NoError(t, repo.ApplySaleTx(context.Background(), tx, "prod-1", 3))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySaleTx_UniqueGoesOutOfStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT kind, stock FROM products WHERE id=? FOR UPDATE")).
		WithArgs("prod-u").
		WillReturnRows(sqlmock.NewRows([]string{"kind", "stock"}).AddRow("unique", 4))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock=?, status=? WHERE id=?")).
		WithArgs(int64(0), model.ProductOutOfStock, "prod-u").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	repo := NewProductRepo(db)
	require.NoError(t, repo.ApplySaleTx(context.Background(), tx, "prod-u", 1))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplySaleTx_MissingProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT kind, stock FROM products WHERE id=? FOR UPDATE")).
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"kind", "stock"}))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	repo := NewProductRepo(db)
	assert.ErrorIs(t, repo.ApplySaleTx(context.Background(), tx, "gone", 1), ErrNotFound)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductCreate_DuplicateSKU(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO products").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'SKU-1' for key 'products.sku'"))

	repo := NewProductRepo(db)
	sku := "SKU-1"
	_, err = repo.Create(context.Background(), &model.Product{
		Name:   "Watch",
		Status: model.ProductAvailable,
		Kind:   model.KindNormal,
		SKU:    &sku,
	})
	assert.ErrorIs(t, err, ErrDuplicateSKU)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductUpdate_EmptyPatchIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// no expectations: an empty patch must never touch the database
	repo := NewProductRepo(db)
	require.NoError(t, repo.Update(context.Background(), "prod-1", ProductPatch{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductUpdate_MissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	name := "New name"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET name=? WHERE id=?")).
		WithArgs(name, "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products WHERE id=? LIMIT 1")).
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	repo := NewProductRepo(db)
	assert.ErrorIs(t, repo.Update(context.Background(), "gone", ProductPatch{Name: &name}), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductUpdate_ProbeFailureSurfaces(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// zero rows affected, then the existence probe itself errors out; the
	// caller must see the failure, not a silent success
	name := "New name"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET name=? WHERE id=?")).
		WithArgs(name, "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products WHERE id=? LIMIT 1")).
		WithArgs("prod-1").
		WillReturnError(sql.ErrConnDone)

	repo := NewProductRepo(db)
	assert.ErrorIs(t, repo.Update(context.Background(), "prod-1", ProductPatch{Name: &name}), sql.ErrConnDone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductUpdate_UnchangedExistingRowIsSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	name := "Same name"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET name=? WHERE id=?")).
		WithArgs(name, "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM products WHERE id=? LIMIT 1")).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	repo := NewProductRepo(db)
	require.NoError(t, repo.Update(context.Background(), "prod-1", ProductPatch{Name: &name}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductUpdate_OnlyPatchedColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET name=?, stock=? WHERE id=?")).
		WithArgs("New name", int64(12), "prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewProductRepo(db)
	name := "New name"
	stock := int64(12)
	require.NoError(t, repo.Update(context.Background(), "prod-1", ProductPatch{Name: &name, Stock: &stock}))
	require.NoError(t, mock.ExpectationsWereMet())
}
