package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAdd_UpsertsOnDuplicateKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// the upsert is a single statement; the unique key turns the second add
	// for the same product into a quantity increment
	mock.ExpectExec(regexp.QuoteMeta("ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)")).
		WithArgs(sqlmock.AnyArg(), "usr-1", "prod-1", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCartRepo(db)
	require.NoError(t, repo.Add(context.Background(), "usr-1", "prod-1", 2))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartUpdateQuantity_MissingLine(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE cart_items SET quantity=? WHERE user_id=? AND product_id=?")).
		WithArgs(int64(3), "usr-1", "prod-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCartRepo(db)
	assert.ErrorIs(t, repo.UpdateQuantity(context.Background(), "usr-1", "prod-404", 3), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRemove_MissingLine(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id=? AND product_id=?")).
		WithArgs("usr-1", "prod-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCartRepo(db)
	assert.ErrorIs(t, repo.Remove(context.Background(), "usr-1", "prod-404"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartClearTx_JoinsCallerTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id=?")).
		WithArgs("usr-1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)

	repo := NewCartRepo(db)
	require.NoError(t, repo.ClearTx(context.Background(), tx, "usr-1"))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}
