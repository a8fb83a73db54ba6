package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionReplace_WipesThenInsertsInOneTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	exp := time.Now().Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE user_id=?")).
		WithArgs("usr-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions (id, user_id, token, expires_at) VALUES (?,?,?,?)")).
		WithArgs(sqlmock.AnyArg(), "usr-1", "tok-new", exp.UTC()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewSessionRepo(db)
	require.NoError(t, repo.Replace(context.Background(), "usr-1", "tok-new", exp))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionReplace_RollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE user_id=?")).
		WithArgs("usr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sessions")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	repo := NewSessionRepo(db)
	assert.Error(t, repo.Replace(context.Background(), "usr-1", "tok-new", time.Now().Add(time.Hour)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionGetByToken_ExpiredIsDeletedAndMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	past := time.Now().Add(-time.Minute).UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, token, expires_at, created_at FROM sessions WHERE token=? LIMIT 1")).
		WithArgs("tok-old").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
			AddRow("sess-1", "usr-1", "tok-old", past, past.Add(-time.Hour)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE id=?")).
		WithArgs("sess-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSessionRepo(db)
	_, err = repo.GetByToken(context.Background(), "tok-old")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionGetByToken_LiveSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	future := time.Now().Add(time.Hour).UTC()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, token, expires_at, created_at FROM sessions WHERE token=? LIMIT 1")).
		WithArgs("tok-live").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
			AddRow("sess-2", "usr-2", "tok-live", future, time.Now()))

	repo := NewSessionRepo(db)
	s, err := repo.GetByToken(context.Background(), "tok-live")
	require.NoError(t, err)
	assert.Equal(t, "usr-2", s.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}
