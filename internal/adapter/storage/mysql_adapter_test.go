package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
)

const insertSubmissionPattern = "INSERT INTO order_submissions"

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestEnsureSchema(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS order_submissions")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewMySQLAdapter(db).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSubmission_Complete(t *testing.T) {
	db, mock := newMockDB(t)
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	invoiceID := int64(900)
	labelID := int64(901)

	mock.ExpectExec(insertSubmissionPattern).
		WithArgs("sub-1", int64(42), int64(900), int64(901), "TRK1", "a@b.c", "complete", nil, createdAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := NewMySQLAdapter(db).SaveSubmission(context.Background(), domain.Submission{
		ID:                "sub-1",
		OrderID:           42,
		InvoiceID:         &invoiceID,
		LabelAttachmentID: &labelID,
		TrackingNumber:    "TRK1",
		CustomerEmail:     "a@b.c",
		State:             domain.OrderStateComplete,
		CreatedAt:         createdAt,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSubmission_RejectedStoresNulls(t *testing.T) {
	db, mock := newMockDB(t)
	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(insertSubmissionPattern).
		WithArgs("sub-2", nil, nil, nil, "", "a@b.c", "rejected", "ERP HTTP 502: bad gateway", createdAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := NewMySQLAdapter(db).SaveSubmission(context.Background(), domain.Submission{
		ID:            "sub-2",
		CustomerEmail: "a@b.c",
		State:         domain.OrderStateRejected,
		Failure:       "ERP HTTP 502: bad gateway",
		CreatedAt:     createdAt,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSubmission_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	dbErr := errors.New("connection refused")
	mock.ExpectExec(insertSubmissionPattern).WillReturnError(dbErr)

	err := NewMySQLAdapter(db).SaveSubmission(context.Background(), domain.Submission{ID: "sub-3"})

	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
