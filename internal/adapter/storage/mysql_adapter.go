package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/jewelry-storefront/internal/core/domain"
)

// SubmissionsSchema creates the ledger table written by MySQLAdapter.
const SubmissionsSchema = `
CREATE TABLE IF NOT EXISTS order_submissions (
	id                  CHAR(36)     NOT NULL PRIMARY KEY,
	erp_order_id        BIGINT       NULL,
	invoice_id          BIGINT       NULL,
	label_attachment_id BIGINT       NULL,
	tracking_number     VARCHAR(64)  NOT NULL DEFAULT '',
	customer_email      VARCHAR(255) NOT NULL DEFAULT '',
	state               VARCHAR(32)  NOT NULL,
	failure             TEXT         NULL,
	created_at          DATETIME(3)  NOT NULL,
	KEY idx_order_submissions_order (erp_order_id)
)`

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, SubmissionsSchema); err != nil {
		return fmt.Errorf("create order_submissions: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) SaveSubmission(ctx context.Context, s domain.Submission) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO order_submissions
			(id, erp_order_id, invoice_id, label_attachment_id, tracking_number, customer_email, state, failure, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, nullableID(s.OrderID), nullableRef(s.InvoiceID), nullableRef(s.LabelAttachmentID),
		s.TrackingNumber, s.CustomerEmail, string(s.State), nullableText(s.Failure), s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullableRef(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func nullableText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
