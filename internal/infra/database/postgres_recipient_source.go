package database

import (
	"context"
	"database/sql"
	"fmt"

	"ramadan_reminder_bot/internal/domain/recipient"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrRecipientNotFound = fmt.Errorf("recipient not found")

// PostgresRecipientSource backs the recipient source with a 'recipients'
// table instead of a spreadsheet. The primary key serves as the opaque
// RowRef, so the orchestrator is unaware which storage is in play.
type PostgresRecipientSource struct {
	db *sql.DB
}

func NewPostgresRecipientSource(db *sql.DB) *PostgresRecipientSource {
	return &PostgresRecipientSource{db: db}
}

func (r *PostgresRecipientSource) List(ctx context.Context) ([]recipient.RawRow, error) {
	query := `SELECT id, full_name, phone, opt_in_status
               FROM recipients ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing recipients: %w", err)
	}
	defer rows.Close()

	result := make([]recipient.RawRow, 0)
	for rows.Next() {
		var (
			id       int64
			fullName sql.NullString
			phone    sql.NullString
			optIn    sql.NullString
		)
		if err := rows.Scan(&id, &fullName, &phone, &optIn); err != nil {
			return nil, fmt.Errorf("error scanning recipient: %w", err)
		}
		result = append(result, recipient.RawRow{
			Ref: recipient.RowRef(id),
			Fields: map[string]string{
				"full_name":     fullName.String,
				"phone":         phone.String,
				"opt_in_status": optIn.String,
			},
		})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipients: %w", err)
	}
	return result, nil
}

func (r *PostgresRecipientSource) WriteStatus(ctx context.Context, ref recipient.RowRef, status recipient.DeliveryStatus) error {
	query := `UPDATE recipients
               SET delivery_status = $1, updated_at = NOW()
               WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, string(status), int64(ref))
	if err != nil {
		return fmt.Errorf("error updating delivery status for recipient %d: %w", int64(ref), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking delivery status update for recipient %d: %w", int64(ref), err)
	}
	if affected == 0 {
		return ErrRecipientNotFound
	}
	return nil
}
