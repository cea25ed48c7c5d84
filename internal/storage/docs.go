package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/saikai-app/cardvault/internal/common"
	"github.com/saikai-app/cardvault/internal/dbx"
)

// Document names. Exactly these three documents exist on a device.
const (
	DocEncryptionKey       = "encryption_key"
	DocInterestCards       = "local_interest_cards"
	DocRegistrationHistory = "interest_registration_history"
)

// GetDocument returns the raw value of the named document, or
// common.ErrNotFound if it has never been written.
func GetDocument(ctx context.Context, db dbx.DBTX, name string) ([]byte, error) {
	row := db.QueryRowContext(ctx, `SELECT value FROM documents WHERE name = ?`, name)

	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %q", common.ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read document %q: %w", name, err)
	}
	return value, nil
}

// PutDocument upserts the named document in full. Partial-field updates do
// not exist at this layer.
func PutDocument(ctx context.Context, db dbx.DBTX, name string, value []byte) error {
	query := `INSERT INTO documents (name, value, updated_at)
			VALUES (?, ?, datetime('now'))
			ON CONFLICT(name) DO UPDATE SET value = excluded.value,
				updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, name, value); err != nil {
		return fmt.Errorf("failed to write document %q: %w", name, err)
	}
	return nil
}

// DeleteDocument removes the named document. Deleting a document that does
// not exist is not an error.
func DeleteDocument(ctx context.Context, db dbx.DBTX, name string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to delete document %q: %w", name, err)
	}
	return nil
}
