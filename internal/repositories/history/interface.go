// Package history persists registration history records, the basis for the
// re-registration cooldown.
package history

import (
	"context"

	"github.com/saikai-app/cardvault/internal/dbx"
	"github.com/saikai-app/cardvault/internal/models"
)

// Repository loads and saves the full history list. History entries outlive
// the cards they were recorded for; deleting a card never touches history.
type Repository interface {
	Load(ctx context.Context, db dbx.DBTX) ([]models.RegistrationHistory, error)
	Save(ctx context.Context, db dbx.DBTX, records []models.RegistrationHistory) error
}
