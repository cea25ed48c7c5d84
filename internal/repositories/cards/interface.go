// Package cards persists the device's encrypted interest cards as a single
// JSON document.
package cards

import (
	"context"

	"github.com/saikai-app/cardvault/internal/dbx"
	"github.com/saikai-app/cardvault/internal/models"
)

// Repository loads and saves the full card list. Callers that read, modify
// and write back must do so inside one transaction.
type Repository interface {
	Load(ctx context.Context, db dbx.DBTX) ([]models.LocalInterestCard, error)
	Save(ctx context.Context, db dbx.DBTX, cards []models.LocalInterestCard) error
}
