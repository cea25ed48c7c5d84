package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/saikai-app/cardvault/internal/common"
	"github.com/saikai-app/cardvault/internal/dbx"
	"github.com/saikai-app/cardvault/internal/models"
	"github.com/saikai-app/cardvault/internal/storage"
)

// DocumentRepository stores the history list in the documents table.
type DocumentRepository struct{}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{}
}

func (r *DocumentRepository) Load(ctx context.Context, db dbx.DBTX) ([]models.RegistrationHistory, error) {
	raw, err := storage.GetDocument(ctx, db, storage.DocRegistrationHistory)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return []models.RegistrationHistory{}, nil
		}
		return nil, err
	}

	var records []models.RegistrationHistory
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode registration history: %w", err)
	}
	return records, nil
}

func (r *DocumentRepository) Save(ctx context.Context, db dbx.DBTX, records []models.RegistrationHistory) error {
	if records == nil {
		records = []models.RegistrationHistory{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode registration history: %w", err)
	}
	return storage.PutDocument(ctx, db, storage.DocRegistrationHistory, raw)
}
