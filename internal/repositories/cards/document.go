package cards

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

// DocumentRepository stores the card list in the documents table.
type DocumentRepository struct{}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{}
}

// Load returns all cards on the device. A device that has never registered
// a card gets an empty list, not an error.
func (r *DocumentRepository) Load(ctx context.Context, db dbx.DBTX) ([]models.LocalInterestCard, error) {
	raw, err := storage.GetDocument(ctx, db, storage.DocInterestCards)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return []models.LocalInterestCard{}, nil
		}
		return nil, err
	}

	var cards []models.LocalInterestCard
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode card list: %w", err)
	}
	return cards, nil
}

// Save replaces the stored card list in full.
func (r *DocumentRepository) Save(ctx context.Context, db dbx.DBTX, cards []models.LocalInterestCard) error {
	if cards == nil {
		cards = []models.LocalInterestCard{}
	}
	raw, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("failed to encode card list: %w", err)
	}
	return storage.PutDocument(ctx, db, storage.DocInterestCards, raw)
}
