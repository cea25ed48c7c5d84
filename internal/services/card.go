// Package services implements the operations behind the card vault: card
// registration and lifecycle, the re-registration cooldown, and the merge
// of local cards with the server-reported status feed.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/saikai-app/cardvault/internal/common"
	"github.com/saikai-app/cardvault/internal/cryptox"
	"github.com/saikai-app/cardvault/internal/dbx"
	"github.com/saikai-app/cardvault/internal/hashx"
	"github.com/saikai-app/cardvault/internal/logging"
	"github.com/saikai-app/cardvault/internal/models"
	"github.com/saikai-app/cardvault/internal/repositories/cards"
)

// revealCacheSize bounds the number of decrypted payloads held in memory.
const revealCacheSize = 32

// CardService is the UI-facing surface of the local card store.
type CardService interface {
	// Register encrypts and stores a new card. Fails with ErrCooldownActive,
	// ErrDuplicateRegistration or ErrInvalidInput per the registration rules.
	Register(ctx context.Context, category models.Category, value, displayName, notes string, ttl time.Duration) (*models.LocalInterestCard, error)

	// List returns all live cards, purging expired ones as a side effect.
	List(ctx context.Context) ([]models.LocalInterestCard, error)

	// Reveal decrypts the plaintext of a card this device created.
	Reveal(ctx context.Context, cardID string) (*models.CardContent, error)

	// Delete removes a card unconditionally; unknown ids are not an error.
	Delete(ctx context.Context, cardID string) error

	// Submissions returns the server-safe projection of every live card.
	Submissions(ctx context.Context) ([]models.CardSubmission, error)

	// Wipe removes every card and the registration history.
	Wipe(ctx context.Context) error
}

type cardService struct {
	db      *sql.DB
	repo    cards.Repository
	cipher  cryptox.Cipher
	tracker *CooldownTracker
	log     logging.Logger
	now     func() time.Time

	// mu serializes register's read-check-write sequence; see the uniqueness
	// invariant on (category, contentHash).
	mu       sync.Mutex
	revealed *lru.Cache[string, revealedEntry]
}

// revealedEntry carries the card's expiry next to the decrypted payload so
// a cache hit can never outlive the card it came from.
type revealedEntry struct {
	content   models.CardContent
	expiresAt time.Time
}

type CardOption func(*cardService)

// WithCardClock injects the time source, for tests.
func WithCardClock(now func() time.Time) CardOption {
	return func(s *cardService) {
		s.now = now
	}
}

func NewCardService(db *sql.DB, repo cards.Repository, cipher cryptox.Cipher, tracker *CooldownTracker, log logging.Logger, opts ...CardOption) (CardService, error) {
	revealed, err := lru.New[string, revealedEntry](revealCacheSize)
	if err != nil {
		return nil, err
	}

	s := &cardService{
		db:       db,
		repo:     repo,
		cipher:   cipher,
		tracker:  tracker,
		log:      log.With("component", "cards"),
		now:      time.Now,
		revealed: revealed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *cardService) Register(ctx context.Context, category models.Category, value, displayName, notes string, ttl time.Duration) (*models.LocalInterestCard, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: ttl must be positive", common.ErrInvalidInput)
	}

	// Validates category and non-emptiness before any I/O.
	contentHash, err := hashx.ContentHash(category, value)
	if err != nil {
		return nil, err
	}

	ciphertext, err := cryptox.EncryptJSON(s.cipher, models.CardContent{
		Value:       value,
		DisplayName: displayName,
		Notes:       notes,
	})
	if err != nil {
		s.log.Error(ctx, "encryption failed", "category", category, "error", err)
		return nil, err
	}

	now := s.now()
	card := models.LocalInterestCard{
		ID:           uuid.NewString(),
		Category:     category,
		Ciphertext:   ciphertext,
		ContentHash:  contentHash,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
		DisplayLabel: models.DeriveDisplayLabel(value),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.tracker.check(ctx, tx, category, now); err != nil {
			return err
		}

		existing, err := s.repo.Load(ctx, tx)
		if err != nil {
			return err
		}
		for i := range existing {
			c := &existing[i]
			if c.Category == category && c.ContentHash == contentHash && c.Live(now) {
				return fmt.Errorf("%w: %s", common.ErrDuplicateRegistration, category)
			}
		}

		// The card and its cooldown record commit together or not at all.
		if err := s.repo.Save(ctx, tx, append(existing, card)); err != nil {
			return err
		}
		return s.tracker.record(ctx, tx, category, now, card.ExpiresAt)
	})
	if err != nil {
		// Expected rejections, surfaced to the user; they must not show up
		// as errors in the logs.
		switch {
		case errors.Is(err, common.ErrCooldownActive):
			s.log.Debug(ctx, "registration rejected: cooldown active", "category", category)
		case errors.Is(err, common.ErrDuplicateRegistration):
			s.log.Debug(ctx, "registration rejected: duplicate", "category", category)
		}
		return nil, err
	}

	s.log.Info(ctx, "card registered", "category", category, "card_id", card.ID, "expires_at", card.ExpiresAt)
	return &card, nil
}

func (s *cardService) List(ctx context.Context) ([]models.LocalInterestCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var live []models.LocalInterestCard

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		all, err := s.repo.Load(ctx, tx)
		if err != nil {
			return err
		}

		live = make([]models.LocalInterestCard, 0, len(all))
		for i := range all {
			if all[i].Live(now) {
				live = append(live, all[i])
			} else {
				s.revealed.Remove(all[i].ID)
			}
		}

		// Lazy expiry: this is the only place expired cards are purged.
		if len(live) != len(all) {
			return s.repo.Save(ctx, tx, live)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return live, nil
}

func (s *cardService) Reveal(ctx context.Context, cardID string) (*models.CardContent, error) {
	now := s.now()

	// A cached payload is only as live as its card: an expired entry must
	// fall through to NotFound, same as a card List has already purged.
	if entry, ok := s.revealed.Get(cardID); ok {
		if now.Before(entry.expiresAt) {
			content := entry.content
			return &content, nil
		}
		s.revealed.Remove(cardID)
	}

	all, err := s.repo.Load(ctx, s.db)
	if err != nil {
		return nil, err
	}

	for i := range all {
		c := &all[i]
		if c.ID != cardID || !c.Live(now) {
			continue
		}

		var content models.CardContent
		if err := cryptox.DecryptJSON(s.cipher, c.Ciphertext, &content); err != nil {
			// Expected for cards created under a previous key, not a crash.
			s.log.Warn(ctx, "card unreadable", "card_id", cardID, "error", err)
			return nil, err
		}
		s.revealed.Add(cardID, revealedEntry{content: content, expiresAt: c.ExpiresAt})
		return &content, nil
	}

	return nil, fmt.Errorf("%w: card %s", common.ErrNotFound, cardID)
}

func (s *cardService) Delete(ctx context.Context, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revealed.Remove(cardID)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		all, err := s.repo.Load(ctx, tx)
		if err != nil {
			return err
		}

		kept := all[:0]
		for i := range all {
			if all[i].ID != cardID {
				kept = append(kept, all[i])
			}
		}
		if len(kept) == len(all) {
			return nil
		}

		s.log.Info(ctx, "card deleted", "card_id", cardID)
		return s.repo.Save(ctx, tx, kept)
	})
}

func (s *cardService) Submissions(ctx context.Context) ([]models.CardSubmission, error) {
	live, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	subs := make([]models.CardSubmission, 0, len(live))
	for i := range live {
		subs = append(subs, live[i].Submission())
	}
	return subs, nil
}

func (s *cardService) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revealed.Purge()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repo.Save(ctx, tx, nil); err != nil {
			return err
		}
		return s.tracker.repo.Save(ctx, tx, nil)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "local card data wiped")
	return nil
}
