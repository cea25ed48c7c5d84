package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/saikai-app/cardvault/internal/common"
	"github.com/saikai-app/cardvault/internal/dbx"
	"github.com/saikai-app/cardvault/internal/models"
	"github.com/saikai-app/cardvault/internal/repositories/history"
)

// DefaultCooldownPeriod is how long a category stays locked after a
// registration. The lockout is independent of the registered card's own
// lifetime and survives the card's deletion or expiry.
const DefaultCooldownPeriod = 7 * 24 * time.Hour

// CooldownTracker keeps one registration record per category and answers
// whether the category may be registered again.
type CooldownTracker struct {
	db     *sql.DB
	repo   history.Repository
	period time.Duration
	now    func() time.Time
}

type CooldownOption func(*CooldownTracker)

// WithCooldownPeriod overrides the lockout duration.
func WithCooldownPeriod(period time.Duration) CooldownOption {
	return func(t *CooldownTracker) {
		t.period = period
	}
}

// WithCooldownClock injects the time source, for tests.
func WithCooldownClock(now func() time.Time) CooldownOption {
	return func(t *CooldownTracker) {
		t.now = now
	}
}

func NewCooldownTracker(db *sql.DB, repo history.Repository, opts ...CooldownOption) *CooldownTracker {
	t := &CooldownTracker{
		db:     db,
		repo:   repo,
		period: DefaultCooldownPeriod,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CanRegister returns nil if the category may be registered now, or a
// *common.CooldownError carrying the lockout end otherwise.
func (t *CooldownTracker) CanRegister(ctx context.Context, category models.Category) error {
	return t.check(ctx, t.db, category, t.now())
}

// check is CanRegister over an arbitrary handle, so the registration path
// can run it inside its transaction.
func (t *CooldownTracker) check(ctx context.Context, db dbx.DBTX, category models.Category, now time.Time) error {
	records, err := t.repo.Load(ctx, db)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Category == category && now.Before(rec.CooldownEndsAt) {
			return &common.CooldownError{Category: string(category), EndsAt: rec.CooldownEndsAt}
		}
	}
	return nil
}

// RecordRegistration upserts the single history record for the category.
func (t *CooldownTracker) RecordRegistration(ctx context.Context, category models.Category, registeredAt, expiresAt time.Time) error {
	return dbx.WithTx(ctx, t.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return t.record(ctx, tx, category, registeredAt, expiresAt)
	})
}

func (t *CooldownTracker) record(ctx context.Context, db dbx.DBTX, category models.Category, registeredAt, expiresAt time.Time) error {
	records, err := t.repo.Load(ctx, db)
	if err != nil {
		return err
	}

	rec := models.RegistrationHistory{
		Category:       category,
		RegisteredAt:   registeredAt,
		ExpiresAt:      expiresAt,
		CooldownEndsAt: registeredAt.Add(t.period),
	}

	replaced := false
	for i := range records {
		if records[i].Category == category {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}

	return t.repo.Save(ctx, db, records)
}

// History returns the current per-category registration records.
func (t *CooldownTracker) History(ctx context.Context) ([]models.RegistrationHistory, error) {
	return t.repo.Load(ctx, t.db)
}
