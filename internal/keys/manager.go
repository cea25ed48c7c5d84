// Package keys owns the lifecycle of the device encryption key: lazy
// creation on first use, persistence in the local database, optional
// passphrase protection, and in-memory caching.
//
// The key never leaves the device and is never exported. Losing the local
// database (or forgetting the keystore passphrase) makes every encrypted
// card permanently unreadable; that is a property of the design, not a
// failure mode to recover from.
package keys

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/saikai-app/cardvault/internal/common"
	"github.com/saikai-app/cardvault/internal/cryptox"
	"github.com/saikai-app/cardvault/internal/dbx"
	"github.com/saikai-app/cardvault/internal/storage"
)

const (
	kdfNone     = "none"
	kdfArgon2id = "argon2id"
)

// keyDocument is the stored form of the device key. With kdf "none" Key is
// the raw key; with kdf "argon2id" it is the key wrapped under a
// passphrase-derived KEK and Salt is the KDF salt.
type keyDocument struct {
	V    int    `json:"v"`
	KDF  string `json:"kdf"`
	Salt []byte `json:"salt,omitempty"`
	Key  []byte `json:"key"`
}

// Manager provides the device key. Safe for concurrent use; the first call
// wins the creation race and every later call observes the same key.
type Manager struct {
	db         *sql.DB
	mu         sync.Mutex
	cached     []byte
	passphrase []byte
}

type Option func(*Manager)

// WithPassphrase protects the stored key with a passphrase-derived KEK. The
// same passphrase must be supplied on every subsequent open.
func WithPassphrase(passphrase []byte) Option {
	return func(m *Manager) {
		m.passphrase = passphrase
	}
}

func NewManager(db *sql.DB, opts ...Option) *Manager {
	m := &Manager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetOrCreateKey returns the device key, generating and persisting it on
// the very first call. A passphrase mismatch or unreadable key document
// surfaces as common.ErrKeyUnavailable.
func (m *Manager) GetOrCreateKey(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != nil {
		return m.cached, nil
	}

	var key []byte
	err := dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		raw, err := storage.GetDocument(ctx, tx, storage.DocEncryptionKey)
		switch {
		case err == nil:
			key, err = m.unseal(raw)
			return err
		case errors.Is(err, common.ErrNotFound):
			key = common.GenerateRandByteArray(cryptox.KeySize)
			sealed, err := m.seal(key)
			if err != nil {
				return err
			}
			return storage.PutDocument(ctx, tx, storage.DocEncryptionKey, sealed)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	m.cached = key
	return key, nil
}

func (m *Manager) seal(key []byte) ([]byte, error) {
	doc := keyDocument{V: 1, KDF: kdfNone, Key: key}

	if m.passphrase != nil {
		salt := common.GenerateRandByteArray(cryptox.SaltSize)
		kek := cryptox.DeriveKEK(m.passphrase, salt)
		defer common.WipeByteArray(kek)

		wrapped, err := cryptox.WrapKey(kek, key)
		if err != nil {
			return nil, fmt.Errorf("failed to wrap key: %w", err)
		}
		doc = keyDocument{V: 1, KDF: kdfArgon2id, Salt: salt, Key: wrapped}
	}

	return json.Marshal(doc)
}

func (m *Manager) unseal(raw []byte) ([]byte, error) {
	var doc keyDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: corrupt key document: %v", common.ErrKeyUnavailable, err)
	}

	switch doc.KDF {
	case kdfNone:
		if m.passphrase != nil {
			return nil, fmt.Errorf("%w: stored key is not passphrase-protected", common.ErrKeyUnavailable)
		}
		if len(doc.Key) != cryptox.KeySize {
			return nil, fmt.Errorf("%w: stored key has wrong length", common.ErrKeyUnavailable)
		}
		return doc.Key, nil

	case kdfArgon2id:
		if m.passphrase == nil {
			return nil, fmt.Errorf("%w: stored key requires a passphrase", common.ErrKeyUnavailable)
		}
		kek := cryptox.DeriveKEK(m.passphrase, doc.Salt)
		defer common.WipeByteArray(kek)

		key, err := cryptox.UnwrapKey(kek, doc.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: wrong passphrase or corrupt key", common.ErrKeyUnavailable)
		}
		return key, nil

	default:
		return nil, fmt.Errorf("%w: unknown kdf %q", common.ErrKeyUnavailable, doc.KDF)
	}
}

// Reset wipes the cached key and deletes the stored key document. Cards
// encrypted under the old key become permanently unreadable.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := storage.DeleteDocument(ctx, m.db, storage.DocEncryptionKey); err != nil {
		return err
	}
	common.WipeByteArray(m.cached)
	m.cached = nil
	return nil
}

// Close wipes the in-memory key copy. The manager must not be used after
// Close.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	common.WipeByteArray(m.cached)
	m.cached = nil
	common.WipeByteArray(m.passphrase)
	m.passphrase = nil
}
