package keys

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/saikai-app/cardvault/internal/common"
	"github.com/saikai-app/cardvault/internal/cryptox"
	"github.com/saikai-app/cardvault/internal/storage"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGetOrCreateKey_CreatesOnce(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)
	ctx := context.Background()

	first, err := m.GetOrCreateKey(ctx)
	require.NoError(t, err)
	require.Len(t, first, cryptox.KeySize)

	second, err := m.GetOrCreateKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetOrCreateKey_SurvivesReopen(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	first, err := NewManager(db).GetOrCreateKey(ctx)
	require.NoError(t, err)

	// A fresh manager over the same database must load, not regenerate.
	second, err := NewManager(db).GetOrCreateKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetOrCreateKey_ConcurrentFirstUseConverges(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)
	ctx := context.Background()

	const n = 8
	keys := make([][]byte, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key, err := m.GetOrCreateKey(ctx)
			assert.NoError(t, err)
			keys[i] = key
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Equal(t, keys[0], keys[i])
	}
}

func TestGetOrCreateKey_PassphraseRoundTrip(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	first, err := NewManager(db, WithPassphrase([]byte("hunter2"))).GetOrCreateKey(ctx)
	require.NoError(t, err)

	second, err := NewManager(db, WithPassphrase([]byte("hunter2"))).GetOrCreateKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetOrCreateKey_WrongPassphrase(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	_, err := NewManager(db, WithPassphrase([]byte("right"))).GetOrCreateKey(ctx)
	require.NoError(t, err)

	_, err = NewManager(db, WithPassphrase([]byte("wrong"))).GetOrCreateKey(ctx)
	assert.ErrorIs(t, err, common.ErrKeyUnavailable)
}

func TestGetOrCreateKey_MissingPassphrase(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	_, err := NewManager(db, WithPassphrase([]byte("secret"))).GetOrCreateKey(ctx)
	require.NoError(t, err)

	_, err = NewManager(db).GetOrCreateKey(ctx)
	assert.ErrorIs(t, err, common.ErrKeyUnavailable)
}

func TestGetOrCreateKey_CorruptDocument(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	require.NoError(t, storage.PutDocument(ctx, db, storage.DocEncryptionKey, []byte("not json")))

	_, err := NewManager(db).GetOrCreateKey(ctx)
	assert.ErrorIs(t, err, common.ErrKeyUnavailable)
}

func TestReset_NewKeyAfterwards(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db)
	ctx := context.Background()

	first, err := m.GetOrCreateKey(ctx)
	require.NoError(t, err)
	old := append([]byte(nil), first...)

	require.NoError(t, m.Reset(ctx))

	second, err := m.GetOrCreateKey(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, old, second)
}
