package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_endpoint_addr": "vault.example:9000",
		"database_path":        "/tmp/vault.db",
		"card_ttl":             "24h",
		"cooldown_period":      "336h",
		"protected_keystore":   true,
		"insecure_cipher":      true,
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "vault.example:9000", cfg.ServerEndpointAddr)
		assert.Equal(t, "/tmp/vault.db", cfg.DatabasePath)
		assert.Equal(t, 24*time.Hour, cfg.CardTTL)
		assert.Equal(t, 14*24*time.Hour, cfg.CooldownPeriod)
		assert.True(t, cfg.ProtectedKeystore)
		assert.True(t, cfg.InsecureCipher)
	})

	t.Run("absent keys keep defaults", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"server_endpoint_addr": "vault.example:9000",
		})
		os.Args = []string{"testbin", "-config", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "vault.example:9000", cfg.ServerEndpointAddr)
		assert.Equal(t, 72*time.Hour, cfg.CardTTL, "absent card_ttl keeps the default")
		assert.False(t, cfg.InsecureCipher)
	})

	t.Run("explicit false overrides", func(t *testing.T) {
		explicit := writeTempJSON(t, dir, "explicit.json", map[string]any{
			"protected_keystore": false,
		})
		os.Args = []string{"testbin", "-config", explicit}

		cfg := &Config{}
		cfg.LoadDefaults()
		cfg.ProtectedKeystore = true
		parseJson(cfg)

		assert.False(t, cfg.ProtectedKeystore)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ServerEndpointAddr: "defaults:1234", CardTTL: 42 * time.Hour}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.ServerEndpointAddr)
		assert.Equal(t, 42*time.Hour, cfg.CardTTL)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
