package config

import "time"

// Config holds runtime settings for the card vault CLI.
//
// Fields:
//   - DatabasePath: path to the device-local SQLite file; empty means the
//     per-user default data directory.
//   - ServerEndpointAddr: host:port of the CardMatch gRPC endpoint.
//   - CardTTL: default lifetime of a newly registered card.
//   - CooldownPeriod: per-category re-registration lockout.
//   - ProtectedKeystore: whether the device key is wrapped under a
//     passphrase prompted at startup.
//   - InsecureCipher: selects the reversible stand-in cipher. Dev builds
//     only; release builds refuse to start with this set.
type Config struct {
	DatabasePath       string
	ServerEndpointAddr string
	CardTTL            time.Duration
	CooldownPeriod     time.Duration
	ProtectedKeystore  bool
	InsecureCipher     bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = ""
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.CardTTL = 72 * time.Hour
	c.CooldownPeriod = 7 * 24 * time.Hour
	c.ProtectedKeystore = false
	c.InsecureCipher = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
