// Package config loads runtime configuration for the card vault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     address:port of the backend gRPC endpoint
//	-d string     path to the local database file
//	-t duration   default card lifetime
//	-w duration   re-registration cooldown period
//	-p            prompt for a keystore passphrase at startup
//
// # JSON schema
//
// The JSON loader uses timex.Duration for durations, so values can be either
// strings like "72h" or integer nanoseconds:
//
//	{
//	  "database_path": "/home/user/.config/cardvault/cardvault.db",
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "card_ttl": "72h",
//	  "cooldown_period": "168h",
//	  "protected_keystore": false,
//	  "insecure_cipher": false
//	}
//
// The insecure_cipher switch is deliberately JSON-only: it selects a
// reversible stand-in for the real cipher and release builds refuse it at
// startup, so there is no flag to fat-finger in production.
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
