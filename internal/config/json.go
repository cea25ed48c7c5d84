package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/saikai-app/cardvault/internal/flagx"
	"github.com/saikai-app/cardvault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify durations either as strings like "72h"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
//
// Boolean fields are pointers so that an absent key leaves the default
// alone, while an explicit false still overrides.
type JsonConfig struct {
	DatabasePath       string         `json:"database_path"`
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	CardTTL            timex.Duration `json:"card_ttl"`
	CooldownPeriod     timex.Duration `json:"cooldown_period"`
	ProtectedKeystore  *bool          `json:"protected_keystore"`
	InsecureCipher     *bool          `json:"insecure_cipher"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flags. Absent keys keep their current values. Panics on
// read or unmarshal errors.
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.CardTTL.Duration != 0 {
		cfg.CardTTL = time.Duration(jc.CardTTL.Duration)
	}
	if jc.CooldownPeriod.Duration != 0 {
		cfg.CooldownPeriod = time.Duration(jc.CooldownPeriod.Duration)
	}
	if jc.ProtectedKeystore != nil {
		cfg.ProtectedKeystore = *jc.ProtectedKeystore
	}
	if jc.InsecureCipher != nil {
		cfg.InsecureCipher = *jc.InsecureCipher
	}
}
