// Package filex holds small filesystem helpers for locating and creating
// the application's data directory.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// appDirName is the directory created under the user config dir.
const appDirName = "cardvault"

// DefaultDataDir returns the per-user data directory for cardvault,
// creating it if needed (e.g. ~/.config/cardvault on Linux).
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}

	dir := filepath.Join(base, appDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
