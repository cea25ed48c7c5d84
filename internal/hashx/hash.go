// Package hashx derives the deterministic, one-way content hash that is
// shared with the matching server in place of the raw target value.
package hashx

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/saikai-app/cardvault/internal/common"
	"github.com/saikai-app/cardvault/internal/models"
)

// Normalize lowercases v and strips all whitespace. Two users writing the
// same identifier with different casing or spacing must hash identically,
// otherwise the server can never match them.
func Normalize(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range strings.ToLower(v) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ContentHash returns the lowercase hex SHA-256 digest of
// "category:normalizedValue". No secret key is involved: the digest must be
// byte-identical across devices and platforms for the same input.
//
// The category prefix keeps equal values in different categories from
// colliding; the separator keeps category/value boundaries unambiguous.
func ContentHash(category models.Category, value string) (string, error) {
	if !category.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", common.ErrInvalidInput, category)
	}

	normalized := Normalize(value)
	if normalized == "" {
		return "", fmt.Errorf("%w: empty value", common.ErrInvalidInput)
	}

	sum := sha256.Sum256([]byte(string(category) + ":" + normalized))
	return hex.EncodeToString(sum[:]), nil
}
