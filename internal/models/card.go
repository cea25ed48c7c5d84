package models

import (
	"strings"
	"time"
)

// CardContent is the plaintext payload of a card. It exists only in memory
// and, AEAD-encrypted, inside the ciphertext blob; it never leaves the
// device in either form.
type CardContent struct {
	Value       string `json:"value"`
	DisplayName string `json:"display_name,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// LocalInterestCard is one locally-registered search target.
//
// Ciphertext is opaque without the device key. ContentHash is the only
// content-derived field safe to share with the server.
type LocalInterestCard struct {
	ID           string    `json:"id"`
	Category     Category  `json:"category"`
	Ciphertext   []byte    `json:"ciphertext"`
	ContentHash  string    `json:"content_hash"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	DisplayLabel string    `json:"display_label"`
}

// Live reports whether the card has not yet expired at now.
func (c *LocalInterestCard) Live(now time.Time) bool {
	return now.Before(c.ExpiresAt)
}

// Submission returns the only material about this card that may be sent to
// the server: no plaintext, no ciphertext.
func (c *LocalInterestCard) Submission() CardSubmission {
	return CardSubmission{
		Category:    c.Category,
		ContentHash: c.ContentHash,
		ExpiresAt:   c.ExpiresAt,
	}
}

// CardSubmission is the outbound wire value for one registered card.
type CardSubmission struct {
	Category    Category  `json:"category"`
	ContentHash string    `json:"content_hash"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// displayLabelPrefixLen is how many leading characters of a value stay
// visible in its redacted label.
const displayLabelPrefixLen = 3

// DeriveDisplayLabel builds a partially-redacted label from a plaintext
// value (first three characters plus a mask) so list views can render cards
// without decrypting them. Short values are masked entirely.
func DeriveDisplayLabel(value string) string {
	r := []rune(strings.TrimSpace(value))
	if len(r) <= displayLabelPrefixLen {
		return "***"
	}
	return string(r[:displayLabelPrefixLen]) + "***"
}
