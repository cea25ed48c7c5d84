package models

import "time"

// RegistrationHistory is the single most recent registration event for a
// category. A new registration for the category overwrites this record.
//
// CooldownEndsAt is always registeredAt plus the tracker's cooldown period;
// it is independent of the card's own expiry, which may be shorter or
// longer.
type RegistrationHistory struct {
	Category       Category  `json:"category"`
	RegisteredAt   time.Time `json:"registered_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	CooldownEndsAt time.Time `json:"cooldown_ends_at"`
}
