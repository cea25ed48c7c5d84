package models

import "time"

// Origin says whether a registered category is backed by ciphertext held on
// this device or only known from the server-reported status feed.
type Origin string

const (
	OriginThisDevice  Origin = "this_device"
	OriginOtherDevice Origin = "other_device"
)

// ServerCard is one item of the server-reported registration feed: a
// category with timestamps. The server never returns another device's hash,
// so there is nothing else to carry.
type ServerCard struct {
	Category     Category  `json:"category"`
	RegisteredAt time.Time `json:"registered_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RemoteCardStatus is the transient, UI-owned view of one registered
// category after reconciliation. It is rebuilt on every merge and never
// persisted.
type RemoteCardStatus struct {
	Category     Category
	Registered   bool
	RegisteredAt time.Time
	ExpiresAt    time.Time
	Origin       Origin

	// CardID is set only for origin this_device, so the UI can offer
	// reveal/delete for cards it can actually decrypt.
	CardID string
}
