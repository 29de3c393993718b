// Package models defines the canonical entities the client core exposes to
// the UI layer, independent of any backend wire format.
package models

import "time"

// UserProfile is the canonical identity. ID is opaque and must never appear
// in user-facing text; human-facing identification uses Username or FullName.
type UserProfile struct {
	ID        string
	Username  string
	FullName  string
	Email     string
	CreatedAt time.Time
}

// DisplayName returns the name to show in the UI.
func (u UserProfile) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
