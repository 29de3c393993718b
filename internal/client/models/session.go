package models

import "time"

// Credential is the opaque bearer value with its expiry instant. A credential
// past ExpiresAt must never be attached to an outbound request.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// Session pairs a credential with a user profile. The two are persisted
// atomically so neither can be observed without the other.
type Session struct {
	Credential Credential
	User       UserProfile
}
