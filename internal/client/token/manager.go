// Package token manages the bearer credential lifecycle: claim decoding,
// expiry queries, and persistence in the secure key-value store.
//
// The client never verifies token signatures. It trusts transport-layer TLS
// and backend-issued tokens; claims are decoded only to read expiry.
package token

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vkozyrev/sharebox/internal/client/kvstore"
	"github.com/vkozyrev/sharebox/internal/common"
)

// DefaultExpirySoonThreshold is the default window for IsExpiringSoon.
const DefaultExpirySoonThreshold = 5 * time.Minute

// Claims are the token claims this client reads.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid,omitempty"`
}

// Decode parses the self-describing segment of the credential without
// verifying any signature. Returns nil on malformed structure.
func Decode(tokenString string) *Claims {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}

// Manager answers liveness/expiry queries about a credential and persists
// it alongside a companion expiry timestamp.
type Manager struct {
	store kvstore.Repository
	now   func() time.Time
}

func NewManager(store kvstore.Repository) *Manager {
	return &Manager{store: store, now: time.Now}
}

// IsExpired reports whether the credential must not be used anymore. A
// token with absent or unparseable claims, or without an expiry claim, is
// treated as expired: better to force a re-login than to keep an
// indefinitely-lived credential alive past a backend contract change.
func (m *Manager) IsExpired(tokenString string) bool {
	claims := Decode(tokenString)
	if claims == nil || claims.ExpiresAt == nil {
		return true
	}
	return !m.now().Before(claims.ExpiresAt.Time)
}

// ExpiresIn returns the remaining validity. ok is false when the token has
// no well-formed expiry claim.
func (m *Manager) ExpiresIn(tokenString string) (time.Duration, bool) {
	claims := Decode(tokenString)
	if claims == nil || claims.ExpiresAt == nil {
		return 0, false
	}
	return claims.ExpiresAt.Time.Sub(m.now()), true
}

// IsExpiringSoon reports whether the credential expires within threshold.
// A non-positive threshold means DefaultExpirySoonThreshold.
func (m *Manager) IsExpiringSoon(tokenString string, threshold time.Duration) bool {
	if threshold <= 0 {
		threshold = DefaultExpirySoonThreshold
	}
	remaining, ok := m.ExpiresIn(tokenString)
	if !ok {
		return true
	}
	return remaining <= threshold
}

// storedCredential is the JSON wrapper persisted under the credential key.
// ExpiresAt mirrors the embedded exp claim when present so expiry survives
// even if the token format changes.
type storedCredential struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Encode wraps a token into its persisted form.
func Encode(tokenString string) ([]byte, error) {
	sc := storedCredential{Token: tokenString}
	if claims := Decode(tokenString); claims != nil && claims.ExpiresAt != nil {
		sc.ExpiresAt = claims.ExpiresAt.Time
	}
	return json.Marshal(sc)
}

// Persist stores the credential.
func (m *Manager) Persist(ctx context.Context, tokenString string) error {
	blob, err := Encode(tokenString)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, common.KeyCredential, blob)
}

// RetrieveValid returns the stored credential, or "" when none is stored.
// An expired or unreadable credential is purged from storage and "" is
// returned, so callers never observe a dead token.
func (m *Manager) RetrieveValid(ctx context.Context) (string, error) {
	blob, err := m.store.Get(ctx, common.KeyCredential)
	if err != nil {
		return "", err
	}
	if len(blob) == 0 {
		return "", nil
	}

	var sc storedCredential
	if err := json.Unmarshal(blob, &sc); err != nil || sc.Token == "" {
		_ = m.store.Delete(ctx, common.KeyCredential)
		return "", nil
	}

	expired := m.IsExpired(sc.Token)
	if !sc.ExpiresAt.IsZero() {
		expired = !m.now().Before(sc.ExpiresAt)
	}
	if expired {
		_ = m.store.Delete(ctx, common.KeyCredential)
		return "", nil
	}

	return sc.Token, nil
}

// Clear removes the stored credential.
func (m *Manager) Clear(ctx context.Context) error {
	return m.store.Delete(ctx, common.KeyCredential)
}
