// Package session owns the persisted pairing of credential and user
// profile. All mutations are serialized by a single mutex so no two
// operations can interleave their read-modify-write and persist a torn
// session (credential from one login paired with the profile of another).
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/vkozyrev/sharebox/internal/client/kvstore"
	"github.com/vkozyrev/sharebox/internal/client/models"
	"github.com/vkozyrev/sharebox/internal/client/token"
	"github.com/vkozyrev/sharebox/internal/common"
)

// Store is the process-wide session holder. Construct one at app start and
// pass it to the orchestrator and the transport; no ambient globals.
type Store struct {
	mu     sync.Mutex
	kv     kvstore.Repository
	tokens *token.Manager
}

func NewStore(kv kvstore.Repository) *Store {
	return &Store{kv: kv, tokens: token.NewManager(kv)}
}

// Tokens exposes the token lifecycle manager bound to the same storage.
func (s *Store) Tokens() *token.Manager { return s.tokens }

// Save atomically persists a new session: credential and profile are
// written together, never one without the other.
func (s *Store) Save(ctx context.Context, tokenString string, user models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	credBlob, err := token.Encode(tokenString)
	if err != nil {
		return fmt.Errorf("encoding credential: %w", err)
	}
	profileBlob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	return s.kv.SetMany(ctx, map[string][]byte{
		common.KeyCredential: credBlob,
		common.KeyProfile:    profileBlob,
	})
}

// UpdateProfile replaces the stored profile, leaving the credential
// untouched (profile-refresh self-transition).
func (s *Store) UpdateProfile(ctx context.Context, user models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profileBlob, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	return s.kv.Set(ctx, common.KeyProfile, profileBlob)
}

// Clear atomically destroys the session.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.DeleteMany(ctx, common.KeyCredential, common.KeyProfile)
}

// Current returns the live session, or nil when either half is missing or
// the credential is expired.
func (s *Store) Current(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx)
}

func (s *Store) current(ctx context.Context) (*models.Session, error) {
	tok, err := s.tokens.RetrieveValid(ctx)
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, nil
	}

	blob, err := s.kv.Get(ctx, common.KeyProfile)
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		return nil, nil
	}

	var user models.UserProfile
	if err := json.Unmarshal(blob, &user); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	cred := models.Credential{Token: tok}
	if claims := token.Decode(tok); claims != nil && claims.ExpiresAt != nil {
		cred.ExpiresAt = claims.ExpiresAt.Time
	}

	return &models.Session{Credential: cred, User: user}, nil
}

// IsLoggedIn reports whether a credential and profile both exist and the
// credential has not expired.
func (s *Store) IsLoggedIn(ctx context.Context) bool {
	sess, err := s.Current(ctx)
	return err == nil && sess != nil
}

// User returns the locally stored profile without any network call, or nil
// when logged out.
func (s *Store) User(ctx context.Context) *models.UserProfile {
	sess, err := s.Current(ctx)
	if err != nil || sess == nil {
		return nil
	}
	user := sess.User
	return &user
}

// Token returns a valid bearer credential, or "" when none exists. Used by
// the transport to attach the Authorization header; an expired credential
// is never returned.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.RetrieveValid(ctx)
}
