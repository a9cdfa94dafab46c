package memstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/flight-inventory/internal/inventory"
	"github.com/iliyamo/flight-inventory/internal/model"
	"github.com/iliyamo/flight-inventory/internal/utils"
)

// Accounts is the user-account view of the store used by the auth
// handlers when running without MySQL.
type Accounts struct{ s *Store }

// Accounts returns the account view of s.
func (s *Store) Accounts() *Accounts { return &Accounts{s: s} }

// Create hashes password and inserts a user, returning its id.
func (r *Accounts) Create(_ context.Context, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Email == email {
			return 0, fmt.Errorf("%w: email already exists", inventory.ErrConflict)
		}
	}
	now := time.Now().UTC()
	r.s.st.seq.user++
	u := model.User{
		ID:           r.s.st.seq.user,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.st.users[u.ID] = u
	return u.ID, nil
}

// GetByEmail fetches a user by normalized email.
func (r *Accounts) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, fmt.Errorf("user %q: %w", email, inventory.ErrNotFound)
}

// GetByID fetches a user by id.
func (r *Accounts) GetByID(_ context.Context, id uint64) (model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return model.User{}, notFound("user", id)
	}
	return u, nil
}

// Tokens is the refresh-token view of the store.
type Tokens struct{ s *Store }

// Tokens returns the refresh-token view of s.
func (s *Store) Tokens() *Tokens { return &Tokens{s: s} }

// StoreRefresh records a refresh token hash.
func (r *Tokens) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.seq.token++
	r.s.st.tokens[tokenHash] = model.RefreshToken{
		ID:        r.s.st.seq.token,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: exp,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// ValidateRefresh returns the user id of a live, unexpired token.
func (r *Tokens) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.st.tokens[tokenHash]
	if !ok || t.RevokedAt != nil || time.Now().UTC().After(t.ExpiresAt) {
		return 0, fmt.Errorf("refresh token: %w", inventory.ErrNotFound)
	}
	return t.UserID, nil
}

// RevokeByHash marks a token as revoked.
func (r *Tokens) RevokeByHash(_ context.Context, tokenHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.st.tokens[tokenHash]; ok && t.RevokedAt == nil {
		now := time.Now().UTC()
		t.RevokedAt = &now
		r.s.st.tokens[tokenHash] = t
	}
	return nil
}

// RevokeAllForUser revokes every live token of a user.
func (r *Tokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	for h, t := range r.s.st.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
			r.s.st.tokens[h] = t
		}
	}
	return nil
}
