// Package auth issues, extends, and verifies the bearer tokens that gate
// every non-anonymous operation. A token is an opaque random id stored in
// the "tokens" collection, scoped to one user's phone and an absolute
// expiry; expiry is enforced lazily at verification time.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/upcheck/internal/common"
	"github.com/dmitrijs2005/upcheck/internal/server/models"
	"github.com/dmitrijs2005/upcheck/internal/server/store"
)

// Service manages token records in the store.
type Service struct {
	store    store.Store
	validity time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewService returns a Service issuing tokens valid for the given duration.
func NewService(s store.Store, validity time.Duration) *Service {
	return &Service{store: s, validity: validity, now: time.Now}
}

// Issue creates and persists a fresh token for the user identified by phone.
func (s *Service) Issue(ctx context.Context, phone string) (*models.Token, error) {
	id, err := common.MakeRandString(common.IDLength)
	if err != nil {
		return nil, fmt.Errorf("token id: %w", err)
	}

	token := &models.Token{
		ID:      id,
		Phone:   phone,
		Expires: s.now().Add(s.validity).UnixMilli(),
	}

	if err := s.store.Create(ctx, store.Tokens, id, token); err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return token, nil
}

// Extend resets the token's expiry to now plus the configured validity.
// Only an unexpired token may be extended: an expired one yields
// common.ErrTokenExpired with its stored expiry untouched, a missing one
// common.ErrorNotFound.
func (s *Service) Extend(ctx context.Context, id string) error {
	var token models.Token
	if err := s.store.Read(ctx, store.Tokens, id, &token); err != nil {
		return err
	}

	if token.Expires <= s.now().UnixMilli() {
		return common.ErrTokenExpired
	}

	token.Expires = s.now().Add(s.validity).UnixMilli()
	if err := s.store.Update(ctx, store.Tokens, id, &token); err != nil {
		return fmt.Errorf("update token: %w", err)
	}
	return nil
}

// Verify reports whether the token exists, belongs to the given phone, and
// has not expired. It is a pure predicate: any failure to read the token
// yields false, never an error.
func (s *Service) Verify(ctx context.Context, id, phone string) bool {
	if id == "" {
		return false
	}

	var token models.Token
	if err := s.store.Read(ctx, store.Tokens, id, &token); err != nil {
		return false
	}

	return token.Phone == phone && token.Expires > s.now().UnixMilli()
}
