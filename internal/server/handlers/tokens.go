package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/upcheck/internal/common"
	"github.com/dmitrijs2005/upcheck/internal/cryptox"
	"github.com/dmitrijs2005/upcheck/internal/logging"
	"github.com/dmitrijs2005/upcheck/internal/server/auth"
	"github.com/dmitrijs2005/upcheck/internal/server/models"
	"github.com/dmitrijs2005/upcheck/internal/server/store"
)

// Tokens handles the tokens resource: login (create), lookup, extension,
// and logout (delete).
type Tokens struct {
	store  store.Store
	auth   *auth.Service
	hasher *cryptox.Hasher
	logger logging.Logger
}

func NewTokens(s store.Store, a *auth.Service, h *cryptox.Hasher, l logging.Logger) *Tokens {
	return &Tokens{store: s, auth: a, hasher: h, logger: l.With("module", "tokens")}
}

// Create is login: verifies phone and password and issues a fresh token.
func (t *Tokens) Create(ctx context.Context, r *Request) *Response {
	vals, err := evalSchema([]field{
		strField("phone").exact(10),
		strField("password"),
	}, r)
	if err != nil {
		return errResponse(http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := t.store.Read(ctx, store.Users, vals.str("phone"), &user); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errResponse(http.StatusBadRequest, "could not find the specified user")
		}
		t.logger.Error(ctx, "could not read user", "error", err)
		return errResponse(http.StatusInternalServerError, "could not read the user")
	}

	if !t.hasher.Verify(user.HashedPassword, vals.str("password")) {
		return errResponse(http.StatusBadRequest, "password did not match the specified user's stored password")
	}

	token, err := t.auth.Issue(ctx, user.Phone)
	if err != nil {
		t.logger.Error(ctx, "could not issue token", "error", err)
		return errResponse(http.StatusInternalServerError, "could not create the new token")
	}

	return ok(token)
}

// Retrieve returns the token record for the given id.
func (t *Tokens) Retrieve(ctx context.Context, r *Request) *Response {
	vals, err := evalSchema([]field{
		strField("id").exact(common.IDLength).query(),
	}, r)
	if err != nil {
		return errResponse(http.StatusBadRequest, err.Error())
	}

	var token models.Token
	if err := t.store.Read(ctx, store.Tokens, vals.str("id"), &token); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return respond(http.StatusNotFound, nil)
		}
		t.logger.Error(ctx, "could not read token", "error", err)
		return errResponse(http.StatusInternalServerError, "could not read the token")
	}

	return ok(token)
}

// Update extends an unexpired token by the configured validity.
// Required: id and extend=true.
func (t *Tokens) Update(ctx context.Context, r *Request) *Response {
	vals, err := evalSchema([]field{
		strField("id").exact(common.IDLength),
		boolTrueField("extend"),
	}, r)
	if err != nil {
		return errResponse(http.StatusBadRequest, err.Error())
	}

	if err := t.auth.Extend(ctx, vals.str("id")); err != nil {
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			return errResponse(http.StatusBadRequest, "the token has already expired and cannot be extended")
		case errors.Is(err, common.ErrorNotFound):
			return errResponse(http.StatusBadRequest, "the specified token does not exist")
		default:
			t.logger.Error(ctx, "could not extend token", "error", err)
			return errResponse(http.StatusInternalServerError, "could not update the token's expiration")
		}
	}

	return ok(nil)
}

// Delete is logout: removes the token record.
func (t *Tokens) Delete(ctx context.Context, r *Request) *Response {
	vals, err := evalSchema([]field{
		strField("id").exact(common.IDLength).query(),
	}, r)
	if err != nil {
		return errResponse(http.StatusBadRequest, err.Error())
	}

	if err := t.store.Delete(ctx, store.Tokens, vals.str("id")); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errResponse(http.StatusBadRequest, "could not find the specified token")
		}
		t.logger.Error(ctx, "could not delete token", "error", err)
		return errResponse(http.StatusInternalServerError, "could not delete the specified token")
	}

	return ok(nil)
}
