package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/upcheck/internal/common"
	"github.com/dmitrijs2005/upcheck/internal/cryptox"
	"github.com/dmitrijs2005/upcheck/internal/logging"
	"github.com/dmitrijs2005/upcheck/internal/server/auth"
	"github.com/dmitrijs2005/upcheck/internal/server/models"
	"github.com/dmitrijs2005/upcheck/internal/server/store"
)

const msgInvalidToken = "missing required token in header, or token is invalid"

// Users handles the users resource. The phone number is the record key and
// is immutable after signup; every non-anonymous operation is authorized
// against a bearer token scoped to that phone.
type Users struct {
	store  store.Store
	auth   *auth.Service
	hasher *cryptox.Hasher
	logger logging.Logger
}

func NewUsers(s store.Store, a *auth.Service, h *cryptox.Hasher, l logging.Logger) *Users {
	return &Users{store: s, auth: a, hasher: h, logger: l.With("module", "users")}
}

// Create registers a new account.
// Required: firstName, lastName, phone (10 chars), password, tosAgreement=true.
func (u *Users) Create(ctx context.Context, r *Request) *Response {
	vals, err := evalSchema([]field{
		strField("firstName"),
		strField("lastName"),
		strField("phone").exact(10),
		strField("password"),
		boolTrueField("tosAgreement"),
	}, r)
	if err != nil {
		return errResponse(http.StatusBadRequest, err.Error())
	}

	digest, err := u.hasher.Hash(vals.str("password"))
	if err != nil || digest == "" {
		u.logger.Error(ctx, "could not hash password", "error", err)
		return errResponse(http.StatusInternalServerError, "could not hash the user's password")
	}

	user := models.User{
		FirstName:      vals.str("firstName"),
		LastName:       vals.str("lastName"),
		Phone:          vals.str("phone"),
		HashedPassword: digest,
		TosAgreement:   true,
		Checks:         []string{},
	}

	// the store's duplicate guard is the uniqueness check, so two
	// concurrent signups cannot both win
	if err := u.store.Create(ctx, store.Users, user.Phone, &user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return errResponse(http.StatusBadRequest, "a user with that phone number already exists")
		}
		u.logger.Error(ctx, "could not create user", "error", err)
		return errResponse(http.StatusInternalServerError, "could not create the new user")
	}

	return ok(nil)
}

// Retrieve returns the caller's own record, password digest stripped.
// Required: phone query parameter and a valid token for that phone.
func (u *Users) Retrieve(ctx context.Context, r *Request) *Response {
	vals, err := evalSchema([]field{
		strField("phone").exact(10).query(),
	}, r)
	if err != nil {
		return errResponse(http.StatusBadRequest, err.Error())
	}
	phone := vals.str("phone")

	if !u.auth.Verify(ctx, r.Token(), phone) {
		return errResponse(http.StatusForbidden, msgInvalidToken)
	}

	var user models.User
	if err := u.store.Read(ctx, store.Users, phone, &user); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return respond(http.StatusNotFound, nil)
		}
		u.logger.Error(ctx, "could not read user", "error", err)
		return errResponse(http.StatusInternalServerError, "could not read the user")
	}

	return ok(user.Public())
}

// Update modifies the caller's own record.
// Required: phone, plus at least one of firstName, lastName, password.
func (u *Users) Update(ctx context.Context, r *Request) *Response {
	vals, err := evalSchema([]field{
		strField("phone").exact(10),
		strField("firstName").optional(),
		strField("lastName").optional(),
		strField("password").optional(),
	}, r)
	if err != nil {
		return errResponse(http.StatusBadRequest, err.Error())
	}
	phone := vals.str("phone")

	if !vals.has("firstName") && !vals.has("lastName") && !vals.has("password") {
		return errResponse(http.StatusBadRequest, "missing fields to update")
	}

	if !u.auth.Verify(ctx, r.Token(), phone) {
		return errResponse(http.StatusForbidden, msgInvalidToken)
	}

	var user models.User
	if err := u.store.Read(ctx, store.Users, phone, &user); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errResponse(http.StatusBadRequest, "the specified user does not exist")
		}
		u.logger.Error(ctx, "could not read user", "error", err)
		return errResponse(http.StatusInternalServerError, "could not read the user")
	}

	if vals.has("firstName") {
		user.FirstName = vals.str("firstName")
	}
	if vals.has("lastName") {
		user.LastName = vals.str("lastName")
	}
	if vals.has("password") {
		digest, err := u.hasher.Hash(vals.str("password"))
		if err != nil || digest == "" {
			u.logger.Error(ctx, "could not hash password", "error", err)
			return errResponse(http.StatusInternalServerError, "could not hash the user's password")
		}
		user.HashedPassword = digest
	}

	if err := u.store.Update(ctx, store.Users, phone, &user); err != nil {
		u.logger.Error(ctx, "could not update user", "error", err)
		return errResponse(http.StatusInternalServerError, "could not update the user")
	}

	return ok(nil)
}

// Delete removes the caller's account and cascades to every check it owns.
// Check deletions are best-effort: failures are aggregated and surfaced as
// a 500 rather than masked, but the user record is still removed.
func (u *Users) Delete(ctx context.Context, r *Request) *Response {
	vals, err := evalSchema([]field{
		strField("phone").exact(10).query(),
	}, r)
	if err != nil {
		return errResponse(http.StatusBadRequest, err.Error())
	}
	phone := vals.str("phone")

	if !u.auth.Verify(ctx, r.Token(), phone) {
		return errResponse(http.StatusForbidden, msgInvalidToken)
	}

	var user models.User
	if err := u.store.Read(ctx, store.Users, phone, &user); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errResponse(http.StatusBadRequest, "could not find the specified user")
		}
		u.logger.Error(ctx, "could not read user", "error", err)
		return errResponse(http.StatusInternalServerError, "could not read the user")
	}

	var checkErrs error
	failed := 0
	for _, checkID := range user.Checks {
		if err := u.store.Delete(ctx, store.Checks, checkID); err != nil {
			checkErrs = errors.Join(checkErrs, fmt.Errorf("check %s: %w", checkID, err))
			failed++
		}
	}

	if err := u.store.Delete(ctx, store.Users, phone); err != nil {
		u.logger.Error(ctx, "could not delete user", "error", err)
		return errResponse(http.StatusInternalServerError, "could not delete the specified user")
	}

	if checkErrs != nil {
		u.logger.Error(ctx, "cascade delete incomplete", "phone", phone, "failed", failed, "error", checkErrs)
		return errResponse(http.StatusInternalServerError,
			fmt.Sprintf("errors encountered while deleting the user's checks; %d check(s) may not have been removed", failed))
	}

	return ok(nil)
}
