package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/upcheck/internal/common"
	"github.com/dmitrijs2005/upcheck/internal/logging"
	"github.com/dmitrijs2005/upcheck/internal/server/auth"
	"github.com/dmitrijs2005/upcheck/internal/server/models"
	"github.com/dmitrijs2005/upcheck/internal/server/store"
)

// Checks handles the checks resource. Every check belongs to exactly one
// user: its id is listed in the owner's checks slice for as long as the
// check exists, and the two records are reconciled on every create and
// delete. The writes are not transactional across records; a failed second
// write is surfaced as a server error, never silent success.
type Checks struct {
	store     store.Store
	auth      *auth.Service
	logger    logging.Logger
	maxChecks int
}

func NewChecks(s store.Store, a *auth.Service, maxChecks int, l logging.Logger) *Checks {
	return &Checks{store: s, auth: a, maxChecks: maxChecks, logger: l.With("module", "checks")}
}

func checkSchema(required bool) []field {
	fields := []field{
		strField("protocol").oneOf(models.CheckProtocols...),
		strField("url"),
		strField("method").oneOf(models.CheckMethods...),
		intListField("successCodes"),
		intField("timeoutSeconds", 1, 5),
	}
	if !required {
		for i := range fields {
			fields[i] = fields[i].optional()
		}
	}
	return fields
}

// Create registers a new check for the token's owner, subject to the
// per-user cap. The check record is written first; the owner's checks
// list is updated second.
func (c *Checks) Create(ctx context.Context, r *Request) *Response {
	vals, err := evalSchema(checkSchema(true), r)
	if err != nil {
		return errResponse(http.StatusBadRequest, err.Error())
	}

	// resolve the owning user from the token itself
	var token models.Token
	if err := c.store.Read(ctx, store.Tokens, r.Token(), &token); err != nil {
		return errResponse(http.StatusForbidden, msgInvalidToken)
	}
	if token.Expires <= time.Now().UnixMilli() {
		return errResponse(http.StatusForbidden, msgInvalidToken)
	}

	var user models.User
	if err := c.store.Read(ctx, store.Users, token.Phone, &user); err != nil {
		return errResponse(http.StatusForbidden, msgInvalidToken)
	}

	if len(user.Checks) >= c.maxChecks {
		return errResponse(http.StatusBadRequest,
			fmt.Sprintf("the user already has the maximum number of checks (%d)", c.maxChecks))
	}

	id, err := common.MakeRandString(common.IDLength)
	if err != nil {
		c.logger.Error(ctx, "could not generate check id", "error", err)
		return errResponse(http.StatusInternalServerError, "could not create the new check")
	}

	check := models.Check{
		ID:             id,
		UserPhone:      user.Phone,
		Protocol:       vals.str("protocol"),
		URL:            vals.str("url"),
		Method:         vals.str("method"),
		SuccessCodes:   vals.intList("successCodes"),
		TimeoutSeconds: vals.integer("timeoutSeconds"),
	}

	if err := c.store.Create(ctx, store.Checks, id, &check); err != nil {
		c.logger.Error(ctx, "could not create check", "error", err)
		return errResponse(http.StatusInternalServerError, "could not create the new check")
	}

	user.Checks = append(user.Checks, id)
	if err := c.store.Update(ctx, store.Users, user.Phone, &user); err != nil {
		// the check record exists but is not referenced: a reportable
		// inconsistency, not a silent success
		c.logger.Error(ctx, "check created but user not updated", "check", id, "phone", user.Phone, "error", err)
		return errResponse(http.StatusInternalServerError, "could not update the user with the new check")
	}

	return ok(check)
}

// Retrieve returns a check to its owner.
func (c *Checks) Retrieve(ctx context.Context, r *Request) *Response {
	vals, err := evalSchema([]field{
		strField("id").exact(common.IDLength).query(),
	}, r)
	if err != nil {
		return errResponse(http.StatusBadRequest, err.Error())
	}

	var check models.Check
	if err := c.store.Read(ctx, store.Checks, vals.str("id"), &check); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return respond(http.StatusNotFound, nil)
		}
		c.logger.Error(ctx, "could not read check", "error", err)
		return errResponse(http.StatusInternalServerError, "could not read the check")
	}

	if !c.auth.Verify(ctx, r.Token(), check.UserPhone) {
		return errResponse(http.StatusForbidden, msgInvalidToken)
	}

	return ok(check)
}

// Update modifies any subset of a check's optional fields.
// Required: id, plus at least one optional field.
func (c *Checks) Update(ctx context.Context, r *Request) *Response {
	fields := append([]field{strField("id").exact(common.IDLength)}, checkSchema(false)...)
	vals, err := evalSchema(fields, r)
	if err != nil {
		return errResponse(http.StatusBadRequest, err.Error())
	}

	if !vals.has("protocol") && !vals.has("url") && !vals.has("method") &&
		!vals.has("successCodes") && !vals.has("timeoutSeconds") {
		return errResponse(http.StatusBadRequest, "missing fields to update")
	}

	var check models.Check
	if err := c.store.Read(ctx, store.Checks, vals.str("id"), &check); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errResponse(http.StatusBadRequest, "the specified check does not exist")
		}
		c.logger.Error(ctx, "could not read check", "error", err)
		return errResponse(http.StatusInternalServerError, "could not read the check")
	}

	if !c.auth.Verify(ctx, r.Token(), check.UserPhone) {
		return errResponse(http.StatusForbidden, msgInvalidToken)
	}

	if vals.has("protocol") {
		check.Protocol = vals.str("protocol")
	}
	if vals.has("url") {
		check.URL = vals.str("url")
	}
	if vals.has("method") {
		check.Method = vals.str("method")
	}
	if vals.has("successCodes") {
		check.SuccessCodes = vals.intList("successCodes")
	}
	if vals.has("timeoutSeconds") {
		check.TimeoutSeconds = vals.integer("timeoutSeconds")
	}

	if err := c.store.Update(ctx, store.Checks, check.ID, &check); err != nil {
		c.logger.Error(ctx, "could not update check", "error", err)
		return errResponse(http.StatusInternalServerError, "could not update the check")
	}

	return ok(nil)
}

// Delete removes a check. The id is removed from the owner's checks list
// before the check record itself is deleted, so a crash in between leaves
// an unreferenced record rather than a dangling reference.
func (c *Checks) Delete(ctx context.Context, r *Request) *Response {
	vals, err := evalSchema([]field{
		strField("id").exact(common.IDLength).query(),
	}, r)
	if err != nil {
		return errResponse(http.StatusBadRequest, err.Error())
	}
	id := vals.str("id")

	var check models.Check
	if err := c.store.Read(ctx, store.Checks, id, &check); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errResponse(http.StatusBadRequest, "the specified check does not exist")
		}
		c.logger.Error(ctx, "could not read check", "error", err)
		return errResponse(http.StatusInternalServerError, "could not read the check")
	}

	if !c.auth.Verify(ctx, r.Token(), check.UserPhone) {
		return errResponse(http.StatusForbidden, msgInvalidToken)
	}

	var user models.User
	if err := c.store.Read(ctx, store.Users, check.UserPhone, &user); err != nil {
		c.logger.Error(ctx, "could not read check owner", "check", id, "error", err)
		return errResponse(http.StatusInternalServerError, "could not find the user who owns the check")
	}

	remaining := make([]string, 0, len(user.Checks))
	found := false
	for _, checkID := range user.Checks {
		if checkID == id {
			found = true
			continue
		}
		remaining = append(remaining, checkID)
	}
	if !found {
		// the check record exists but the owner does not reference it:
		// a data-consistency violation
		c.logger.Error(ctx, "check missing from owner's list", "check", id, "phone", check.UserPhone)
		return errResponse(http.StatusInternalServerError, "could not find the check on the owner's list of checks")
	}

	user.Checks = remaining
	if err := c.store.Update(ctx, store.Users, user.Phone, &user); err != nil {
		c.logger.Error(ctx, "could not update check owner", "check", id, "error", err)
		return errResponse(http.StatusInternalServerError, "could not remove the check from the owner's list")
	}

	if err := c.store.Delete(ctx, store.Checks, id); err != nil {
		c.logger.Error(ctx, "check unreferenced but not deleted", "check", id, "error", err)
		return errResponse(http.StatusInternalServerError, "could not delete the check record")
	}

	return ok(nil)
}
