package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/upcheck/internal/cryptox"
	"github.com/dmitrijs2005/upcheck/internal/logging"
	"github.com/dmitrijs2005/upcheck/internal/server/auth"
	"github.com/dmitrijs2005/upcheck/internal/server/models"
	"github.com/dmitrijs2005/upcheck/internal/server/store"
)

const (
	testPhone    = "5551234567"
	testPassword = "correct horse"
)

type env struct {
	store  store.Store
	auth   *auth.Service
	hasher *cryptox.Hasher
	users  *Users
	tokens *Tokens
	checks *Checks
	router *Router
}

func newEnv(t *testing.T) *env {
	t.Helper()

	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	hasher := cryptox.NewHasher("testSecret")
	authService := auth.NewService(s, time.Hour)

	e := &env{
		store:  s,
		auth:   authService,
		hasher: hasher,
		users:  NewUsers(s, authService, hasher, logger),
		tokens: NewTokens(s, authService, hasher, logger),
		checks: NewChecks(s, authService, 5, logger),
	}
	e.router = NewRouter(e.users, e.tokens, e.checks)
	return e
}

func payloadReq(method string, payload map[string]any) *Request {
	return &Request{
		Method:  method,
		Query:   map[string]string{},
		Headers: map[string]string{},
		Payload: payload,
	}
}

func queryReq(method string, query map[string]string, token string) *Request {
	headers := map[string]string{}
	if token != "" {
		headers["token"] = token
	}
	return &Request{
		Method:  method,
		Query:   query,
		Headers: headers,
		Payload: map[string]any{},
	}
}

func signupPayload() map[string]any {
	return map[string]any{
		"firstName":    "Ada",
		"lastName":     "Lovelace",
		"phone":        testPhone,
		"password":     testPassword,
		"tosAgreement": true,
	}
}

// signup creates the default test user and fails the test on any non-200.
func (e *env) signup(t *testing.T) {
	t.Helper()
	resp := e.users.Create(context.Background(), payloadReq("post", signupPayload()))
	require.Equal(t, http.StatusOK, resp.Status)
}

// login signs the default test user in and returns the token id.
func (e *env) login(t *testing.T) string {
	t.Helper()
	resp := e.tokens.Create(context.Background(), payloadReq("post", map[string]any{
		"phone":    testPhone,
		"password": testPassword,
	}))
	require.Equal(t, http.StatusOK, resp.Status)

	token, isToken := resp.Payload.(*models.Token)
	require.True(t, isToken, "login payload should be a token record")
	return token.ID
}

func checkPayload(token string) *Request {
	r := payloadReq("post", map[string]any{
		"protocol":       "https",
		"url":            "example.com",
		"method":         "get",
		"successCodes":   []any{float64(200), float64(201)},
		"timeoutSeconds": float64(3),
	})
	r.Headers["token"] = token
	return r
}

// createCheck registers one check and returns it.
func (e *env) createCheck(t *testing.T, token string) models.Check {
	t.Helper()
	resp := e.checks.Create(context.Background(), checkPayload(token))
	require.Equal(t, http.StatusOK, resp.Status)

	check, isCheck := resp.Payload.(models.Check)
	require.True(t, isCheck, "create payload should be a check record")
	return check
}
