package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/upcheck/internal/common"
	"github.com/dmitrijs2005/upcheck/internal/server/models"
	"github.com/dmitrijs2005/upcheck/internal/server/store"
)

func TestTokensCreate(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signup(t)

	before := time.Now().UnixMilli()
	resp := e.tokens.Create(ctx, payloadReq("post", map[string]any{
		"phone":    testPhone,
		"password": testPassword,
	}))
	require.Equal(t, http.StatusOK, resp.Status)

	token, isToken := resp.Payload.(*models.Token)
	require.True(t, isToken)
	assert.Len(t, token.ID, common.IDLength)
	assert.Equal(t, testPhone, token.Phone)
	assert.InDelta(t, before+time.Hour.Milliseconds(), token.Expires, float64(5*time.Second.Milliseconds()))
}

func TestTokensCreate_WrongPassword(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signup(t)

	resp := e.tokens.Create(ctx, payloadReq("post", map[string]any{
		"phone":    testPhone,
		"password": "not it",
	}))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestTokensCreate_UnknownUser(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	resp := e.tokens.Create(ctx, payloadReq("post", map[string]any{
		"phone":    "5550000000",
		"password": "whatever",
	}))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestTokensRetrieve(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signup(t)
	id := e.login(t)

	resp := e.tokens.Retrieve(ctx, queryReq("get", map[string]string{"id": id}, ""))
	require.Equal(t, http.StatusOK, resp.Status)

	token, isToken := resp.Payload.(models.Token)
	require.True(t, isToken)
	assert.Equal(t, id, token.ID)
}

func TestTokensRetrieve_Missing(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	resp := e.tokens.Retrieve(ctx, queryReq("get", map[string]string{"id": "aaaaaaaaaaaaaaaaaaaa"}, ""))
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = e.tokens.Retrieve(ctx, queryReq("get", map[string]string{"id": "tooshort"}, ""))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestTokensUpdate_Extends(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signup(t)
	id := e.login(t)

	var before models.Token
	require.NoError(t, e.store.Read(ctx, store.Tokens, id, &before))

	resp := e.tokens.Update(ctx, payloadReq("put", map[string]any{"id": id, "extend": true}))
	require.Equal(t, http.StatusOK, resp.Status)

	var after models.Token
	require.NoError(t, e.store.Read(ctx, store.Tokens, id, &after))
	assert.GreaterOrEqual(t, after.Expires, before.Expires)
}

func TestTokensUpdate_ExpiredOrMissing(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signup(t)

	expired := models.Token{
		ID:      "bbbbbbbbbbbbbbbbbbbb",
		Phone:   testPhone,
		Expires: time.Now().Add(-time.Minute).UnixMilli(),
	}
	require.NoError(t, e.store.Create(ctx, store.Tokens, expired.ID, &expired))

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"expired token", map[string]any{"id": expired.ID, "extend": true}},
		{"missing token", map[string]any{"id": "cccccccccccccccccccc", "extend": true}},
		{"extend flag absent", map[string]any{"id": expired.ID}},
		{"extend false", map[string]any{"id": expired.ID, "extend": false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := e.tokens.Update(ctx, payloadReq("put", tt.payload))
			assert.Equal(t, http.StatusBadRequest, resp.Status)
		})
	}

	// expiry untouched by the failed extension attempts
	var after models.Token
	require.NoError(t, e.store.Read(ctx, store.Tokens, expired.ID, &after))
	assert.Equal(t, expired.Expires, after.Expires)
}

func TestTokensDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.signup(t)
	id := e.login(t)

	resp := e.tokens.Delete(ctx, queryReq("delete", map[string]string{"id": id}, ""))
	require.Equal(t, http.StatusOK, resp.Status)

	// the token no longer authorizes anything
	assert.False(t, e.auth.Verify(ctx, id, testPhone))

	resp = e.tokens.Delete(ctx, queryReq("delete", map[string]string{"id": id}, ""))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}
