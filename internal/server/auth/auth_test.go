package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/upcheck/internal/common"
	"github.com/dmitrijs2005/upcheck/internal/server/models"
	"github.com/dmitrijs2005/upcheck/internal/server/store"
)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return NewService(s, time.Hour), s
}

func TestIssue(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	before := time.Now().UnixMilli()
	token, err := svc.Issue(ctx, "5551234567")
	require.NoError(t, err)

	assert.Len(t, token.ID, common.IDLength)
	assert.Equal(t, "5551234567", token.Phone)
	assert.GreaterOrEqual(t, token.Expires, before+time.Hour.Milliseconds())

	// the record must be durably stored under its id
	var stored models.Token
	require.NoError(t, s.Read(ctx, store.Tokens, token.ID, &stored))
	assert.Equal(t, *token, stored)
}

func TestVerify(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	token, err := svc.Issue(ctx, "5551234567")
	require.NoError(t, err)

	tests := []struct {
		name  string
		id    string
		phone string
		want  bool
	}{
		{"valid", token.ID, "5551234567", true},
		{"wrong phone", token.ID, "5550000000", false},
		{"unknown id", "aaaaaaaaaaaaaaaaaaaa", "5551234567", false},
		{"empty id", "", "5551234567", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.Verify(ctx, tt.id, tt.phone))
		})
	}

	t.Run("expired", func(t *testing.T) {
		expired := models.Token{
			ID:      "bbbbbbbbbbbbbbbbbbbb",
			Phone:   "5551234567",
			Expires: time.Now().Add(-time.Minute).UnixMilli(),
		}
		require.NoError(t, s.Create(ctx, store.Tokens, expired.ID, &expired))
		assert.False(t, svc.Verify(ctx, expired.ID, expired.Phone))
	})
}

func TestExtend(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	token, err := svc.Issue(ctx, "5551234567")
	require.NoError(t, err)

	// move the clock forward: extension should push expiry past the original
	svc.now = func() time.Time { return time.Now().Add(30 * time.Minute) }

	require.NoError(t, svc.Extend(ctx, token.ID))

	var extended models.Token
	require.NoError(t, svc.store.Read(ctx, store.Tokens, token.ID, &extended))
	assert.Greater(t, extended.Expires, token.Expires)
}

func TestExtend_Expired(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	expired := models.Token{
		ID:      "cccccccccccccccccccc",
		Phone:   "5551234567",
		Expires: time.Now().Add(-time.Minute).UnixMilli(),
	}
	require.NoError(t, s.Create(ctx, store.Tokens, expired.ID, &expired))

	err := svc.Extend(ctx, expired.ID)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	// expiry must be left unchanged
	var after models.Token
	require.NoError(t, s.Read(ctx, store.Tokens, expired.ID, &after))
	assert.Equal(t, expired.Expires, after.Expires)
}

func TestExtend_Missing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	err := svc.Extend(ctx, "dddddddddddddddddddd")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
