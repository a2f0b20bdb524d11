package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter_Dispatch(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	tests := []struct {
		name       string
		path       string
		method     string
		wantStatus int
	}{
		{"ping", "ping", "get", http.StatusOK},
		{"hello", "hello", "get", http.StatusOK},
		{"unknown path", "nope", "get", http.StatusNotFound},
		{"unsupported verb on users", "users", "patch", http.StatusMethodNotAllowed},
		{"unsupported verb on tokens", "tokens", "head", http.StatusMethodNotAllowed},
		{"unsupported verb on checks", "checks", "options", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := queryReq(tt.method, map[string]string{}, "")
			r.Path = tt.path

			resp := e.router.Handle(ctx, r)
			assert.Equal(t, tt.wantStatus, resp.Status)
		})
	}
}

func TestHello_Payload(t *testing.T) {
	resp := Hello(context.Background(), queryReq("get", map[string]string{}, ""))
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, map[string]string{"message": "hello"}, resp.Payload)
}
