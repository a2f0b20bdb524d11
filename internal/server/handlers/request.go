// Package handlers implements the resource layer of the API: per-resource
// validation, authorization enforcement, and orchestration of record store
// operations for users, tokens, and checks. Handlers sit above the
// transport boundary: they receive a normalized Request and return exactly
// one status/payload Response.
package handlers

import (
	"context"
	"net/http"
)

// Request is the structured request handed over by the transport: trimmed
// path, lower-cased method, first query values, headers (including the
// optional "token" bearer header), and the body deserialized into a generic
// map (an empty map when deserialization failed).
type Request struct {
	Path    string
	Method  string
	Query   map[string]string
	Headers map[string]string
	Payload map[string]any
}

// Token returns the bearer token id from the request headers, or "".
func (r *Request) Token() string {
	return r.Headers["token"]
}

// Response is the single terminal result of handling a request. A nil
// Payload is serialized by the transport as an empty object.
type Response struct {
	Status  int
	Payload any
}

// Handler processes one request to completion.
type Handler func(ctx context.Context, r *Request) *Response

func respond(status int, payload any) *Response {
	return &Response{Status: status, Payload: payload}
}

func ok(payload any) *Response {
	return respond(http.StatusOK, payload)
}

// errResponse wraps a client-facing message in the conventional error
// payload shape.
func errResponse(status int, msg string) *Response {
	return respond(status, map[string]string{"Error": msg})
}
