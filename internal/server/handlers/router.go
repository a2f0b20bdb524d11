package handlers

import (
	"context"
	"net/http"
)

// Router maps a trimmed request path to its handler. The table is built
// once at startup and never mutated afterwards.
type Router struct {
	routes map[string]Handler
}

// NewRouter builds the immutable resource table.
func NewRouter(users *Users, tokens *Tokens, checks *Checks) *Router {
	return &Router{routes: map[string]Handler{
		"ping":   Ping,
		"hello":  Hello,
		"users":  byVerb(verbs{"post": users.Create, "get": users.Retrieve, "put": users.Update, "delete": users.Delete}),
		"tokens": byVerb(verbs{"post": tokens.Create, "get": tokens.Retrieve, "put": tokens.Update, "delete": tokens.Delete}),
		"checks": byVerb(verbs{"post": checks.Create, "get": checks.Retrieve, "put": checks.Update, "delete": checks.Delete}),
	}}
}

// Handle dispatches the request to the handler registered for its path,
// falling back to NotFound.
func (rt *Router) Handle(ctx context.Context, r *Request) *Response {
	h, found := rt.routes[r.Path]
	if !found {
		h = NotFound
	}
	return h(ctx, r)
}

type verbs map[string]Handler

// byVerb wraps a per-verb table into a Handler that answers 405 for any
// verb the resource does not support.
func byVerb(v verbs) Handler {
	return func(ctx context.Context, r *Request) *Response {
		h, found := v[r.Method]
		if !found {
			return respond(http.StatusMethodNotAllowed, nil)
		}
		return h(ctx, r)
	}
}

// Ping answers an empty 200 for liveness probes.
func Ping(ctx context.Context, r *Request) *Response {
	return ok(nil)
}

// Hello is the sample greeting handler.
func Hello(ctx context.Context, r *Request) *Response {
	return ok(map[string]string{"message": "hello"})
}

// NotFound is the fallback for unknown paths.
func NotFound(ctx context.Context, r *Request) *Response {
	return respond(http.StatusNotFound, nil)
}
