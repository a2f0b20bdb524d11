// Package transport adapts net/http to the handler layer. It owns the
// wire concerns the handlers are shielded from: URL and body parsing,
// response serialization, and server lifecycle. Handlers only ever see a
// normalized request and return one status/payload pair.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/upcheck/internal/logging"
	"github.com/dmitrijs2005/upcheck/internal/server/handlers"
)

// maxBodyBytes caps request bodies; anything larger is treated like a
// malformed body (empty payload).
const maxBodyBytes = 1 << 20

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address string
	router  *handlers.Router
	logger  logging.Logger
}

func NewHTTPServer(address string, router *handlers.Router, l logging.Logger) *HTTPServer {
	return &HTTPServer{
		address: address,
		router:  router,
		logger:  l.With("module", "http_server"),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeHTTP normalizes the request, dispatches it, and serializes the
// single terminal response.
func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := Normalize(r)
	resp := s.router.Handle(r.Context(), req)

	payload := resp.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error(r.Context(), "could not write response", "error", err)
	}

	s.logger.Info(r.Context(), "request handled",
		"method", req.Method, "path", req.Path, "status", resp.Status)
}

// Normalize converts an incoming HTTP request into the structure the
// handler layer consumes: trimmed path, lower-cased method, first query
// values, lower-cased header names, and a tolerantly parsed JSON body
// (parse failures yield an empty payload, never an error).
func Normalize(r *http.Request) *handlers.Request {
	query := make(map[string]string, len(r.URL.Query()))
	for name, vals := range r.URL.Query() {
		if len(vals) > 0 {
			query[name] = vals[0]
		}
	}

	headers := make(map[string]string, len(r.Header))
	for name, vals := range r.Header {
		if len(vals) > 0 {
			headers[strings.ToLower(name)] = vals[0]
		}
	}

	payload := map[string]any{}
	if r.Body != nil {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err == nil {
			if err := json.Unmarshal(body, &payload); err != nil {
				payload = map[string]any{}
			}
		}
	}

	return &handlers.Request{
		Path:    strings.Trim(r.URL.Path, "/"),
		Method:  strings.ToLower(r.Method),
		Query:   query,
		Headers: headers,
		Payload: payload,
	}
}
