// Package store implements the record store: generic CRUD over named
// collections, each record an independently addressable JSON document
// identified by a string key. Two backends exist, a one-file-per-record
// store and a sqlite store; both guarantee that operations on a single
// (collection, key) pair appear atomic to readers.
package store

import (
	"context"
	"errors"
	"strings"
)

// Collection names used by the service.
const (
	Users  = "users"
	Tokens = "tokens"
	Checks = "checks"
)

// Store is the persistence contract shared by all backends.
//
// Create fails with common.ErrorAlreadyExists when the key is taken;
// Read, Update and Delete fail with common.ErrorNotFound when it is absent.
// Update replaces the stored value in full: callers read-modify-write.
type Store interface {
	Create(ctx context.Context, collection, key string, value any) error
	Read(ctx context.Context, collection, key string, out any) error
	Update(ctx context.Context, collection, key string, value any) error
	Delete(ctx context.Context, collection, key string) error
	List(ctx context.Context, collection string) ([]string, error)
}

var errInvalidName = errors.New("invalid collection or key")

// validNames rejects empty names and names that could escape the
// collection namespace (path separators, dot segments).
func validNames(collection, key string) error {
	for _, s := range []string{collection, key} {
		if s == "" || s == "." || s == ".." ||
			strings.ContainsAny(s, "/\\") {
			return errInvalidName
		}
	}
	return nil
}
