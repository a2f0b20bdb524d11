package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/upcheck/internal/common"
	"github.com/dmitrijs2005/upcheck/internal/filex"
)

const fileExt = ".json"

// FileStore keeps each record as a standalone JSON file at
// <baseDir>/<collection>/<key>.json.
//
// Writes go to a uniquely named temp file in the same directory followed by
// a rename, so a crash mid-write never leaves a truncated record where a
// reader can see it. A per-(collection,key) mutex serializes writers on the
// same record.
type FileStore struct {
	baseDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates the base directory if needed and returns a store
// rooted there.
func NewFileStore(baseDir string) (*FileStore, error) {
	dir, err := filex.EnsureDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("store dir: %w", err)
	}
	return &FileStore{baseDir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// recordLock returns the mutex guarding one (collection, key) pair,
// creating it on first use.
func (s *FileStore) recordLock(collection, key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := collection + "/" + key
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

func (s *FileStore) recordPath(collection, key string) string {
	return filepath.Join(s.baseDir, collection, key+fileExt)
}

// writeRecord marshals the value and atomically replaces the record file.
func (s *FileStore) writeRecord(collection, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	dir := filepath.Join(s.baseDir, collection)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, "."+key+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0o660); err != nil {
		return fmt.Errorf("write temp record: %w", err)
	}

	if err := os.Rename(tmp, s.recordPath(collection, key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename record: %w", err)
	}
	return nil
}

func (s *FileStore) Create(ctx context.Context, collection, key string, value any) error {
	if err := validNames(collection, key); err != nil {
		return err
	}

	l := s.recordLock(collection, key)
	l.Lock()
	defer l.Unlock()

	if _, err := os.Stat(s.recordPath(collection, key)); err == nil {
		return common.ErrorAlreadyExists
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat record: %w", err)
	}

	return s.writeRecord(collection, key, value)
}

func (s *FileStore) Read(ctx context.Context, collection, key string, out any) error {
	if err := validNames(collection, key); err != nil {
		return err
	}

	l := s.recordLock(collection, key)
	l.Lock()
	defer l.Unlock()

	data, err := os.ReadFile(s.recordPath(collection, key))
	if err != nil {
		if os.IsNotExist(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("read record: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	return nil
}

func (s *FileStore) Update(ctx context.Context, collection, key string, value any) error {
	if err := validNames(collection, key); err != nil {
		return err
	}

	l := s.recordLock(collection, key)
	l.Lock()
	defer l.Unlock()

	if _, err := os.Stat(s.recordPath(collection, key)); err != nil {
		if os.IsNotExist(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("stat record: %w", err)
	}

	return s.writeRecord(collection, key, value)
}

func (s *FileStore) Delete(ctx context.Context, collection, key string) error {
	if err := validNames(collection, key); err != nil {
		return err
	}

	l := s.recordLock(collection, key)
	l.Lock()
	defer l.Unlock()

	if err := os.Remove(s.recordPath(collection, key)); err != nil {
		if os.IsNotExist(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context, collection string) ([]string, error) {
	if err := validNames(collection, "x"); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.baseDir, collection))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list collection: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	return keys, nil
}
