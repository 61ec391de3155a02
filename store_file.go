package memo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// fileStore lays entries out as one directory per scope with one file per
// key, both named by content hash so arbitrary strings are safe on any
// filesystem. Purging a scope removes its directory.
type fileStore struct {
	dir string
}

func newFileStore(dir string) Store {
	if dir == "" {
		dir = defaultFileDir()
	}
	return &fileStore{dir: dir}
}

func (s *fileStore) Driver() Driver { return DriverFile }

func (s *fileStore) Get(_ context.Context, scope, key string) ([]byte, bool, error) {
	body, err := os.ReadFile(s.entryPath(scope, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (s *fileStore) Set(_ context.Context, scope, key string, value []byte) error {
	scopeDir := s.scopeDir(scope)
	if err := os.MkdirAll(scopeDir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(scopeDir, "entry-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.entryPath(scope, key)); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (s *fileStore) Delete(_ context.Context, scope, key string) error {
	err := os.Remove(s.entryPath(scope, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *fileStore) Purge(_ context.Context, scope string) error {
	return os.RemoveAll(s.scopeDir(scope))
}

func (s *fileStore) Flush(_ context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(s.dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (s *fileStore) scopeDir(scope string) string {
	return filepath.Join(s.dir, hashName(scope))
}

func (s *fileStore) entryPath(scope, key string) string {
	return filepath.Join(s.scopeDir(scope), hashName(key)+".bin")
}

func hashName(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:16])
}
