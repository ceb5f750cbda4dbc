package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage persists the two durable session entries: the raw token string and
// the JSON-serialized user record. Implementations must let Clear remove both
// entries so that one never survives without the other.
type Storage interface {
	ReadToken() (string, error)
	WriteToken(token string) error
	ReadUser() ([]byte, error)
	WriteUser(data []byte) error
	Clear() error
}

// ErrNotFound is returned by Read* when the entry does not exist.
var ErrNotFound = errors.New("session: entry not found")

// ---------------------------------------------------------------------------
// FileStorage
// ---------------------------------------------------------------------------

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// FileStorage keeps the session entries as two files under a state directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a FileStorage rooted at dir, creating it if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) ReadToken() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if os.IsNotExist(err) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *FileStorage) WriteToken(token string) error {
	return os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600)
}

func (s *FileStorage) ReadUser() ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *FileStorage) WriteUser(data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, userFile), data, 0o600)
}

func (s *FileStorage) Clear() error {
	var firstErr error
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// ---------------------------------------------------------------------------
// MemStorage
// ---------------------------------------------------------------------------

// MemStorage is an in-memory Storage for tests.
type MemStorage struct {
	mu    sync.Mutex
	token *string
	user  []byte
}

func NewMemStorage() *MemStorage { return &MemStorage{} }

func (s *MemStorage) ReadToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return "", ErrNotFound
	}
	return *s.token, nil
}

func (s *MemStorage) WriteToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = &token
	return nil
}

func (s *MemStorage) ReadUser() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), s.user...), nil
}

func (s *MemStorage) WriteUser(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = append([]byte(nil), data...)
	return nil
}

func (s *MemStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	s.user = nil
	return nil
}
