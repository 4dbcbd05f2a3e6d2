// Package store persists serialized task collections under fixed keys.
package store

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
)

// ErrInvalidKey is returned for keys that cannot be used as a file name.
var ErrInvalidKey = errors.New("invalid storage key")

var keyRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Store is a string-keyed blob store that survives process restarts.
type Store interface {
	// Save replaces the value stored under key.
	Save(key string, data []byte) error
	// Load returns the value under key. ok is false when the key is absent.
	Load(key string) (data []byte, ok bool, err error)
}

// ValidateKey checks that a key is a plain file-name-safe token.
func ValidateKey(key string) error {
	if !keyRe.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// MemoryStore keeps values in a map. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte

	// FailSave, when set, is returned by Save instead of storing.
	FailSave error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Save implements Store.
func (m *MemoryStore) Save(key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}
