package internal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Persisted keys
const (
	KeySessions        = "sessions"
	KeyActiveSessionID = "active-session-id"
)

// KeyValueStore is a string-keyed, string-valued persistent store
type KeyValueStore interface {
	// GetItem returns the raw value and whether the key exists
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Keys() ([]string, error)
}

// SQLiteStore keeps items in the local_storage table
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore wraps an open database, creating the local_storage table if needed
func NewSQLiteStore(db *sql.DB, path string) (*SQLiteStore, error) {
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// OpenSQLiteStore opens the database file at path and wraps it
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// GetItem reads a single value
func (s *SQLiteStore) GetItem(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM local_storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageError{Path: s.path, Op: "read", Err: err}
	}
	return value, true, nil
}

// SetItem inserts or replaces a value
func (s *SQLiteStore) SetItem(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO local_storage (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return &StorageError{Path: s.path, Op: "write", Err: err}
	}
	return nil
}

// RemoveItem deletes a key; deleting a missing key is not an error
func (s *SQLiteStore) RemoveItem(key string) error {
	if _, err := s.db.Exec("DELETE FROM local_storage WHERE key = ?", key); err != nil {
		return &StorageError{Path: s.path, Op: "delete", Err: err}
	}
	return nil
}

// Keys lists every stored key in lexical order
func (s *SQLiteStore) Keys() ([]string, error) {
	pairs, err := QueryLocalStorage(s.db, "%")
	if err != nil {
		return nil, &StorageError{Path: s.path, Op: "read", Err: err}
	}
	keys := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		keys = append(keys, pair.Key)
	}
	return keys, nil
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// MemoryStore is a map-backed KeyValueStore
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

func (m *MemoryStore) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStore) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStore) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *MemoryStore) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// StoreAdapter encodes values as JSON on top of a KeyValueStore. It never reports
// failures to callers: reads fall back to a default and writes are logged and dropped.
type StoreAdapter struct {
	kv KeyValueStore
}

// NewStoreAdapter creates an adapter over kv
func NewStoreAdapter(kv KeyValueStore) *StoreAdapter {
	return &StoreAdapter{kv: kv}
}

// Get decodes the value stored at key, returning def when the key is absent,
// unreadable, or holds invalid JSON.
func Get[T any](a *StoreAdapter, key string, def T) T {
	raw, ok, err := a.kv.GetItem(key)
	if err != nil {
		LogError("Failed to read %s: %v", key, err)
		return def
	}
	if !ok {
		return def
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		LogError("%v", &ParseError{Source: "localStorage", Key: key, Err: err})
		return def
	}
	return value
}

// Set encodes value as JSON and writes it to key. On failure the previously
// persisted value is left in place.
func (a *StoreAdapter) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		LogError("%v", fmt.Errorf("failed to encode %s: %w", key, err))
		return
	}
	if err := a.kv.SetItem(key, string(data)); err != nil {
		LogError("Failed to persist %s: %v", key, err)
	}
}
