package internal

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/iksnae/hookchat/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// failingStore rejects every write and optionally every read
type failingStore struct {
	*MemoryStore
	failReads bool
}

func (f *failingStore) GetItem(key string) (string, bool, error) {
	if f.failReads {
		return "", false, errors.New("read refused")
	}
	return f.MemoryStore.GetItem(key)
}

func (f *failingStore) SetItem(key, value string) error {
	return &StorageError{Path: "memory", Op: "write", Err: errors.New("quota exceeded")}
}

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db := testutil.CreateInMemoryDB(t)
	store, err := NewSQLiteStore(db, ":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestKeyValueStores(t *testing.T) {
	stores := map[string]func(t *testing.T) KeyValueStore{
		"memory": func(t *testing.T) KeyValueStore { return NewMemoryStore() },
		"sqlite": func(t *testing.T) KeyValueStore { return newTestSQLiteStore(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			kv := newStore(t)

			if _, ok, err := kv.GetItem("missing"); ok || err != nil {
				t.Errorf("GetItem(missing) = ok %v, err %v; want false, nil", ok, err)
			}

			if err := kv.SetItem("b", "1"); err != nil {
				t.Fatalf("SetItem() error = %v", err)
			}
			if err := kv.SetItem("a", "2"); err != nil {
				t.Fatalf("SetItem() error = %v", err)
			}
			if err := kv.SetItem("b", "3"); err != nil {
				t.Fatalf("SetItem() overwrite error = %v", err)
			}

			v, ok, err := kv.GetItem("b")
			if err != nil || !ok || v != "3" {
				t.Errorf("GetItem(b) = %q, %v, %v; want \"3\", true, nil", v, ok, err)
			}

			keys, err := kv.Keys()
			if err != nil {
				t.Fatalf("Keys() error = %v", err)
			}
			if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
				t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
			}

			if err := kv.RemoveItem("a"); err != nil {
				t.Fatalf("RemoveItem() error = %v", err)
			}
			if err := kv.RemoveItem("a"); err != nil {
				t.Errorf("RemoveItem() on missing key error = %v", err)
			}
			if _, ok, _ := kv.GetItem("a"); ok {
				t.Error("GetItem(a) after RemoveItem still present")
			}
		})
	}
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	dbPath := filepath.Join(testutil.CreateTempDir(t), "hookchat.db")

	store, err := OpenSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	NewStoreAdapter(store).Set(KeyActiveSessionID, "session-1")
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLiteStore() reopen error = %v", err)
	}
	defer reopened.Close()

	got := Get[*string](NewStoreAdapter(reopened), KeyActiveSessionID, nil)
	if got == nil || *got != "session-1" {
		t.Errorf("reopened active id = %v, want session-1", got)
	}
}

func TestStoreAdapter_RoundTrip(t *testing.T) {
	adapter := NewStoreAdapter(NewMemoryStore())

	sessions := []Session{
		{ID: "s1", Title: "A", Messages: []Message{}},
		{ID: "s2", Title: "B", Messages: []Message{{Role: RoleUser, Content: "hi"}}},
	}
	adapter.Set(KeySessions, sessions)
	got := Get(adapter, KeySessions, []Session{{ID: "default"}})
	if diff := cmp.Diff(sessions, got); diff != "" {
		t.Errorf("sessions round trip mismatch (-want +got):\n%s", diff)
	}

	generic := map[string]any{"n": 1.5, "list": []any{"x", true, nil}}
	adapter.Set("generic", generic)
	if diff := cmp.Diff(generic, Get[map[string]any](adapter, "generic", nil)); diff != "" {
		t.Errorf("generic round trip mismatch (-want +got):\n%s", diff)
	}

	adapter.Set(KeyActiveSessionID, nil)
	if got := Get(adapter, KeyActiveSessionID, ptr("fallback")); got != nil {
		t.Errorf("null active id decoded as %q, want nil", *got)
	}
}

func TestStoreAdapter_GetFallsBackToDefault(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := SetLogger(zap.New(core))
	defer restore()

	mem := NewMemoryStore()
	_ = mem.SetItem("broken", "{not json")
	adapter := NewStoreAdapter(mem)

	if got := Get(adapter, "missing", 42); got != 42 {
		t.Errorf("Get(missing) = %d, want default 42", got)
	}
	if logs.Len() != 0 {
		t.Errorf("missing key logged %d entries, want 0", logs.Len())
	}

	if got := Get(adapter, "broken", []Session{}); got == nil || len(got) != 0 {
		t.Errorf("Get(broken) = %v, want empty default", got)
	}
	if logs.FilterMessageSnippet("parse error").Len() != 1 {
		t.Errorf("invalid JSON should log one parse error, got %v", logs.All())
	}

	unreadable := NewStoreAdapter(&failingStore{MemoryStore: NewMemoryStore(), failReads: true})
	if got := Get(unreadable, KeySessions, "default"); got != "default" {
		t.Errorf("Get() on failing store = %q, want default", got)
	}
}

func TestStoreAdapter_SetFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := SetLogger(zap.New(core))
	defer restore()

	mem := NewMemoryStore()
	_ = mem.SetItem(KeySessions, `[]`)
	adapter := NewStoreAdapter(&failingStore{MemoryStore: mem})

	adapter.Set(KeySessions, []Session{NewSession("s1")})

	if logs.FilterLevelExact(zapcore.ErrorLevel).Len() != 1 {
		t.Errorf("write failure should log one error, got %d", logs.Len())
	}
	if v, _, _ := mem.GetItem(KeySessions); v != `[]` {
		t.Errorf("prior persisted value = %q, want unchanged []", v)
	}

	adapter.Set("unencodable", func() {})
	if logs.Len() != 2 {
		t.Errorf("encode failure should be logged, got %d entries", logs.Len())
	}
}

func ptr(s string) *string { return &s }
