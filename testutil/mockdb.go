package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// SampleSessionsJSON is the persisted form of two sessions, the second holding one message
const SampleSessionsJSON = `[{"id":"s1","title":"A","messages":[]},{"id":"s2","title":"B","messages":[{"role":"user","content":"hi"}]}]`

// CreateInMemoryDB creates an in-memory SQLite database with the local_storage table
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// every pooled connection would otherwise see its own empty database
	db.SetMaxOpenConns(1)

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS local_storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		t.Fatalf("Failed to create local_storage table: %v", err)
	}

	return db
}

// CreateTestDB creates a test database holding SampleSessionsJSON with s1 active
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := CreateInMemoryDB(t)

	items := []struct {
		key   string
		value string
	}{
		{key: "sessions", value: SampleSessionsJSON},
		{key: "active-session-id", value: `"s1"`},
		{key: "scratch:broken", value: `{not json`},
	}

	stmt, err := db.Prepare("INSERT INTO local_storage (key, value) VALUES (?, ?)")
	if err != nil {
		db.Close()
		t.Fatalf("Failed to prepare insert statement: %v", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.Exec(item.key, item.value); err != nil {
			db.Close()
			t.Fatalf("Failed to insert %s: %v", item.key, err)
		}
	}

	return db
}

// InsertItem inserts a raw key/value row into the database
func InsertItem(t *testing.T, db *sql.DB, key, value string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO local_storage (key, value) VALUES (?, ?)", key, value); err != nil {
		t.Fatalf("Failed to insert item %s: %v", key, err)
	}
}
