package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// createTestBackend opens a SQLite backend in a temp directory.
func createTestBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	b, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	b, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer b.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		b, err := OpenSQLite(path)
		if err != nil {
			t.Fatalf("OpenSQLite() iteration %d failed: %v", i, err)
		}
		b.Close()
	}

	b, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("final OpenSQLite() failed: %v", err)
	}
	defer b.Close()

	var name string
	err = b.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='kv'").Scan(&name)
	if err != nil {
		t.Errorf("kv table not found after idempotent opens: %v", err)
	}
}

func TestOpenSQLite_Pragmas(t *testing.T) {
	b := createTestBackend(t)

	if err := b.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
	if err := b.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
	if err := b.verifyPragma("user_version", "1"); err != nil {
		t.Error(err)
	}
}

func TestOpenSQLite_MigratesLegacyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("sql.Open() failed: %v", err)
	}
	_, err = raw.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL, version INTEGER NOT NULL)`)
	if err != nil {
		t.Fatalf("create legacy table: %v", err)
	}
	_, err = raw.Exec(`INSERT INTO kv (key, value, version) VALUES ('aquaFlowData', '{}', 3)`)
	if err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}
	raw.Close()

	b, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() on legacy db failed: %v", err)
	}
	defer b.Close()

	ok, err := hasColumn(b.db, "kv", "updated_at")
	if err != nil || !ok {
		t.Fatalf("updated_at column missing after migration: ok=%v err=%v", ok, err)
	}

	_, version, err := b.Get(context.Background(), KeyDocument)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if version != 3 {
		t.Errorf("version = %d, want 3", version)
	}
}

func TestSQLiteBackend_PutGet(t *testing.T) {
	b := createTestBackend(t)
	ctx := context.Background()

	if _, _, err := b.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}

	v1, err := b.Put(ctx, "k", []byte(`"one"`), 0)
	if err != nil {
		t.Fatalf("Put create failed: %v", err)
	}
	if v1 != 1 {
		t.Errorf("first version = %d, want 1", v1)
	}

	v2, err := b.Put(ctx, "k", []byte(`"two"`), v1)
	if err != nil {
		t.Fatalf("Put update failed: %v", err)
	}

	value, version, err := b.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != `"two"` || version != v2 || v2 != 2 {
		t.Errorf("Get = (%s, %d), want (\"two\", 2)", value, version)
	}
}

func TestSQLiteBackend_PutConflicts(t *testing.T) {
	b := createTestBackend(t)
	ctx := context.Background()

	if _, err := b.Put(ctx, "k", []byte("a"), 0); err != nil {
		t.Fatalf("Put create failed: %v", err)
	}

	// Create-if-absent on an existing key
	if _, err := b.Put(ctx, "k", []byte("b"), 0); !errors.Is(err, ErrConflict) {
		t.Errorf("Put(expected=0) on existing key error = %v, want ErrConflict", err)
	}

	// Stale version
	if _, err := b.Put(ctx, "k", []byte("b"), 7); !errors.Is(err, ErrConflict) {
		t.Errorf("Put(stale) error = %v, want ErrConflict", err)
	}

	value, _, _ := b.Get(ctx, "k")
	if string(value) != "a" {
		t.Errorf("value changed by rejected write: %q", value)
	}
}

func TestSQLiteBackend_AnyVersionAndDelete(t *testing.T) {
	b := createTestBackend(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		v, err := b.Put(ctx, KeySession, []byte("x"), AnyVersion)
		if err != nil {
			t.Fatalf("Put(AnyVersion) failed: %v", err)
		}
		if v != int64(i) {
			t.Errorf("version after %d writes = %d", i, v)
		}
	}

	if err := b.Delete(ctx, KeySession); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := b.Delete(ctx, KeySession); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if _, _, err := b.Get(ctx, KeySession); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteBackend_Keys(t *testing.T) {
	b := createTestBackend(t)
	ctx := context.Background()

	for _, k := range []string{recoveryPrefix + "2", KeyDocument, recoveryPrefix + "1"} {
		if _, err := b.Put(ctx, k, []byte("{}"), 0); err != nil {
			t.Fatalf("Put(%s) failed: %v", k, err)
		}
	}

	keys, err := b.Keys(ctx, recoveryPrefix)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != recoveryPrefix+"1" || keys[1] != recoveryPrefix+"2" {
		t.Errorf("Keys = %v", keys)
	}
}
