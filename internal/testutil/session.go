package testutil

import (
	"path/filepath"
	"testing"

	"github.com/tgienger/pmt/internal/db"
	"github.com/tgienger/pmt/internal/session"
)

// NewDB opens a settings database in a temp dir, closed when the test ends.
func NewDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "pmt.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// NewSession returns an empty session store backed by NewDB.
func NewSession(t *testing.T) *session.Store {
	t.Helper()
	return session.New(NewDB(t))
}
