package db_test

import (
	"path/filepath"
	"testing"

	"github.com/tgienger/pmt/internal/db"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSettings_RoundTrip(t *testing.T) {
	database := openTestDB(t)

	got, err := database.GetSetting(db.KeyLastRoute)
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != "" {
		t.Errorf("unset setting = %q, want empty", got)
	}

	if err := database.SetSetting(db.KeyLastRoute, "/projects"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := database.SetSetting(db.KeyLastRoute, "/tasks"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}
	got, _ = database.GetSetting(db.KeyLastRoute)
	if got != "/tasks" {
		t.Errorf("got %q, want /tasks", got)
	}
}

func TestSettings_BatchWriteAndDelete(t *testing.T) {
	database := openTestDB(t)

	err := database.SetSettings(map[string]string{
		db.KeyToken: "abc",
		db.KeyUser:  `{"name":"Ada"}`,
	})
	if err != nil {
		t.Fatalf("SetSettings: %v", err)
	}
	if v, _ := database.GetSetting(db.KeyToken); v != "abc" {
		t.Errorf("token = %q", v)
	}

	if err := database.DeleteSettings(db.KeyToken, db.KeyUser); err != nil {
		t.Fatalf("DeleteSettings: %v", err)
	}
	for _, k := range []string{db.KeyToken, db.KeyUser} {
		if v, _ := database.GetSetting(k); v != "" {
			t.Errorf("%s = %q after delete", k, v)
		}
	}
}

func TestNew_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	first, err := db.New(path)
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	if err := first.SetSetting(db.KeyLastRoute, "/dashboard"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	first.Close()

	second, err := db.New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if v, _ := second.GetSetting(db.KeyLastRoute); v != "/dashboard" {
		t.Errorf("after reopen got %q", v)
	}
}
