package main

import (
	"path/filepath"
	"testing"
)

// openTestDB opens a fresh database in the test's temp dir
func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDBOperators(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreateOperator("alice", "hash")
	if err != nil || id <= 0 {
		t.Fatalf("create operator: id=%d err=%v", id, err)
	}
	if _, err := db.CreateOperator("alice", "other"); err == nil {
		t.Error("expected duplicate username to fail")
	}

	op, err := db.GetOperatorByUsername("alice")
	if err != nil || op == nil {
		t.Fatalf("get operator: %v", err)
	}
	if op.ID != id || op.PassHash != "hash" {
		t.Errorf("unexpected operator %+v", op)
	}

	missing, err := db.GetOperatorByUsername("bob")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown user, got %v, %v", missing, err)
	}
	if ok, _ := db.UsernameExists("alice"); !ok {
		t.Error("expected alice to exist")
	}
}

func TestDBSettings(t *testing.T) {
	db := openTestDB(t)
	if v := db.GetSetting("k"); v != "" {
		t.Errorf("expected empty setting, got %q", v)
	}
	db.SetSetting("k", "one")
	db.SetSetting("k", "two")
	if v := db.GetSetting("k"); v != "two" {
		t.Errorf("expected upsert to keep the latest value, got %q", v)
	}
}

func TestDBProtectedNames(t *testing.T) {
	db := openTestDB(t)
	opID, _ := db.CreateOperator("alice", "hash")

	db.AddProtectedName("Zed", opID)
	db.AddProtectedName("Bessie", 0)
	if err := db.AddProtectedName("Bessie", opID); err != nil {
		t.Errorf("expected duplicate protect to be ignored, got %v", err)
	}
	names, err := db.ProtectedNames()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "Bessie" || names[1] != "Zed" {
		t.Errorf("expected [Bessie Zed], got %v", names)
	}

	db.RemoveProtectedName("Zed")
	if names, _ := db.ProtectedNames(); len(names) != 1 {
		t.Errorf("expected 1 name left, got %v", names)
	}
}
