package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "test.db")
	store, err := OpenSQLite(path, log.Discard())
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_KV(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := store.Put(ctx, "k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "k", "v2"); err != nil {
		t.Fatal(err)
	}

	value, ok, err := store.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if value != "v2" {
		t.Errorf("expected last write to win, got %q", value)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key should not fail: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("key still present after delete")
	}
}

func TestOpenSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	first, err := OpenSQLite(path, log.Discard())
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Put(ctx, "session", "x"); err != nil {
		t.Fatal(err)
	}
	first.Close()

	// Migrations must be idempotent
	second, err := OpenSQLite(path, log.Discard())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	if v, ok, _ := second.Get(ctx, "session"); !ok || v != "x" {
		t.Errorf("value lost across reopen: %q %v", v, ok)
	}
}

func TestExportUsers(t *testing.T) {
	dir := t.TempDir()
	users := []model.User{
		{ID: 1, FullName: "Ana", NationalID: "123", Password: "secret", Role: model.RoleAdmin},
		{ID: 2, FullName: "Luis", NationalID: "456", Role: model.RoleUser},
	}

	jsonPath := filepath.Join(dir, "out", "usuarios.json")
	if err := ExportUsers(jsonPath, FormatFromFilename(jsonPath), users); err != nil {
		t.Fatalf("ExportUsers json: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("password written to export")
	}
	var decoded struct {
		Users []model.User `json:"usuarios"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Users) != 2 || decoded.Users[0].Role != model.RoleAdmin {
		t.Errorf("unexpected export: %+v", decoded.Users)
	}
	if users[0].Password != "secret" {
		t.Error("export must not modify the caller's slice")
	}

	xmlPath := filepath.Join(dir, "usuarios.xml")
	if err := ExportUsers(xmlPath, FormatFromFilename(xmlPath), users); err != nil {
		t.Fatalf("ExportUsers xml: %v", err)
	}
	data, _ = os.ReadFile(xmlPath)
	if !strings.Contains(string(data), "<usuarios>") || !strings.Contains(string(data), "<nombre>Luis</nombre>") {
		t.Errorf("unexpected xml: %s", data)
	}
}

func TestExport_UnsupportedFormat(t *testing.T) {
	err := ExportQuestions(filepath.Join(t.TempDir(), "x.csv"), "csv", nil)
	if err == nil {
		t.Error("expected unsupported format error")
	}
}

func TestSQLiteStore_Activity(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries, err := store.RecentActivity(ctx, 10)
	if err != nil || len(entries) != 0 {
		t.Fatalf("empty journal = %v, %v", entries, err)
	}

	for _, kind := range []string{"session_started", "navigated", "survey_submitted"} {
		if err := store.RecordActivity(ctx, kind, "detail "+kind); err != nil {
			t.Fatal(err)
		}
	}

	entries, err = store.RecentActivity(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Kind != "navigated" || entries[1].Kind != "survey_submitted" {
		t.Errorf("entries out of order: %+v", entries)
	}
	if entries[1].Detail != "detail survey_submitted" || entries[1].Created.IsZero() {
		t.Errorf("unexpected entry %+v", entries[1])
	}
}
