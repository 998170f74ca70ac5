package database

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/akyairhashvil/taskspill/internal/config"
	"github.com/akyairhashvil/taskspill/internal/util"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t, ctx)
	if err := src.Save(ctx, sampleState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	payload, err := src.ExportSnapshot(ctx, ExportOptions{})
	if err != nil {
		t.Fatalf("ExportSnapshot failed: %v", err)
	}
	var export SnapshotExport
	if err := json.Unmarshal(payload, &export); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if export.SchemaVersion != config.SchemaVersion || len(export.State.Tasks) != 3 {
		t.Fatalf("unexpected export: %+v", export)
	}

	dst := setupTestDB(t, ctx)
	imported, err := dst.ImportSnapshot(ctx, payload, "")
	if err != nil {
		t.Fatalf("ImportSnapshot failed: %v", err)
	}
	if len(imported.Tasks) != 3 || imported.ActiveTaskID == nil {
		t.Fatalf("unexpected imported state: %+v", imported)
	}
	loaded, ok, err := dst.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load after import failed: ok=%v err=%v", ok, err)
	}
	if loaded.Tasks[0].Name != "Running" {
		t.Fatalf("unexpected first task %q", loaded.Tasks[0].Name)
	}
}

func TestEncryptedExport(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t, ctx)
	if err := src.Save(ctx, sampleState()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	payload, err := src.ExportSnapshot(ctx, ExportOptions{EncryptOutput: true, Passphrase: "pass1234"})
	if err != nil {
		t.Fatalf("ExportSnapshot failed: %v", err)
	}
	if !util.IsSealed(payload) {
		t.Fatalf("expected sealed payload")
	}

	dst := setupTestDB(t, ctx)
	if _, err := dst.ImportSnapshot(ctx, payload, ""); !errors.Is(err, ErrPassphraseNeeded) {
		t.Fatalf("expected ErrPassphraseNeeded, got %v", err)
	}
	if _, err := dst.ImportSnapshot(ctx, payload, "wrong999"); !errors.Is(err, util.ErrWrongPassphrase) {
		t.Fatalf("expected ErrWrongPassphrase, got %v", err)
	}
	if _, err := dst.ImportSnapshot(ctx, payload, "pass1234"); err != nil {
		t.Fatalf("ImportSnapshot failed: %v", err)
	}
}

func TestImportRejectsBadPayloads(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t, ctx)

	if _, err := db.ImportSnapshot(ctx, []byte("not json"), ""); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
	}
	if _, err := db.ImportSnapshot(ctx, []byte(`{"schema_version":42,"state":{"tasks":[]}}`), ""); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	twoActive := `{"schema_version":1,"state":{"tasks":[
		{"id":1,"name":"a","timers":[{"start":"2024-03-01T09:00:00Z","active":true,"kind":"work"}]},
		{"id":2,"name":"b","timers":[{"start":"2024-03-01T09:00:00Z","active":true,"kind":"work"}]}
	],"active_task_id":1}}`
	if _, err := db.ImportSnapshot(ctx, []byte(twoActive), ""); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot for two active intervals, got %v", err)
	}
	if _, ok, _ := db.Load(ctx); ok {
		t.Fatalf("rejected imports must not write a snapshot")
	}
}
