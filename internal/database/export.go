package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akyairhashvil/taskspill/internal/config"
	"github.com/akyairhashvil/taskspill/internal/models"
	"github.com/akyairhashvil/taskspill/internal/util"
)

// SnapshotExport is the portable JSON form of a snapshot.
type SnapshotExport struct {
	SchemaVersion int             `json:"schema_version"`
	ExportedAt    string          `json:"exported_at"`
	State         models.AppState `json:"state"`
}

type ExportOptions struct {
	EncryptOutput bool
	Passphrase    string
}

// ExportSnapshot serializes the stored snapshot, optionally sealed with a passphrase.
func (d *Database) ExportSnapshot(ctx context.Context, opts ExportOptions) ([]byte, error) {
	state, _, err := d.Load(ctx)
	if err != nil {
		return nil, err
	}
	export := SnapshotExport{
		SchemaVersion: config.SchemaVersion,
		ExportedAt:    time.Now().UTC().Format(time.RFC3339),
		State:         state,
	}
	jsonData, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, wrapSnapshotErr("export", err)
	}
	if opts.EncryptOutput && opts.Passphrase != "" {
		return util.Seal(jsonData, opts.Passphrase)
	}
	return jsonData, nil
}

// ImportSnapshot replaces the stored snapshot with an exported one.
// Sealed payloads require passphrase.
func (d *Database) ImportSnapshot(ctx context.Context, payload []byte, passphrase string) (models.AppState, error) {
	if util.IsSealed(payload) {
		if passphrase == "" {
			return models.AppState{}, ErrPassphraseNeeded
		}
		plain, err := util.Unseal(payload, passphrase)
		if err != nil {
			return models.AppState{}, wrapSnapshotErr("import", err)
		}
		payload = plain
	}

	var export SnapshotExport
	if err := json.Unmarshal(payload, &export); err != nil {
		return models.AppState{}, wrapSnapshotErr("import", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
	}
	if export.SchemaVersion != config.SchemaVersion {
		return models.AppState{}, wrapSnapshotErr("import", fmt.Errorf("%w: file %d, want %d", ErrSchemaMismatch, export.SchemaVersion, config.SchemaVersion))
	}
	state := export.State
	if state.Tasks == nil {
		state.Tasks = []models.Task{}
	}
	for i := range state.Tasks {
		state.Tasks[i].Elapsed = models.ComputeElapsed(state.Tasks[i].Timers)
	}
	if err := state.Validate(); err != nil {
		return models.AppState{}, wrapSnapshotErr("import", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
	}
	if err := d.Save(ctx, state); err != nil {
		return models.AppState{}, err
	}
	return state, nil
}
