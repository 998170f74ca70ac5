package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/akyairhashvil/taskspill/internal/config"
	"github.com/akyairhashvil/taskspill/internal/models"
)

// Load reads the saved snapshot. The boolean is false when nothing has ever
// been saved. A snapshot written by another schema version fails with
// ErrSchemaMismatch; one that breaks the timer invariants with
// ErrCorruptSnapshot.
func (d *Database) Load(ctx context.Context) (models.AppState, bool, error) {
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()

	rawVersion, ok, err := d.GetMeta(ctx, metaSchemaVersion)
	if err != nil {
		return models.EmptyState(), false, wrapSnapshotErr("load", err)
	}
	if !ok {
		return models.EmptyState(), false, nil
	}
	version, err := strconv.Atoi(rawVersion)
	if err != nil {
		return models.EmptyState(), false, wrapSnapshotErr("load", fmt.Errorf("%w: schema version %q", ErrCorruptSnapshot, rawVersion))
	}
	if version != config.SchemaVersion {
		return models.EmptyState(), false, wrapSnapshotErr("load", fmt.Errorf("%w: stored %d, want %d", ErrSchemaMismatch, version, config.SchemaVersion))
	}

	state, err := d.readState(ctx)
	if err != nil {
		return models.EmptyState(), false, wrapSnapshotErr("load", err)
	}
	if err := state.Validate(); err != nil {
		return models.EmptyState(), false, wrapSnapshotErr("load", fmt.Errorf("%w: %v", ErrCorruptSnapshot, err))
	}
	return state, true, nil
}

func (d *Database) readState(ctx context.Context) (models.AppState, error) {
	state := models.EmptyState()
	rows, err := d.DB.QueryContext(ctx, "SELECT id, name FROM tasks ORDER BY position ASC")
	if err != nil {
		return state, err
	}
	defer rows.Close()
	index := map[int64]int{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Name); err != nil {
			return state, err
		}
		task.Timers = []models.Interval{}
		index[task.ID] = len(state.Tasks)
		state.Tasks = append(state.Tasks, task)
	}
	if err := rows.Err(); err != nil {
		return state, err
	}

	intervalRows, err := d.DB.QueryContext(ctx, "SELECT task_id, start_ns, finish_ns, active, kind FROM intervals ORDER BY task_id ASC, seq ASC")
	if err != nil {
		return state, err
	}
	defer intervalRows.Close()
	for intervalRows.Next() {
		var (
			taskID  int64
			startNS int64
			finish  sql.NullInt64
			active  int
			kind    string
		)
		if err := intervalRows.Scan(&taskID, &startNS, &finish, &active, &kind); err != nil {
			return state, err
		}
		idx, ok := index[taskID]
		if !ok {
			return state, fmt.Errorf("%w: interval for unknown task %d", ErrCorruptSnapshot, taskID)
		}
		state.Tasks[idx].Timers = append(state.Tasks[idx].Timers, models.Interval{
			Start:  time.Unix(0, startNS).UTC(),
			Finish: timeFromNullable(finish),
			Active: active != 0,
			Kind:   models.IntervalKind(kind),
		})
	}
	if err := intervalRows.Err(); err != nil {
		return state, err
	}
	for i := range state.Tasks {
		state.Tasks[i].Elapsed = models.ComputeElapsed(state.Tasks[i].Timers)
	}

	rawActive, ok, err := d.GetMeta(ctx, metaActiveTaskID)
	if err != nil {
		return state, err
	}
	if ok && rawActive != "" {
		id, err := strconv.ParseInt(rawActive, 10, 64)
		if err != nil {
			return state, fmt.Errorf("%w: active task id %q", ErrCorruptSnapshot, rawActive)
		}
		state.ActiveTaskID = &id
	}
	return state, nil
}

// Save replaces the stored snapshot with state in one transaction.
func (d *Database) Save(ctx context.Context, state models.AppState) error {
	err := d.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM intervals"); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
			return err
		}
		taskStmt, err := tx.PrepareContext(ctx, "INSERT INTO tasks (id, name, position, elapsed_seconds) VALUES (?, ?, ?, ?)")
		if err != nil {
			return err
		}
		defer taskStmt.Close()
		intervalStmt, err := tx.PrepareContext(ctx, "INSERT INTO intervals (task_id, seq, start_ns, finish_ns, active, kind) VALUES (?, ?, ?, ?, ?, ?)")
		if err != nil {
			return err
		}
		defer intervalStmt.Close()

		for pos, task := range state.Tasks {
			if _, err := taskStmt.ExecContext(ctx, task.ID, task.Name, pos, task.Elapsed); err != nil {
				return wrapTaskErr("save", task.ID, err)
			}
			for seq, timer := range task.Timers {
				if _, err := intervalStmt.ExecContext(ctx, task.ID, seq, timer.Start.UnixNano(), nullableTime(timer.Finish), boolToInt(timer.Active), string(timer.Kind)); err != nil {
					return wrapTaskErr("save interval", task.ID, err)
				}
			}
		}

		if err := setMetaTx(ctx, tx, metaSchemaVersion, sql.NullString{String: strconv.Itoa(config.SchemaVersion), Valid: true}); err != nil {
			return err
		}
		if err := setMetaTx(ctx, tx, metaActiveTaskID, nullableID(state.ActiveTaskID)); err != nil {
			return err
		}
		return setMetaTx(ctx, tx, metaSavedAt, sql.NullString{String: time.Now().UTC().Format(time.RFC3339), Valid: true})
	})
	return wrapSnapshotErr("save", err)
}

// TaskTotals is a per-task summary used by reports.
type TaskTotals struct {
	ID             int64
	Name           string
	ElapsedSeconds int
	Work           int
	ShortBreaks    int
	LongBreaks     int
}

// GetTaskTotals aggregates interval counts per task in display order.
func (d *Database) GetTaskTotals(ctx context.Context) ([]TaskTotals, error) {
	ctx, cancel := d.withTimeout(ctx, defaultDBTimeout)
	defer cancel()
	rows, err := d.DB.QueryContext(ctx, `
		SELECT t.id, t.name, t.elapsed_seconds,
			COALESCE(SUM(CASE WHEN i.kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN i.kind = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN i.kind = ? THEN 1 ELSE 0 END), 0)
		FROM tasks t
		LEFT JOIN intervals i ON i.task_id = t.id
		GROUP BY t.id, t.name, t.elapsed_seconds, t.position
		ORDER BY t.position ASC`,
		string(models.KindWork), string(models.KindShortBreak), string(models.KindLongBreak))
	if err != nil {
		return nil, wrapSnapshotErr("totals", err)
	}
	defer rows.Close()
	var totals []TaskTotals
	for rows.Next() {
		var row TaskTotals
		if err := rows.Scan(&row.ID, &row.Name, &row.ElapsedSeconds, &row.Work, &row.ShortBreaks, &row.LongBreaks); err != nil {
			return nil, wrapSnapshotErr("totals", err)
		}
		totals = append(totals, row)
	}
	return totals, wrapSnapshotErr("totals", rows.Err())
}
