// Package engine holds the pure task-timer state machine. Every operation
// takes an AppState value and returns a new one; inputs are never mutated
// and rejected commands leave the state untouched.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/akyairhashvil/taskspill/internal/config"
	"github.com/akyairhashvil/taskspill/internal/models"
	"github.com/akyairhashvil/taskspill/internal/util"
)

// Config holds the break cadence policy.
type Config struct {
	LongBreakEvery int
	CadenceWindow  int
}

// DefaultConfig returns the built-in cadence policy.
func DefaultConfig() Config {
	return Config{
		LongBreakEvery: config.LongBreakEvery,
		CadenceWindow:  config.CadenceWindow,
	}
}

// Engine applies task commands to app state snapshots.
type Engine struct {
	cfg Config
}

// New creates an Engine, replacing non-positive settings with defaults.
func New(cfg Config) *Engine {
	if cfg.LongBreakEvery <= 0 {
		cfg.LongBreakEvery = config.LongBreakEvery
	}
	if cfg.CadenceWindow < 0 {
		cfg.CadenceWindow = 0
	}
	return &Engine{cfg: cfg}
}

// Config returns the cadence policy in effect.
func (e *Engine) Config() Config {
	return e.cfg
}

// AddTask prepends a new idle task named name.
func (e *Engine) AddTask(state models.AppState, name string, now time.Time) (models.AppState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return state, wrapTaskErr("add", 0, fmt.Errorf("%w: task name is empty", ErrInvalidInput))
	}

	next := state.Clone()
	task := models.Task{
		ID:     nextID(next, now),
		Name:   name,
		Timers: []models.Interval{},
	}
	next.Tasks = append([]models.Task{task}, next.Tasks...)
	return next, nil
}

// RemoveTask deletes the task with id. Unknown ids fail with ErrNotFound.
func (e *Engine) RemoveTask(state models.AppState, id int64) (models.AppState, error) {
	idx := state.FindTask(id)
	if idx < 0 {
		return state, wrapTaskErr("remove", id, ErrNotFound)
	}

	next := state.Clone()
	next.Tasks = append(next.Tasks[:idx], next.Tasks[idx+1:]...)
	if next.IsActive(id) {
		next.ActiveTaskID = nil
	}
	return next, nil
}

// ToggleTimer pauses the task if it is running, otherwise starts its next
// interval. Any other running task is closed first so at most one interval
// is ever active. The toggled task moves to the front of the list.
func (e *Engine) ToggleTimer(state models.AppState, id int64, now time.Time) (models.AppState, error) {
	if state.FindTask(id) < 0 {
		return state, wrapTaskErr("toggle", id, ErrNotFound)
	}

	next := state.Clone()
	if next.ActiveTaskID != nil && *next.ActiveTaskID != id {
		if other := next.FindTask(*next.ActiveTaskID); other >= 0 {
			closeActive(&next.Tasks[other], now)
		}
		next.ActiveTaskID = nil
	}

	idx := next.FindTask(id)
	target := next.Tasks[idx]
	if next.IsActive(id) {
		closeActive(&target, now)
		next.ActiveTaskID = nil
	} else {
		kind := e.NextKind(target.Timers)
		target.Timers = append(target.Timers, models.Interval{
			Start:  now,
			Active: true,
			Kind:   kind,
		})
		next.ActiveTaskID = util.Ptr(id)
	}

	rest := append(next.Tasks[:idx:idx], next.Tasks[idx+1:]...)
	next.Tasks = append([]models.Task{target}, rest...)
	return next, nil
}

func closeActive(task *models.Task, now time.Time) {
	closedAny := false
	for i := range task.Timers {
		if !task.Timers[i].Active {
			continue
		}
		finish := now
		if finish.Before(task.Timers[i].Start) {
			finish = task.Timers[i].Start
		}
		task.Timers[i].Finish = &finish
		task.Timers[i].Active = false
		closedAny = true
	}
	if closedAny {
		task.Elapsed = models.ComputeElapsed(task.Timers)
	}
}

func nextID(state models.AppState, now time.Time) int64 {
	id := now.UnixMilli()
	for _, task := range state.Tasks {
		if task.ID >= id {
			id = task.ID + 1
		}
	}
	return id
}
