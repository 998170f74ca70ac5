package models

import (
	"errors"
	"fmt"
	"time"
)

// IntervalKind classifies a timed span. It is fixed when the interval is created.
type IntervalKind string

const (
	KindWork       IntervalKind = "work"
	KindShortBreak IntervalKind = "short_break"
	KindLongBreak  IntervalKind = "long_break"
)

// IsBreak reports whether the kind is a short or long break.
func (k IntervalKind) IsBreak() bool {
	return k == KindShortBreak || k == KindLongBreak
}

// Valid reports whether k is one of the known kinds.
func (k IntervalKind) Valid() bool {
	switch k {
	case KindWork, KindShortBreak, KindLongBreak:
		return true
	}
	return false
}

// Label returns a human-readable kind name.
func (k IntervalKind) Label() string {
	switch k {
	case KindShortBreak:
		return "Short break"
	case KindLongBreak:
		return "Long break"
	default:
		return "Work"
	}
}

// Interval is one contiguous timed span belonging to a task.
type Interval struct {
	Start  time.Time    `json:"start"`
	Finish *time.Time   `json:"finish,omitempty"`
	Active bool         `json:"active"`
	Kind   IntervalKind `json:"kind"`
}

// Closed reports whether both endpoints are set.
func (i Interval) Closed() bool {
	return i.Finish != nil
}

// Seconds returns the whole seconds between start and finish, or zero while open.
func (i Interval) Seconds() int {
	if i.Finish == nil {
		return 0
	}
	secs := int(i.Finish.Sub(i.Start) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// Task is a named unit of work with its interval history.
type Task struct {
	ID      int64      `json:"id"`
	Name    string     `json:"name"`
	Timers  []Interval `json:"timers"`
	Elapsed int        `json:"elapsed"` // seconds of closed work intervals
}

// ActiveInterval returns the running interval, if any.
func (t *Task) ActiveInterval() *Interval {
	if len(t.Timers) == 0 {
		return nil
	}
	last := &t.Timers[len(t.Timers)-1]
	if !last.Active {
		return nil
	}
	return last
}

// LastInterval returns the most recently pushed interval.
func (t Task) LastInterval() (Interval, bool) {
	if len(t.Timers) == 0 {
		return Interval{}, false
	}
	return t.Timers[len(t.Timers)-1], true
}

// ElapsedAt returns the completed work time plus the running work span at now.
func (t Task) ElapsedAt(now time.Time) time.Duration {
	total := time.Duration(t.Elapsed) * time.Second
	if last, ok := t.LastInterval(); ok && last.Active && last.Kind == KindWork {
		if running := now.Sub(last.Start); running > 0 {
			total += running.Truncate(time.Second)
		}
	}
	return total
}

// CountKind returns how many intervals of the given kind the task holds.
func (t Task) CountKind(kind IntervalKind) int {
	n := 0
	for _, timer := range t.Timers {
		if timer.Kind == kind {
			n++
		}
	}
	return n
}

// ComputeElapsed sums closed work interval seconds. Breaks never contribute.
func ComputeElapsed(timers []Interval) int {
	total := 0
	for _, timer := range timers {
		if timer.Kind != KindWork || !timer.Closed() {
			continue
		}
		total += timer.Seconds()
	}
	return total
}

// AppState is the full snapshot of tasks and the active pointer.
type AppState struct {
	Tasks        []Task `json:"tasks"`
	ActiveTaskID *int64 `json:"active_task_id,omitempty"`
}

// EmptyState returns a state with no tasks and nothing running.
func EmptyState() AppState {
	return AppState{Tasks: []Task{}}
}

// Clone returns a deep copy that shares no memory with s.
func (s AppState) Clone() AppState {
	out := AppState{Tasks: make([]Task, len(s.Tasks))}
	for i, task := range s.Tasks {
		out.Tasks[i] = task.clone()
	}
	if s.ActiveTaskID != nil {
		id := *s.ActiveTaskID
		out.ActiveTaskID = &id
	}
	return out
}

func (t Task) clone() Task {
	out := t
	if t.Timers != nil {
		out.Timers = make([]Interval, len(t.Timers))
		for i, timer := range t.Timers {
			if timer.Finish != nil {
				finish := *timer.Finish
				timer.Finish = &finish
			}
			out.Timers[i] = timer
		}
	}
	return out
}

// FindTask returns the index of the task with id, or -1.
func (s AppState) FindTask(id int64) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// IsActive reports whether id is the running task.
func (s AppState) IsActive(id int64) bool {
	return s.ActiveTaskID != nil && *s.ActiveTaskID == id
}

// ActiveTask returns the running task, if any.
func (s AppState) ActiveTask() *Task {
	if s.ActiveTaskID == nil {
		return nil
	}
	idx := s.FindTask(*s.ActiveTaskID)
	if idx < 0 {
		return nil
	}
	return &s.Tasks[idx]
}

// ErrInvalidState reports a snapshot that breaks the timer invariants.
var ErrInvalidState = errors.New("invalid app state")

// Validate checks the single-active, active-pointer and last-open invariants.
func (s AppState) Validate() error {
	seen := make(map[int64]bool, len(s.Tasks))
	var activeOwner *int64
	for _, task := range s.Tasks {
		if seen[task.ID] {
			return fmt.Errorf("%w: duplicate task id %d", ErrInvalidState, task.ID)
		}
		seen[task.ID] = true
		for i, timer := range task.Timers {
			if !timer.Kind.Valid() {
				return fmt.Errorf("%w: task %d interval %d has kind %q", ErrInvalidState, task.ID, i, timer.Kind)
			}
			last := i == len(task.Timers)-1
			if !last && (timer.Active || timer.Finish == nil) {
				return fmt.Errorf("%w: task %d interval %d left open", ErrInvalidState, task.ID, i)
			}
			if timer.Active && timer.Finish != nil {
				return fmt.Errorf("%w: task %d interval %d active but finished", ErrInvalidState, task.ID, i)
			}
			if last && !timer.Active && timer.Finish == nil {
				return fmt.Errorf("%w: task %d interval %d never finished", ErrInvalidState, task.ID, i)
			}
			if timer.Active {
				if activeOwner != nil {
					return fmt.Errorf("%w: tasks %d and %d both running", ErrInvalidState, *activeOwner, task.ID)
				}
				id := task.ID
				activeOwner = &id
			}
		}
	}
	switch {
	case activeOwner == nil && s.ActiveTaskID != nil:
		return fmt.Errorf("%w: active task %d has no running interval", ErrInvalidState, *s.ActiveTaskID)
	case activeOwner != nil && s.ActiveTaskID == nil:
		return fmt.Errorf("%w: task %d running without active pointer", ErrInvalidState, *activeOwner)
	case activeOwner != nil && *activeOwner != *s.ActiveTaskID:
		return fmt.Errorf("%w: active pointer %d does not match running task %d", ErrInvalidState, *s.ActiveTaskID, *activeOwner)
	}
	return nil
}
