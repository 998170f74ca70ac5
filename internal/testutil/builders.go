package testutil

import (
	"time"

	"github.com/akyairhashvil/taskspill/internal/models"
)

// Epoch is the fixed reference instant used by tests.
var Epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// At returns Epoch shifted by sec seconds.
func At(sec int) time.Time {
	return Epoch.Add(time.Duration(sec) * time.Second)
}

// TaskBuilder provides fluent API for creating test tasks.
type TaskBuilder struct {
	task   models.Task
	cursor int
}

func NewTask() *TaskBuilder {
	return &TaskBuilder{
		task: models.Task{
			ID:   1,
			Name: "Test Task",
		},
	}
}

func (b *TaskBuilder) WithID(id int64) *TaskBuilder {
	b.task.ID = id
	return b
}

func (b *TaskBuilder) WithName(name string) *TaskBuilder {
	b.task.Name = name
	return b
}

// Closed appends a finished interval of the given kind lasting secs seconds,
// starting where the previous interval ended.
func (b *TaskBuilder) Closed(kind models.IntervalKind, secs int) *TaskBuilder {
	finish := At(b.cursor + secs)
	b.task.Timers = append(b.task.Timers, models.Interval{
		Start:  At(b.cursor),
		Finish: &finish,
		Kind:   kind,
	})
	b.cursor += secs
	return b
}

// Cycles appends n work/short-break pairs.
func (b *TaskBuilder) Cycles(n int) *TaskBuilder {
	for i := 0; i < n; i++ {
		b.Closed(models.KindWork, 1500).Closed(models.KindShortBreak, 300)
	}
	return b
}

// Running appends an open interval starting at the cursor.
func (b *TaskBuilder) Running(kind models.IntervalKind) *TaskBuilder {
	b.task.Timers = append(b.task.Timers, models.Interval{
		Start:  At(b.cursor),
		Active: true,
		Kind:   kind,
	})
	return b
}

// Cursor returns the offset in seconds where the next interval would start.
func (b *TaskBuilder) Cursor() int {
	return b.cursor
}

func (b *TaskBuilder) Build() models.Task {
	task := b.task
	task.Elapsed = models.ComputeElapsed(task.Timers)
	return task
}

// StateBuilder provides fluent API for creating app states.
type StateBuilder struct {
	state models.AppState
}

func NewState() *StateBuilder {
	return &StateBuilder{state: models.EmptyState()}
}

// WithTask appends a task; a task whose last interval is active becomes the active task.
func (b *StateBuilder) WithTask(task models.Task) *StateBuilder {
	b.state.Tasks = append(b.state.Tasks, task)
	if task.ActiveInterval() != nil {
		id := task.ID
		b.state.ActiveTaskID = &id
	}
	return b
}

func (b *StateBuilder) Build() models.AppState {
	return b.state.Clone()
}
