package models

import (
	"errors"
	"testing"
	"time"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func at(sec int) time.Time {
	return epoch.Add(time.Duration(sec) * time.Second)
}

func closed(kind IntervalKind, start, finish int) Interval {
	f := at(finish)
	return Interval{Start: at(start), Finish: &f, Kind: kind}
}

func TestIntervalKindHelpers(t *testing.T) {
	if KindWork.IsBreak() {
		t.Fatalf("work should not be a break")
	}
	if !KindShortBreak.IsBreak() || !KindLongBreak.IsBreak() {
		t.Fatalf("short and long breaks should be breaks")
	}
	if IntervalKind("nap").Valid() {
		t.Fatalf("unknown kind should be invalid")
	}
	if KindLongBreak.Label() != "Long break" {
		t.Fatalf("unexpected label %q", KindLongBreak.Label())
	}
}

func TestComputeElapsedIgnoresBreaksAndOpenIntervals(t *testing.T) {
	timers := []Interval{
		closed(KindWork, 0, 100),
		closed(KindShortBreak, 100, 400),
		closed(KindWork, 400, 450),
		{Start: at(450), Active: true, Kind: KindWork},
	}
	if got := ComputeElapsed(timers); got != 150 {
		t.Fatalf("expected 150 seconds, got %d", got)
	}
}

func TestElapsedAtIncludesRunningWork(t *testing.T) {
	task := Task{
		ID:      1,
		Elapsed: 60,
		Timers:  []Interval{closed(KindWork, 0, 60), {Start: at(100), Active: true, Kind: KindWork}},
	}
	if got := task.ElapsedAt(at(130)); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
	task.Timers[1].Kind = KindShortBreak
	if got := task.ElapsedAt(at(130)); got != 60*time.Second {
		t.Fatalf("break should not count, got %v", got)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	id := int64(7)
	state := AppState{
		Tasks:        []Task{{ID: 7, Name: "a", Timers: []Interval{closed(KindWork, 0, 10)}}},
		ActiveTaskID: &id,
	}
	copyState := state.Clone()
	*copyState.Tasks[0].Timers[0].Finish = at(999)
	copyState.Tasks[0].Name = "b"
	*copyState.ActiveTaskID = 8

	if state.Tasks[0].Timers[0].Finish.Equal(at(999)) {
		t.Fatalf("finish pointer aliased")
	}
	if state.Tasks[0].Name != "a" {
		t.Fatalf("task aliased")
	}
	if *state.ActiveTaskID != 7 {
		t.Fatalf("active pointer aliased")
	}
}

func TestFindAndActiveTask(t *testing.T) {
	id := int64(2)
	state := AppState{
		Tasks: []Task{
			{ID: 1, Name: "one"},
			{ID: 2, Name: "two", Timers: []Interval{{Start: at(0), Active: true, Kind: KindWork}}},
		},
		ActiveTaskID: &id,
	}
	if state.FindTask(3) != -1 {
		t.Fatalf("expected -1 for missing task")
	}
	active := state.ActiveTask()
	if active == nil || active.Name != "two" {
		t.Fatalf("expected task two active, got %+v", active)
	}
	if active.ActiveInterval() == nil {
		t.Fatalf("expected running interval")
	}
	if !state.IsActive(2) || state.IsActive(1) {
		t.Fatalf("IsActive mismatch")
	}
}

func TestValidate(t *testing.T) {
	one, two := int64(1), int64(2)
	running := Interval{Start: at(0), Active: true, Kind: KindWork}

	tests := []struct {
		name    string
		state   AppState
		wantErr bool
	}{
		{name: "empty", state: EmptyState()},
		{
			name: "valid running",
			state: AppState{
				Tasks:        []Task{{ID: 1, Timers: []Interval{closed(KindWork, 0, 5), running}}},
				ActiveTaskID: &one,
			},
		},
		{
			name: "two running",
			state: AppState{
				Tasks: []Task{
					{ID: 1, Timers: []Interval{running}},
					{ID: 2, Timers: []Interval{running}},
				},
				ActiveTaskID: &one,
			},
			wantErr: true,
		},
		{
			name:    "dangling pointer",
			state:   AppState{Tasks: []Task{{ID: 1}}, ActiveTaskID: &two},
			wantErr: true,
		},
		{
			name:    "running without pointer",
			state:   AppState{Tasks: []Task{{ID: 1, Timers: []Interval{running}}}},
			wantErr: true,
		},
		{
			name:    "open interval before last",
			state:   AppState{Tasks: []Task{{ID: 1, Timers: []Interval{running, closed(KindWork, 5, 6)}}}, ActiveTaskID: &one},
			wantErr: true,
		},
		{
			name:    "duplicate ids",
			state:   AppState{Tasks: []Task{{ID: 1}, {ID: 1}}},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			state:   AppState{Tasks: []Task{{ID: 1, Timers: []Interval{closed("nap", 0, 1)}}}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidState) {
					t.Fatalf("expected ErrInvalidState, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
