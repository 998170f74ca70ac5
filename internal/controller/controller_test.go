package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akyairhashvil/taskspill/internal/clock"
	"github.com/akyairhashvil/taskspill/internal/config"
	"github.com/akyairhashvil/taskspill/internal/models"
	"github.com/akyairhashvil/taskspill/internal/testutil"
	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	ctrl     *Controller
	store    *MockStore
	notifier *MockNotifier
	clock    *clock.Fake
}

func newFixture(t *testing.T, loaded models.AppState, ok bool, loadErr error) *fixture {
	t.Helper()
	mc := gomock.NewController(t)
	store := NewMockStore(mc)
	notifier := NewMockNotifier(mc)
	fake := clock.NewFake(testutil.Epoch)

	store.EXPECT().Load(gomock.Any()).Return(loaded, ok, loadErr)

	c, err := New(context.Background(), Options{
		Store:    store,
		Clock:    fake,
		Notifier: notifier,
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return &fixture{ctrl: c, store: store, notifier: notifier, clock: fake}
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(context.Background(), Options{})
	assert.Error(t, err)
}

func TestNewFallsBackToEmptyState(t *testing.T) {
	corrupt := models.AppState{
		Tasks: []models.Task{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}},
	}
	tests := []struct {
		name    string
		state   models.AppState
		ok      bool
		loadErr error
	}{
		{name: "absent", ok: false},
		{name: "load error", loadErr: errors.New("disk on fire")},
		{name: "corrupt", state: corrupt, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.state, tt.ok, tt.loadErr)
			state := f.ctrl.State()
			assert.Empty(t, state.Tasks)
			assert.Nil(t, state.ActiveTaskID)
			assert.Equal(t, 0, f.clock.Pending())
		})
	}
}

func TestAddTaskSaves(t *testing.T) {
	f := newFixture(t, models.AppState{}, false, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, state models.AppState) error {
			require.Len(t, state.Tasks, 1)
			assert.Equal(t, "Write report", state.Tasks[0].Name)
			return nil
		})

	task, err := f.ctrl.AddTask("Write report")
	require.NoError(t, err)
	assert.Equal(t, testutil.Epoch.UnixMilli(), task.ID)
	assert.NoError(t, f.ctrl.LastSaveError())
}

func TestCommandErrorsDoNotSave(t *testing.T) {
	f := newFixture(t, models.AppState{}, false, nil)

	_, err := f.ctrl.AddTask("   ")
	assert.Error(t, err)
	assert.Error(t, f.ctrl.RemoveTask(42))
	assert.Error(t, f.ctrl.ToggleTask(42))
}

func TestToggleStartsCountdown(t *testing.T) {
	f := newFixture(t, models.AppState{}, false, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	task, err := f.ctrl.AddTask("Focus")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.ToggleTask(task.ID))

	min, sec := f.ctrl.Countdown()
	assert.Equal(t, 25, min)
	assert.Equal(t, 0, sec)
	assert.Equal(t, 1, f.clock.Pending())

	f.clock.Advance(time.Second)
	min, sec = f.ctrl.Countdown()
	assert.Equal(t, 24, min)
	assert.Equal(t, 59, sec)
	assert.Equal(t, "24:59 | Focus", f.ctrl.Title())

	f.clock.Advance(90 * time.Second)
	assert.Equal(t, 25*time.Minute-91*time.Second, f.ctrl.Remaining())
	assert.Equal(t, 1, f.clock.Pending())
}

func TestExpiryClosesIntervalAndNotifiesOnce(t *testing.T) {
	f := newFixture(t, models.AppState{}, false, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().Notify(config.NotifyTitle, "Focus: Work finished").Return(nil).Times(1)

	task, err := f.ctrl.AddTask("Focus")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.ToggleTask(task.ID))

	f.clock.Advance(config.WorkDuration)

	state := f.ctrl.State()
	assert.Nil(t, state.ActiveTaskID)
	require.Len(t, state.Tasks[0].Timers, 1)
	interval := state.Tasks[0].Timers[0]
	assert.False(t, interval.Active)
	assert.Equal(t, 1500, interval.Seconds())
	assert.Equal(t, 1500, state.Tasks[0].Elapsed)
	assert.Equal(t, 0, f.clock.Pending())

	// Nothing else fires once the interval is closed.
	f.clock.Advance(time.Hour)
	_, running := f.ctrl.ActiveTask()
	assert.False(t, running)
}

func TestBreakFollowsWork(t *testing.T) {
	f := newFixture(t, models.AppState{}, false, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	task, err := f.ctrl.AddTask("Focus")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.ToggleTask(task.ID))
	f.clock.Advance(config.WorkDuration)

	require.NoError(t, f.ctrl.ToggleTask(task.ID))
	active, ok := f.ctrl.ActiveTask()
	require.True(t, ok)
	assert.Equal(t, models.KindShortBreak, active.ActiveInterval().Kind)
	assert.Equal(t, config.ShortBreakDuration, f.ctrl.Remaining())

	f.clock.Advance(config.ShortBreakDuration)
	_, ok = f.ctrl.ActiveTask()
	assert.False(t, ok)
}

func TestPauseCancelsTick(t *testing.T) {
	f := newFixture(t, models.AppState{}, false, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	task, err := f.ctrl.AddTask("Focus")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.ToggleTask(task.ID))
	f.clock.Advance(10 * time.Second)
	require.NoError(t, f.ctrl.ToggleTask(task.ID))

	assert.Equal(t, 0, f.clock.Pending())
	assert.Equal(t, time.Duration(0), f.ctrl.Remaining())
	assert.Equal(t, "Taskspill", f.ctrl.Title())

	// The notifier mock has no expectations, so any late fire fails the test.
	f.clock.Advance(time.Hour)
}

func TestRemoveActiveTaskCancelsTick(t *testing.T) {
	f := newFixture(t, models.AppState{}, false, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	task, err := f.ctrl.AddTask("Focus")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.ToggleTask(task.ID))
	require.NoError(t, f.ctrl.RemoveTask(task.ID))

	assert.Equal(t, 0, f.clock.Pending())
	assert.Empty(t, f.ctrl.State().Tasks)
	f.clock.Advance(time.Hour)
}

func TestSwitchingTasksKeepsOneTick(t *testing.T) {
	f := newFixture(t, models.AppState{}, false, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	a, err := f.ctrl.AddTask("A")
	require.NoError(t, err)
	f.clock.Advance(time.Millisecond)
	b, err := f.ctrl.AddTask("B")
	require.NoError(t, err)

	require.NoError(t, f.ctrl.ToggleTask(a.ID))
	f.clock.Advance(5 * time.Second)
	require.NoError(t, f.ctrl.ToggleTask(b.ID))

	assert.Equal(t, 1, f.clock.Pending())
	assert.Equal(t, config.WorkDuration, f.ctrl.Remaining())

	state := f.ctrl.State()
	require.NotNil(t, state.ActiveTaskID)
	assert.Equal(t, b.ID, *state.ActiveTaskID)
	assert.Equal(t, b.ID, state.Tasks[0].ID)
}

func TestSaveFailureDoesNotBlockCommands(t *testing.T) {
	f := newFixture(t, models.AppState{}, false, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("readonly")).Times(2)
	events := f.ctrl.Subscribe(8)

	task, err := f.ctrl.AddTask("Focus")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.ToggleTask(task.ID))

	assert.ErrorIs(t, f.ctrl.LastSaveError(), ErrPersistence)
	assert.True(t, f.ctrl.State().IsActive(task.ID))

	var failures int
	for len(events) > 0 {
		if ev := <-events; ev.Type == EventPersistenceFailure {
			failures++
			assert.ErrorIs(t, ev.Err, ErrPersistence)
		}
	}
	assert.Equal(t, 2, failures)

	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, f.ctrl.ToggleTask(task.ID))
	assert.NoError(t, f.ctrl.LastSaveError())
}

func TestRestoredActiveTaskResumesCountdown(t *testing.T) {
	b := testutil.NewTask().WithID(7).WithName("Resume")
	b.Closed(models.KindWork, 600).Running(models.KindShortBreak)
	loaded := testutil.NewState().WithTask(b.Build()).Build()

	mc := gomock.NewController(t)
	store := NewMockStore(mc)
	notifier := NewMockNotifier(mc)
	store.EXPECT().Load(gomock.Any()).Return(loaded, true, nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	notifier.EXPECT().Notify(config.NotifyTitle, "Resume: Short break finished").Return(nil)

	fake := clock.NewFake(testutil.At(660))
	c, err := New(context.Background(), Options{Store: store, Clock: fake, Notifier: notifier, Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 4*time.Minute, c.Remaining())
	assert.Equal(t, 1, fake.Pending())

	fake.Advance(4 * time.Minute)
	_, running := c.ActiveTask()
	assert.False(t, running)
	assert.Equal(t, 600, c.State().Tasks[0].Elapsed)
}

func TestOverdueRestoredIntervalExpiresOnFirstTick(t *testing.T) {
	b := testutil.NewTask().WithID(7).WithName("Late").Running(models.KindWork)
	loaded := testutil.NewState().WithTask(b.Build()).Build()

	mc := gomock.NewController(t)
	store := NewMockStore(mc)
	notifier := NewMockNotifier(mc)
	store.EXPECT().Load(gomock.Any()).Return(loaded, true, nil)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(errors.New("no display"))

	fake := clock.NewFake(testutil.At(3600))
	c, err := New(context.Background(), Options{Store: store, Clock: fake, Notifier: notifier, Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer c.Close()

	fake.Advance(time.Second)
	state := c.State()
	assert.Nil(t, state.ActiveTaskID)
	assert.Equal(t, 3601, state.Tasks[0].Elapsed)
}

func TestElapsedDisplay(t *testing.T) {
	f := newFixture(t, models.AppState{}, false, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	task, err := f.ctrl.AddTask("Focus")
	require.NoError(t, err)
	assert.Equal(t, config.NotStartedLabel, f.ctrl.ElapsedDisplay(task))

	require.NoError(t, f.ctrl.ToggleTask(task.ID))
	f.clock.Advance(90 * time.Second)
	assert.Equal(t, "2 minutes", f.ctrl.ElapsedDisplay(task))
}

func TestSubscribeAndClose(t *testing.T) {
	f := newFixture(t, models.AppState{}, false, nil)
	f.store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	events := f.ctrl.Subscribe(16)

	task, err := f.ctrl.AddTask("Focus")
	require.NoError(t, err)
	require.NoError(t, f.ctrl.ToggleTask(task.ID))
	f.clock.Advance(time.Second)

	first := <-events
	assert.Equal(t, EventStateChange, first.Type)
	second := <-events
	assert.Equal(t, EventStateChange, second.Type)
	assert.Equal(t, task.ID, second.TaskID)
	assert.Equal(t, models.KindWork, second.Kind)
	third := <-events
	assert.Equal(t, EventTick, third.Type)
	assert.Equal(t, config.WorkDuration-time.Second, third.Remaining)

	f.ctrl.Close()
	assert.Equal(t, 0, f.clock.Pending())
	_, open := <-events
	assert.False(t, open)

	late := f.ctrl.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}

func TestDurationsFor(t *testing.T) {
	d := DefaultDurations()
	assert.Equal(t, config.WorkDuration, d.For(models.KindWork))
	assert.Equal(t, config.ShortBreakDuration, d.For(models.KindShortBreak))
	assert.Equal(t, config.LongBreakDuration, d.For(models.KindLongBreak))
}
