// Package controller wraps the timer engine with a real-time countdown,
// automatic interval expiry, notifications and best-effort persistence.
//
// Commands and tick callbacks are serialized by a single mutex, so the engine
// only ever sees one transition at a time.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akyairhashvil/taskspill/internal/clock"
	"github.com/akyairhashvil/taskspill/internal/config"
	"github.com/akyairhashvil/taskspill/internal/engine"
	"github.com/akyairhashvil/taskspill/internal/models"
	"github.com/rs/zerolog"
)

// ErrPersistence marks a save that failed. It never rolls back the in-memory state.
var ErrPersistence = errors.New("persistence failure")

// Durations maps interval kinds to their lengths.
type Durations struct {
	Work       time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
}

// DefaultDurations returns the built-in interval lengths.
func DefaultDurations() Durations {
	return Durations{
		Work:       config.WorkDuration,
		ShortBreak: config.ShortBreakDuration,
		LongBreak:  config.LongBreakDuration,
	}
}

// For returns the length of an interval of kind.
func (d Durations) For(kind models.IntervalKind) time.Duration {
	switch kind {
	case models.KindShortBreak:
		return d.ShortBreak
	case models.KindLongBreak:
		return d.LongBreak
	default:
		return d.Work
	}
}

// Options configures a Controller. Store is required; other zero values fall
// back to defaults.
type Options struct {
	Engine       *engine.Engine
	Store        Store
	Clock        clock.Clock
	Notifier     Notifier
	Logger       zerolog.Logger
	Durations    Durations
	TickInterval time.Duration
}

type armedTick struct {
	taskID int64
	start  time.Time
}

// Controller owns the live app state and the recurring countdown tick.
type Controller struct {
	mu           sync.Mutex
	ctx          context.Context
	engine       *engine.Engine
	store        Store
	clock        clock.Clock
	notifier     Notifier
	logger       zerolog.Logger
	durations    Durations
	tickInterval time.Duration

	state      models.AppState
	timer      clock.Timer
	armed      *armedTick
	generation uint64
	remaining  time.Duration
	lastSave   error
	events     []chan Event
	closed     bool
}

// New loads the saved state and starts ticking if a task was left running.
// A missing, corrupt or incompatible snapshot yields the empty state.
func New(ctx context.Context, opts Options) (*Controller, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("controller: store is required")
	}
	if opts.Engine == nil {
		opts.Engine = engine.New(engine.DefaultConfig())
	}
	if opts.Clock == nil {
		opts.Clock = clock.System
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	defaults := DefaultDurations()
	if opts.Durations.Work <= 0 {
		opts.Durations.Work = defaults.Work
	}
	if opts.Durations.ShortBreak <= 0 {
		opts.Durations.ShortBreak = defaults.ShortBreak
	}
	if opts.Durations.LongBreak <= 0 {
		opts.Durations.LongBreak = defaults.LongBreak
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = config.TickInterval
	}
	logger := opts.Logger.With().Str("component", "controller").Logger()
	c := &Controller{
		ctx:          ctx,
		engine:       opts.Engine,
		store:        opts.Store,
		clock:        opts.Clock,
		notifier:     opts.Notifier,
		logger:       logger,
		durations:    opts.Durations,
		tickInterval: opts.TickInterval,
		state:        loadState(ctx, opts.Store, logger),
	}

	c.mu.Lock()
	c.rescheduleLocked(c.clock.Now())
	c.mu.Unlock()
	return c, nil
}

func loadState(ctx context.Context, store Store, logger zerolog.Logger) models.AppState {
	state, ok, err := store.Load(ctx)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("load snapshot failed; starting empty")
		return models.EmptyState()
	case !ok:
		return models.EmptyState()
	}
	if err := state.Validate(); err != nil {
		logger.Warn().Err(err).Msg("snapshot failed validation; starting empty")
		return models.EmptyState()
	}
	if state.Tasks == nil {
		state.Tasks = []models.Task{}
	}
	return state
}

// AddTask creates a task named name and saves the result.
func (c *Controller) AddTask(name string) (models.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	next, err := c.engine.AddTask(c.state, name, now)
	if err != nil {
		return models.Task{}, err
	}
	c.commitLocked(next, now)
	return next.Tasks[0], nil
}

// RemoveTask deletes a task, stopping its countdown if it was running.
func (c *Controller) RemoveTask(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	next, err := c.engine.RemoveTask(c.state, id)
	if err != nil {
		return err
	}
	c.commitLocked(next, now)
	return nil
}

// ToggleTask starts or pauses a task.
func (c *Controller) ToggleTask(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock.Now()
	next, err := c.engine.ToggleTimer(c.state, id, now)
	if err != nil {
		return err
	}
	c.commitLocked(next, now)
	return nil
}

// State returns a copy of the current app state.
func (c *Controller) State() models.AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// ActiveTask returns a copy of the running task, if any.
func (c *Controller) ActiveTask() (models.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	active := c.state.ActiveTask()
	if active == nil {
		return models.Task{}, false
	}
	return c.state.Clone().Tasks[c.state.FindTask(active.ID)], true
}

// Remaining returns the countdown as of the last tick or transition.
func (c *Controller) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Countdown splits the remaining time into display minutes and seconds.
func (c *Controller) Countdown() (minutes, seconds int) {
	remaining := c.Remaining()
	if remaining <= 0 {
		return 0, 0
	}
	total := int(remaining / time.Second)
	return total / 60, total % 60
}

// Durations returns the configured interval lengths.
func (c *Controller) Durations() Durations {
	return c.durations
}

// LastSaveError returns the most recent persistence failure, or nil once a
// later save succeeds.
func (c *Controller) LastSaveError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSave
}

// ElapsedDisplay renders a task's accumulated work time. The running task
// includes its open work interval.
func (c *Controller) ElapsedDisplay(task models.Task) string {
	now := c.clock.Now()
	c.mu.Lock()
	if idx := c.state.FindTask(task.ID); idx >= 0 {
		task = c.state.Tasks[idx]
	}
	c.mu.Unlock()
	return FormatElapsed(task.ElapsedAt(now))
}

// Title renders "MM:SS | task" while a task runs, otherwise the app name.
func (c *Controller) Title() string {
	active, ok := c.ActiveTask()
	if !ok {
		return "Taskspill"
	}
	return fmt.Sprintf("%s | %s", FormatCountdown(c.Remaining()), active.Name)
}

// Subscribe registers a new observer channel. Slow observers miss events
// rather than blocking the controller.
func (c *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch
	}
	c.events = append(c.events, ch)
	return ch
}

// Close stops the countdown and closes observer channels.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTickLocked()
	events := c.events
	c.events = nil
	c.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (c *Controller) commitLocked(next models.AppState, now time.Time) {
	c.state = next
	c.persistLocked(now)
	c.rescheduleLocked(now)
	event := Event{Type: EventStateChange, Remaining: c.remaining, At: now}
	if active := c.state.ActiveTask(); active != nil {
		event.TaskID = active.ID
		event.TaskName = active.Name
		event.Kind = active.ActiveInterval().Kind
	}
	c.emitLocked(event)
}

func (c *Controller) persistLocked(now time.Time) {
	if err := c.store.Save(c.ctx, c.state.Clone()); err != nil {
		c.lastSave = fmt.Errorf("%w: %v", ErrPersistence, err)
		c.logger.Warn().Err(err).Msg("save snapshot failed")
		c.emitLocked(Event{Type: EventPersistenceFailure, Err: c.lastSave, At: now})
		return
	}
	c.lastSave = nil
}

// rescheduleLocked re-arms the tick only when the running interval changed.
func (c *Controller) rescheduleLocked(now time.Time) {
	active := c.state.ActiveTask()
	if active == nil {
		c.stopTickLocked()
		c.remaining = 0
		return
	}
	interval := active.ActiveInterval()
	c.remaining = c.durations.For(interval.Kind) - now.Sub(interval.Start)
	if c.armed != nil && c.armed.taskID == active.ID && c.armed.start.Equal(interval.Start) {
		return
	}
	c.stopTickLocked()
	if c.closed {
		return
	}
	c.armed = &armedTick{taskID: active.ID, start: interval.Start}
	c.armLocked(c.generation)
}

func (c *Controller) armLocked(gen uint64) {
	c.timer = c.clock.AfterFunc(c.tickInterval, func() { c.onTick(gen) })
}

func (c *Controller) stopTickLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.armed = nil
	c.generation++
}

type completion struct {
	title string
	body  string
}

func (c *Controller) onTick(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	now := c.clock.Now()
	done := c.tickLocked(now, gen)
	c.mu.Unlock()

	if done != nil {
		if err := c.notifier.Notify(done.title, done.body); err != nil {
			c.logger.Warn().Err(err).Msg("notification failed")
		}
	}
}

func (c *Controller) tickLocked(now time.Time, gen uint64) *completion {
	active := c.state.ActiveTask()
	if active == nil {
		c.stopTickLocked()
		c.remaining = 0
		return nil
	}
	interval := active.ActiveInterval()
	kind := interval.Kind
	c.remaining = c.durations.For(kind) - now.Sub(interval.Start)
	if c.remaining > 0 {
		c.emitLocked(Event{
			Type:      EventTick,
			TaskID:    active.ID,
			TaskName:  active.Name,
			Kind:      kind,
			Remaining: c.remaining,
			At:        now,
		})
		c.armLocked(gen)
		return nil
	}

	id, name := active.ID, active.Name
	next, err := c.engine.ToggleTimer(c.state, id, now)
	if err != nil {
		c.logger.Error().Err(err).Int64("task_id", id).Msg("close expired interval failed")
		c.stopTickLocked()
		return nil
	}
	c.timer = nil
	c.commitLocked(next, now)
	c.logger.Info().Int64("task_id", id).Str("kind", string(kind)).Msg("interval complete")
	c.emitLocked(Event{
		Type:     EventIntervalComplete,
		TaskID:   id,
		TaskName: name,
		Kind:     kind,
		At:       now,
	})
	return &completion{
		title: config.NotifyTitle,
		body:  fmt.Sprintf("%s: %s finished", name, kind.Label()),
	}
}

func (c *Controller) emitLocked(event Event) {
	for _, ch := range c.events {
		select {
		case ch <- event:
		default:
		}
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) error { return nil }
