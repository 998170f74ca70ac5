package tui

import (
	"time"

	"github.com/akyairhashvil/taskspill/internal/config"
	"github.com/akyairhashvil/taskspill/internal/controller"
	"github.com/akyairhashvil/taskspill/internal/models"
	"github.com/akyairhashvil/taskspill/internal/util"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// --- Messages ---
type eventMsg controller.Event

type eventsClosedMsg struct{}

func waitForEvent(events <-chan controller.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

// --- Model ---

// Model is the root bubbletea model. All timer state lives in the controller;
// the model only caches a copy for rendering.
type Model struct {
	ctrl          *controller.Controller
	events        <-chan controller.Event
	keys          *HandlerRegistry
	now           func() time.Time
	theme         Theme
	input         textinput.Model
	progress      progress.Model
	tasks         []models.Task
	activeID      *int64
	cursor        int
	typing        bool
	err           error
	Message       string
	width, height int
}

// NewModel builds the TUI over ctrl. now is used only for elapsed-time display.
func NewModel(ctrl *controller.Controller, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	ti := textinput.New()
	ti.Placeholder = "New Task..."
	ti.CharLimit = config.MaxTaskNameLength
	ti.Width = 40

	m := Model{
		ctrl:     ctrl,
		events:   ctrl.Subscribe(config.EventBuffer),
		keys:     defaultRegistry(),
		now:      now,
		theme:    CurrentTheme,
		input:    ti,
		progress: progress.New(progress.WithDefaultGradient()),
	}
	m.progress.Width = config.DefaultProgressWidth
	m.refresh()
	if len(m.tasks) == 0 {
		m.typing = true
		m.input.Focus()
	}
	return m
}

func (m *Model) refresh() {
	state := m.ctrl.State()
	m.tasks = state.Tasks
	m.activeID = state.ActiveTaskID
	m.cursor = util.Clamp(m.cursor, 0, max(len(m.tasks)-1, 0))
}

func (m Model) selected() (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return models.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.events), tea.SetWindowTitle(m.ctrl.Title()))
}
