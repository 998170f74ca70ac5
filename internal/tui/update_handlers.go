package tui

import (
	"fmt"
	"strings"

	"github.com/akyairhashvil/taskspill/internal/config"
	"github.com/akyairhashvil/taskspill/internal/controller"
	"github.com/akyairhashvil/taskspill/internal/util"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil
	case eventMsg:
		return m.handleEvent(controller.Event(msg))
	case eventsClosedMsg:
		return m, nil
	case progress.FrameMsg:
		next, cmd := m.progress.Update(msg)
		m.progress = next.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		// Clear transient messages on keypress
		m.err = nil
		m.Message = ""
		if m.typing {
			return m.handleInputMode(msg)
		}
		return m.handleNormalMode(msg)
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width, m.height = msg.Width, msg.Height
	if m.width > 0 {
		m.progress.Width = util.Clamp(m.width/3, config.MinProgressWidth, m.width)
	}
	return m
}

func (m Model) handleEvent(ev controller.Event) (Model, tea.Cmd) {
	m.refresh()
	switch ev.Type {
	case controller.EventIntervalComplete:
		m.Message = fmt.Sprintf("%s: %s", config.NotifyTitle, ev.TaskName)
	case controller.EventPersistenceFailure:
		m.err = ev.Err
	}
	return m, tea.Batch(waitForEvent(m.events), tea.SetWindowTitle(m.ctrl.Title()))
}

func (m Model) handleInputMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc, tea.KeyTab:
		m.typing = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			return m, nil
		}
		if _, err := m.ctrl.AddTask(name); err != nil {
			m.err = err
			return m, nil
		}
		m.input.Reset()
		m.cursor = 0
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleNormalMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	if key == "tab" || key == "enter" {
		next, cmd, _ := handleStartAdd(m, key)
		return next, cmd
	}
	next, cmd, _ := m.keys.Handle(m, key)
	return next, cmd
}

func handleQuit(m Model, _ string) (Model, tea.Cmd, bool) {
	return m, tea.Quit, true
}

func handleStartAdd(m Model, _ string) (Model, tea.Cmd, bool) {
	m.typing = true
	return m, m.input.Focus(), true
}

func handleToggle(m Model, _ string) (Model, tea.Cmd, bool) {
	task, ok := m.selected()
	if !ok {
		return m, nil, true
	}
	if err := m.ctrl.ToggleTask(task.ID); err != nil {
		m.err = err
		return m, nil, true
	}
	m.refresh()
	// Toggled task moves to the front; keep it selected.
	m.cursor = 0
	return m, tea.SetWindowTitle(m.ctrl.Title()), true
}

func handleRemove(m Model, _ string) (Model, tea.Cmd, bool) {
	task, ok := m.selected()
	if !ok {
		return m, nil, true
	}
	if err := m.ctrl.RemoveTask(task.ID); err != nil {
		m.err = err
		return m, nil, true
	}
	m.refresh()
	return m, tea.SetWindowTitle(m.ctrl.Title()), true
}

func handleDown(m Model, _ string) (Model, tea.Cmd, bool) {
	if m.cursor < len(m.tasks)-1 {
		m.cursor++
	}
	return m, nil, true
}

func handleUp(m Model, _ string) (Model, tea.Cmd, bool) {
	if m.cursor > 0 {
		m.cursor--
	}
	return m, nil, true
}
