package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/akyairhashvil/taskspill/internal/config"
	"github.com/akyairhashvil/taskspill/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func truncateLabel(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= max {
		return text
	}
	return ansi.Truncate(text, max, config.TruncationSuffix)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n\n")
	b.WriteString(m.renderTasks())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return m.theme.Base.Render(b.String())
}

func (m Model) renderHeader() string {
	active, ok := m.ctrl.ActiveTask()
	if !ok {
		return m.theme.Header.Render("Taskspill") + "\n" +
			m.theme.Dim.Render("Select a task and press space to start")
	}
	interval := active.ActiveInterval()
	total := m.ctrl.Durations().For(interval.Kind)
	remaining := m.ctrl.Remaining()
	fraction := 1.0
	if total > 0 {
		fraction = 1 - float64(remaining)/float64(total)
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	style := m.theme.KindStyle(string(interval.Kind))
	title := m.theme.Header.Render(m.ctrl.Title())
	line := fmt.Sprintf("%s  |  %s", style.Render(interval.Kind.Label()), m.progress.ViewAs(fraction))
	return lipgloss.JoinVertical(lipgloss.Left, title, line, renderHistory(m.theme, active, m.now()))
}

// renderHistory draws one block per interval. Work and long breaks are wide,
// short breaks narrow. The running block blinks once per second.
func renderHistory(theme Theme, task models.Task, now time.Time) string {
	if len(task.Timers) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(task.Timers))
	for _, timer := range task.Timers {
		glyph := "██"
		if timer.Kind == models.KindShortBreak {
			glyph = "▌"
		}
		style := theme.KindStyle(string(timer.Kind))
		if timer.Active && now.Unix()%2 == 1 {
			style = theme.Focused
		}
		blocks = append(blocks, style.Render(glyph))
	}
	return strings.Join(blocks, " ")
}

func (m Model) renderInput() string {
	if m.typing {
		return m.theme.Input.Render(m.input.View())
	}
	return m.theme.Dim.Render("press n to add a task")
}

func (m Model) renderTasks() string {
	if len(m.tasks) == 0 {
		return m.theme.Dim.Render("No tasks yet.")
	}
	nameWidth := config.DefaultNameWidth
	if m.width > 0 {
		nameWidth = m.width - config.RowChromeWidth
		if nameWidth < config.MinNameWidth {
			nameWidth = config.MinNameWidth
		}
	}

	var rows []string
	for i, task := range m.tasks {
		cursor := "  "
		if i == m.cursor && !m.typing {
			cursor = m.theme.Highlight.Render("> ")
		}
		marker := "○"
		style := m.theme.Task
		if m.activeID != nil && *m.activeID == task.ID {
			marker = "●"
			style = m.theme.ActiveTask
		}
		name := truncateLabel(task.Name, nameWidth)
		elapsed := m.theme.Dim.Render(m.ctrl.ElapsedDisplay(task))
		rows = append(rows, fmt.Sprintf("%s%s %s  %s", cursor, marker, style.Render(name), elapsed))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderFooter() string {
	var status string
	switch {
	case m.err != nil:
		status = m.theme.Error.Render(fmt.Sprintf("Error: %v", m.err))
	case m.Message != "":
		status = m.theme.Focused.Render(m.Message)
	}

	var help []string
	if m.typing {
		help = append(help, "enter add", "esc done")
	} else {
		for _, b := range m.keys.Help() {
			key := b.Key
			if key == " " {
				key = "space"
			}
			help = append(help, fmt.Sprintf("%s %s", key, b.Description))
		}
	}
	footer := m.theme.Dim.Render(strings.Join(help, " • "))
	if status == "" {
		return footer
	}
	return status + "\n" + footer
}
