package tui

import (
	"context"
	"time"

	"github.com/akyairhashvil/taskspill/internal/controller"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, ctrl *controller.Controller) error {
	p := tea.NewProgram(NewModel(ctrl, time.Now), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
