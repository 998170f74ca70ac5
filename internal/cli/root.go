package cli

import (
	"context"
	"fmt"

	"github.com/akyairhashvil/taskspill/internal/config"
	"github.com/akyairhashvil/taskspill/internal/notify"
	"github.com/akyairhashvil/taskspill/internal/tui"
	"github.com/spf13/cobra"
)

// Execute runs the command tree with process defaults.
func Execute(ctx context.Context) error {
	rootCmd, a := newRootCmd(defaultEnv())
	defer a.close()
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd(e env) (*cobra.Command, *app) {
	a := &app{env: e}

	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Pomodoro-style task timer",
		Long: `Taskspill tracks work on a list of tasks with a 25 minute work timer,
short breaks, and a long break after every fourth short break.

Run without arguments to open the terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.env.isTTY() {
				return runList(cmd, a)
			}
			return runTUI(cmd, a)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default is $XDG_DATA_HOME/taskspill)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "also log to stderr at debug level")
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "settings file (default is $HOME/.config/taskspill/settings.yaml)")

	rootCmd.AddCommand(
		newAddCmd(a),
		newRemoveCmd(a),
		newToggleCmd(a),
		newListCmd(a),
		newStatusCmd(a),
		newReportCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newSettingsCmd(a),
	)
	return rootCmd, a
}

func runTUI(cmd *cobra.Command, a *app) error {
	sinks := notify.Multi{notify.Log{Logger: a.logger}}
	if a.settings.Bell {
		sinks = append(sinks, notify.Bell{W: a.env.stderr})
	}
	if a.settings.DesktopNotify {
		if desktop := notify.NewDesktop(); desktop.Available() {
			sinks = append(sinks, desktop)
		}
	}
	ctrl, err := a.controller(cmd.Context(), sinks)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	if err := tui.Run(cmd.Context(), ctrl); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
