package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/akyairhashvil/taskspill/internal/config"
	"github.com/akyairhashvil/taskspill/internal/controller"
	"github.com/akyairhashvil/taskspill/internal/database"
	"github.com/akyairhashvil/taskspill/internal/models"
	"github.com/akyairhashvil/taskspill/internal/report"
	"github.com/akyairhashvil/taskspill/internal/util"
	"github.com/spf13/cobra"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

// withController runs fn against a controller and fails if the resulting
// state could not be saved.
func withController(cmd *cobra.Command, a *app, fn func(*controller.Controller) error) error {
	ctrl, err := a.controller(cmd.Context(), nil)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	if err := fn(ctrl); err != nil {
		return err
	}
	return ctrl.LastSaveError()
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, a, func(ctrl *controller.Controller) error {
				task, err := ctrl.AddTask(strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d %s\n", task.ID, task.Name)
				return nil
			})
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withController(cmd, a, func(ctrl *controller.Controller) error {
				if err := ctrl.RemoveTask(id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d\n", id)
				return nil
			})
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Start or pause a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withController(cmd, a, func(ctrl *controller.Controller) error {
				if err := ctrl.ToggleTask(id); err != nil {
					return err
				}
				if active, ok := ctrl.ActiveTask(); ok && active.ID == id {
					fmt.Fprintf(cmd.OutOrStdout(), "Started %s: %s\n", active.ActiveInterval().Kind.Label(), active.Name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Paused %d\n", id)
				}
				return nil
			})
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, a)
		},
	}
}

func runList(cmd *cobra.Command, a *app) error {
	return withController(cmd, a, func(ctrl *controller.Controller) error {
		out := cmd.OutOrStdout()
		state := ctrl.State()
		if len(state.Tasks) == 0 {
			fmt.Fprintln(out, "No tasks.")
			return nil
		}
		for _, task := range state.Tasks {
			marker := " "
			if state.IsActive(task.ID) {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %d  %s  (%s)\n", marker, task.ID, task.Name, ctrl.ElapsedDisplay(task))
		}
		return nil
	})
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withController(cmd, a, func(ctrl *controller.Controller) error {
				out := cmd.OutOrStdout()
				active, ok := ctrl.ActiveTask()
				if !ok {
					fmt.Fprintln(out, "No timer running.")
					return nil
				}
				fmt.Fprintln(out, ctrl.Title())
				fmt.Fprintf(out, "Interval: %s\n", active.ActiveInterval().Kind.Label())
				fmt.Fprintf(out, "Worked: %s\n", ctrl.ElapsedDisplay(active))
				fmt.Fprintf(out, "Intervals: %d work, %d short break, %d long break\n",
					active.CountKind(models.KindWork), active.CountKind(models.KindShortBreak), active.CountKind(models.KindLongBreak))
				return nil
			})
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF summary of all tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.env.clock.Now()
			totals, err := a.db.GetTaskTotals(cmd.Context())
			if err != nil {
				return err
			}
			if output == "" {
				output = filepath.Join(util.ReportsDir(config.AppName), report.DefaultFileName(now))
			}
			path, err := report.WriteFile(output, totals, now)
			if err != nil {
				util.LogError(a.logger, "write report", err)
				return fmt.Errorf("generate report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PDF Report generated: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "report file (default is ~/Documents/TASKSPILL/report_DATE.pdf)")
	return cmd
}

func (a *app) passphrase(confirm bool) (string, error) {
	if pass := strings.TrimSpace(os.Getenv(config.EnvPrefix + "PASSPHRASE")); pass != "" {
		return pass, nil
	}
	pass, err := a.env.prompt("Passphrase: ")
	if err != nil {
		return "", err
	}
	if confirm {
		again, err := a.env.prompt("Confirm passphrase: ")
		if err != nil {
			return "", err
		}
		if again != pass {
			return "", errors.New("passphrases do not match")
		}
	}
	return pass, nil
}

func newExportCmd(a *app) *cobra.Command {
	var output string
	var encrypt bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := database.ExportOptions{EncryptOutput: encrypt}
			if encrypt {
				pass, err := a.passphrase(true)
				if err != nil {
					return err
				}
				if err := util.ValidatePassphrase(pass); err != nil {
					return fmt.Errorf("passphrase too weak: %w", err)
				}
				opts.Passphrase = pass
			}
			data, err := a.db.ExportSnapshot(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "export file (default is stdout)")
	cmd.Flags().BoolVar(&encrypt, "encrypt", false, "seal the export with a passphrase")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all tasks with an exported snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			var pass string
			if util.IsSealed(data) {
				if pass, err = a.passphrase(false); err != nil {
					return err
				}
			}
			state, err := a.db.ImportSnapshot(cmd.Context(), data, pass)
			if err != nil {
				util.LogError(a.logger, "import snapshot", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", len(state.Tasks))
			return nil
		},
	}
}

func newSettingsCmd(a *app) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			s := a.settings
			fmt.Fprintf(out, "file: %s\n", a.configPath)
			fmt.Fprintf(out, "data_dir: %s\n", a.dataDir)
			fmt.Fprintf(out, "work: %s\n", s.WorkDuration)
			fmt.Fprintf(out, "short_break: %s\n", s.ShortBreakDuration)
			fmt.Fprintf(out, "long_break: %s\n", s.LongBreakDuration)
			fmt.Fprintf(out, "long_break_every: %d\n", s.LongBreakEvery)
			fmt.Fprintf(out, "cadence_window: %d\n", s.CadenceWindow)
			fmt.Fprintf(out, "bell: %t\n", s.Bell)
			fmt.Fprintf(out, "desktop_notify: %t\n", s.DesktopNotify)
			fmt.Fprintf(out, "log_level: %s\n", s.LogLevel)
			if write {
				if err := config.SaveSettings(a.configPath, s); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %s\n", a.configPath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save the effective settings to the settings file")
	return cmd
}
