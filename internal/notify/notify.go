// Package notify holds the interval-complete alert sinks.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

const desktopTimeout = 5 * time.Second

// Bell rings the terminal bell.
type Bell struct {
	W io.Writer
}

func (b Bell) Notify(string, string) error {
	if b.W == nil {
		return nil
	}
	_, err := io.WriteString(b.W, "\a")
	return err
}

// Log records alerts in the application log.
type Log struct {
	Logger zerolog.Logger
}

func (l Log) Notify(title, body string) error {
	l.Logger.Info().Str("title", title).Str("body", body).Msg("interval complete")
	return nil
}

// Runner executes an external command.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Desktop posts a desktop notification through notify-send or osascript.
// It does nothing when neither tool is installed.
type Desktop struct {
	name string
	args func(title, body string) []string
	run  Runner
}

// NewDesktop looks up the platform notification tool.
func NewDesktop() *Desktop {
	return newDesktop(runtime.GOOS, exec.LookPath, execRunner)
}

func newDesktop(goos string, lookPath func(string) (string, error), run Runner) *Desktop {
	d := &Desktop{run: run}
	switch goos {
	case "darwin":
		if path, err := lookPath("osascript"); err == nil {
			d.name = path
			d.args = func(title, body string) []string {
				return []string{"-e", fmt.Sprintf("display notification %q with title %q", body, title)}
			}
		}
	default:
		if path, err := lookPath("notify-send"); err == nil {
			d.name = path
			d.args = func(title, body string) []string {
				return []string{title, body}
			}
		}
	}
	return d
}

// Available reports whether a notification tool was found.
func (d *Desktop) Available() bool {
	return d != nil && d.name != ""
}

func (d *Desktop) Notify(title, body string) error {
	if !d.Available() {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), desktopTimeout)
	defer cancel()
	if err := d.run(ctx, d.name, d.args(title, body)...); err != nil {
		return fmt.Errorf("desktop notify: %w", err)
	}
	return nil
}

// Notifier matches controller.Notifier.
type Notifier interface {
	Notify(title, body string) error
}

// Multi fans an alert out to every sink and joins their errors.
type Multi []Notifier

func (m Multi) Notify(title, body string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
