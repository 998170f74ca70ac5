// Package cli wires settings, storage, logging and the controller behind the
// cobra command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/akyairhashvil/taskspill/internal/clock"
	"github.com/akyairhashvil/taskspill/internal/config"
	"github.com/akyairhashvil/taskspill/internal/controller"
	"github.com/akyairhashvil/taskspill/internal/database"
	"github.com/akyairhashvil/taskspill/internal/engine"
	"github.com/akyairhashvil/taskspill/internal/util"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// env holds process-level collaborators that tests replace.
type env struct {
	clock  clock.Clock
	prompt func(prompt string) (string, error)
	isTTY  func() bool
	stderr io.Writer
}

func defaultEnv() env {
	return env{
		clock:  clock.System,
		prompt: promptForKey,
		isTTY: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
		},
		stderr: os.Stderr,
	}
}

func promptForKey(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	return strings.TrimSpace(string(pass)), err
}

// app is the per-invocation runtime built from flags.
type app struct {
	env        env
	dataDir    string
	configPath string
	verbose    bool
	settings   config.Settings
	logger     zerolog.Logger
	logFile    *os.File
	db         *database.Database
}

func (a *app) open(ctx context.Context) error {
	if a.dataDir == "" {
		a.dataDir = util.DataDir(config.AppName, config.EnvPrefix+"DATA_DIR")
	}
	if a.configPath == "" {
		path, err := config.SettingsPath(config.AppName)
		if err != nil {
			return err
		}
		a.configPath = path
	}
	settings, err := config.LoadSettings(a.configPath)
	if err != nil {
		return err
	}
	if level := strings.TrimSpace(os.Getenv(config.EnvPrefix + "LOG_LEVEL")); level != "" {
		settings.LogLevel = level
	}
	a.settings = settings

	logFile, err := util.OpenLogFile(a.dataDir, config.LogFileName)
	if err != nil {
		return err
	}
	a.logFile = logFile
	if a.verbose {
		a.logger = util.NewLogger(zerolog.MultiLevelWriter(logFile, util.ConsoleWriter(a.env.stderr)), "debug")
	} else {
		a.logger = util.NewLogger(logFile, settings.LogLevel)
	}

	db, err := database.Open(ctx, filepath.Join(a.dataDir, config.DBFileName))
	if err != nil {
		util.LogError(a.logger, "open database", err)
		return fmt.Errorf("open database: %w", err)
	}
	a.db = db
	a.logger.Debug().Str("db", db.Path()).Str("settings", a.configPath).Msg("opened")
	return nil
}

func (a *app) close() {
	if a.db != nil {
		util.LogError(a.logger, "close database", a.db.Close())
		a.db = nil
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func (a *app) controller(ctx context.Context, notifier controller.Notifier) (*controller.Controller, error) {
	eng := engine.New(engine.Config{
		LongBreakEvery: a.settings.LongBreakEvery,
		CadenceWindow:  a.settings.CadenceWindow,
	})
	return controller.New(ctx, controller.Options{
		Engine:   eng,
		Store:    a.db,
		Clock:    a.env.clock,
		Notifier: notifier,
		Logger:   a.logger,
		Durations: controller.Durations{
			Work:       a.settings.WorkDuration,
			ShortBreak: a.settings.ShortBreakDuration,
			LongBreak:  a.settings.LongBreakDuration,
		},
	})
}
