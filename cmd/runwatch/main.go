package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/polarzero/runwatch/internal/config"
	"github.com/polarzero/runwatch/internal/logging"
	"github.com/polarzero/runwatch/internal/process"
	"github.com/polarzero/runwatch/internal/tui/home"
	"github.com/polarzero/runwatch/internal/tui/run"
	"github.com/polarzero/runwatch/internal/tui/settings"
	"github.com/polarzero/runwatch/internal/tui/status"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type contextKey string

const appContextKey contextKey = "app"

type app struct {
	root     string
	settings *config.Settings
	log      zerolog.Logger
	noTUI    bool
}

func newRootCmd() *cobra.Command {
	var root string
	var noTUI bool

	cmd := &cobra.Command{
		Use:          "runwatch",
		Short:        "Supervise a test runner and stream its run lifecycle",
		Long:         "Runwatch wraps a watch-capable test runner, turning its raw output into a typed run lifecycle with crash recovery and snapshot prompting.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&root, "root", ".", "workspace directory holding .runwatch.json")
	cmd.PersistentFlags().BoolVar(&noTUI, "no-tui", false, "log the event stream instead of opening the TUI")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		s, err := config.Load(root)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		a := &app{
			root:     root,
			settings: s,
			log:      logging.New(cmd.ErrOrStderr(), s.Workspace),
			noTUI:    noTUI,
		}
		cmd.SetContext(context.WithValue(cmd.Context(), appContextKey, a))
		return nil
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runHome(appFromContext(cmd.Context()))
	}

	cmd.AddCommand(
		newWatchCmd(),
		newRunCmd(),
		newUpdateCmd(),
		newListCmd(),
		newStatusCmd(),
		newSettingsCmd(),
	)

	return cmd
}

func runHome(a *app) error {
	if a.noTUI {
		return errors.New("the home menu needs a TUI; pick a subcommand with --no-tui")
	}
	for {
		res, err := home.Run()
		if err != nil {
			if errors.Is(err, home.ErrCanceled) {
				return nil
			}
			return err
		}
		switch res.Selection {
		case home.SelectWatch:
			err = startMode(a, process.WatchTests)
		case home.SelectRunAll:
			err = startMode(a, process.AllTests)
		case home.SelectUpdateSnapshots:
			err = startMode(a, process.UpdateSnapshot)
		case home.SelectListFiles:
			err = listFiles(a, os.Stdout)
		case home.SelectStatus:
			err = status.Run(status.Options{Path: resultsPath(a)})
		case home.SelectSettings:
			if _, err = settings.Run(settings.Options{Root: a.root, Initial: a.settings}); errors.Is(err, settings.ErrCanceled) {
				err = nil
			}
		case home.SelectQuit:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run tests continuously as files change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return startMode(appFromContext(cmd.Context()), process.WatchTests)
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full suite once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return startMode(appFromContext(cmd.Context()), process.AllTests)
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Run once with snapshot updates enabled",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return startMode(appFromContext(cmd.Context()), process.UpdateSnapshot)
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the test files the runner would pick up",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listFiles(appFromContext(cmd.Context()), cmd.OutOrStdout())
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [results-file]",
		Short: "Browse the most recent result file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFromContext(cmd.Context())
			path := resultsPath(a)
			if len(args) == 1 {
				path = args[0]
			}
			if a.noTUI {
				return printStatus(cmd.OutOrStdout(), path)
			}
			return status.Run(status.Options{Path: path})
		},
	}
}

func newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Edit the workspace configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFromContext(cmd.Context())
			if a.noTUI {
				return errors.New("settings editing needs a TUI")
			}
			if _, err := settings.Run(settings.Options{Root: a.root, Initial: a.settings}); err != nil {
				if errors.Is(err, settings.ErrCanceled) {
					return nil
				}
				return err
			}
			return nil
		},
	}
}

// startMode opens the TUI session or the headless stream for one run mode.
func startMode(a *app, mode process.RequestType) error {
	if a.noTUI {
		return runHeadless(context.Background(), a, mode)
	}
	return run.Run(run.Options{Settings: a.settings, Log: a.log, Mode: mode})
}

func appFromContext(ctx context.Context) *app {
	if ctx == nil {
		return nil
	}
	if val, ok := ctx.Value(appContextKey).(*app); ok {
		return val
	}
	return nil
}
