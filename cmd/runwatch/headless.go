package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/polarzero/runwatch/internal/process"
	"github.com/polarzero/runwatch/internal/results"
	"github.com/polarzero/runwatch/internal/runner"
)

const resultsFileName = ".runwatch-results.json"

func resultsPath(a *app) string {
	return filepath.Join(a.root, resultsFileName)
}

// runHeadless drives one run mode without a TUI: runner output goes to
// stdout, lifecycle notices to the structured log, and the process is torn
// down on SIGINT/SIGTERM. Snapshot prompts resolve to no since nobody can
// answer them.
func runHeadless(ctx context.Context, a *app, mode process.RequestType) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	session := &runner.Session{
		Workspace: a.settings.Workspace,
		Settings:  a.settings,
		Log:       a.log,
		Emit: func(ev runner.Event) {
			switch ev := ev.(type) {
			case runner.ProcessStart:
				a.log.Info().Stringer("process", ev.Process).Msg("runner process started")
			case runner.Start:
				a.log.Info().Msg("test run started")
			case runner.Data:
				fmt.Fprintln(os.Stdout, strings.TrimRight(ev.Text, "\n"))
			case runner.LongRun:
				a.log.Warn().
					Dur("threshold", ev.Threshold).
					Int("suites", ev.TotalTestSuites).
					Msg("test run exceeding threshold")
			case runner.End:
				a.log.Info().Msg("test run complete")
			case runner.Exit:
				if ev.Err != "" {
					finish(errors.New(ev.Err))
					return
				}
				if runner.IsInfraExit(ev.Code) {
					finish(fmt.Errorf("runner exited with code %d", *ev.Code))
					return
				}
				finish(nil)
			}
		},
	}

	sup := process.NewSupervisor(a.settings, a.log, func(process.Request) process.Listener {
		return runner.NewRunTestListener(session)
	})
	session.Schedule = sup.Schedule

	go sup.Run(ctx)
	sup.Schedule(process.Request{Type: mode})

	select {
	case err := <-done:
		cancel()
		<-sup.Closed()
		return err
	case <-ctx.Done():
		<-sup.Closed()
		return nil
	}
}

// listFiles runs the listing mode to completion and prints one path per line.
func listFiles(a *app, out io.Writer) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	done := make(chan error, 1)
	session := &runner.Session{
		Workspace: a.settings.Workspace,
		Settings:  a.settings,
		Log:       a.log,
	}

	sup := process.NewSupervisor(a.settings, a.log, func(process.Request) process.Listener {
		return runner.NewListTestFilesListener(session, func(files []string, errText string, exitCode *int) {
			if errText != "" {
				code := 0
				if exitCode != nil {
					code = *exitCode
				}
				done <- fmt.Errorf("list test files (code %d): %s", code, errText)
				return
			}
			for _, f := range files {
				fmt.Fprintln(out, f)
			}
			done <- nil
		})
	})
	session.Schedule = sup.Schedule

	go sup.Run(ctx)
	sup.Schedule(process.Request{Type: process.ListTestFiles})

	select {
	case err := <-done:
		cancel()
		<-sup.Closed()
		return err
	case <-ctx.Done():
		<-sup.Closed()
		return nil
	}
}

// printStatus renders a plain-text result summary for scripting.
func printStatus(out io.Writer, path string) error {
	payload, err := results.ParseFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, payload.Summary())
	for _, name := range payload.FailedSuites() {
		fmt.Fprintf(out, "FAIL %s\n", name)
	}
	return nil
}
