package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	settingsFileName = ".runwatch.json"

	// DefaultLongRunThreshold applies when the settings file leaves the
	// threshold unset entirely.
	DefaultLongRunThreshold = 60 * time.Second

	envRunnerCommand    = "RUNWATCH_RUNNER"
	envLongRunThreshold = "RUNWATCH_LONG_RUN_THRESHOLD_MS"
	envSnapshotPrompts  = "RUNWATCH_SNAPSHOT_PROMPTS"
)

// Settings represents the resolved runwatch configuration for one workspace.
type Settings struct {
	// RunnerCommand invokes the wrapped test runner; args per run mode are
	// appended by the process layer.
	RunnerCommand string
	// RunnerArgs are always-on arguments (reporter configuration etc).
	RunnerArgs []string
	// Workspace is the display identity attached to events and logs.
	Workspace string
	// SnapshotUpdateMessages gates the interactive snapshot-update prompt.
	SnapshotUpdateMessages bool
	// LongRunThreshold bounds a single run before a long-run event fires.
	// Zero disables long-run monitoring.
	LongRunThreshold time.Duration
}

// Load reads root/.runwatch.json, applies defaults and environment overrides.
// A missing settings file yields pure defaults.
func Load(root string) (*Settings, error) {
	if root == "" {
		root = "."
	}
	s := defaultSettings(root)

	path := filepath.Join(root, settingsFileName)
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), kjson.Parser()); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load settings %s: %w", path, err)
		}
	} else {
		if v := k.String("runnerCommand"); v != "" {
			s.RunnerCommand = v
		}
		if v := k.Strings("runnerArgs"); len(v) > 0 {
			s.RunnerArgs = v
		}
		if v := k.String("workspace"); v != "" {
			s.Workspace = v
		}
		if k.Exists("snapshotUpdateMessages") {
			s.SnapshotUpdateMessages = k.Bool("snapshotUpdateMessages")
		}
		if k.Exists("longRunThresholdMs") {
			s.LongRunThreshold = ResolveLongRunThreshold(k.Get("longRunThresholdMs"))
		}
	}

	applyEnvOverrides(s)
	return s, nil
}

func defaultSettings(root string) *Settings {
	workspace := filepath.Base(root)
	if abs, err := filepath.Abs(root); err == nil {
		workspace = filepath.Base(abs)
	}
	return &Settings{
		RunnerCommand:          "jest",
		RunnerArgs:             []string{},
		Workspace:              workspace,
		SnapshotUpdateMessages: true,
		LongRunThreshold:       DefaultLongRunThreshold,
	}
}

func applyEnvOverrides(s *Settings) {
	if v := os.Getenv(envRunnerCommand); v != "" {
		s.RunnerCommand = v
	}
	if v := os.Getenv(envLongRunThreshold); v != "" {
		s.LongRunThreshold = ResolveLongRunThreshold(v)
	}
	if v := os.Getenv(envSnapshotPrompts); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.SnapshotUpdateMessages = b
		}
	}
}

// fileSettings mirrors the on-disk schema of .runwatch.json.
type fileSettings struct {
	RunnerCommand          string   `json:"runnerCommand,omitempty"`
	RunnerArgs             []string `json:"runnerArgs,omitempty"`
	Workspace              string   `json:"workspace,omitempty"`
	SnapshotUpdateMessages bool     `json:"snapshotUpdateMessages"`
	LongRunThresholdMs     int64    `json:"longRunThresholdMs"`
}

// Save writes the settings back to root/.runwatch.json.
func Save(root string, s *Settings) error {
	if root == "" {
		root = "."
	}
	out := fileSettings{
		RunnerCommand:          s.RunnerCommand,
		RunnerArgs:             s.RunnerArgs,
		Workspace:              s.Workspace,
		SnapshotUpdateMessages: s.SnapshotUpdateMessages,
		LongRunThresholdMs:     s.LongRunThreshold.Milliseconds(),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	path := filepath.Join(root, settingsFileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}

// ResolveLongRunThreshold maps a raw configured value to a monitor threshold:
// nil keeps the default, a positive integer is taken as milliseconds, and
// anything else (zero, negative, fractional, non-numeric) disables monitoring.
func ResolveLongRunThreshold(raw any) time.Duration {
	switch v := raw.(type) {
	case nil:
		return DefaultLongRunThreshold
	case int:
		return msThreshold(float64(v))
	case int64:
		return msThreshold(float64(v))
	case float64:
		return msThreshold(v)
	case string:
		ms, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return msThreshold(ms)
	default:
		return 0
	}
}

func msThreshold(ms float64) time.Duration {
	if ms <= 0 || ms != math.Trunc(ms) {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
