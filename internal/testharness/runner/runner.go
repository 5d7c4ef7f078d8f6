// Package runner executes YAML scenarios against an in-process MSV host.
//
// Every test case gets a fresh host built from its device configuration and
// driven by a manual clock, so scenarios are deterministic: the event state
// machine only advances on explicit tick steps and timestamps only move on
// advance_clock steps.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bacstack/msv-go/internal/testharness/engine"
	"github.com/bacstack/msv-go/internal/testharness/loader"
	"github.com/bacstack/msv-go/internal/testharness/reporter"
	"github.com/bacstack/msv-go/pkg/log"
)

// DefaultStartTime is the manual clock reading at the start of every
// scenario.
var DefaultStartTime = time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

// Config configures a Runner.
type Config struct {
	// TestDir is the directory scenarios are loaded from.
	TestDir string

	// Pattern selects scenarios by ID or name. Comma-separated glob
	// patterns; empty selects all.
	Pattern string

	// Tags keeps only scenarios with at least one of these comma-separated
	// tags.
	Tags string

	// Timeout bounds each scenario.
	Timeout time.Duration

	// StopOnFirstFailure stops the suite after the first failed scenario.
	StopOnFirstFailure bool

	// Output receives the report. Defaults to os.Stdout.
	Output io.Writer

	// OutputFormat is "text", "json" or "junit".
	OutputFormat string

	// Verbose reports every step.
	Verbose bool

	// Logger receives host logs. Defaults to discarding them.
	Logger *slog.Logger

	// EventLogger receives the event log of every host.
	EventLogger log.Logger

	// StateDir holds runtime state files for restart steps. A temporary
	// directory is used when empty.
	StateDir string
}

// Runner loads scenarios and runs them.
type Runner struct {
	config   *Config
	engine   *engine.Engine
	reporter reporter.Reporter
	stateDir string
	ownsDir  bool
}

// New creates a runner.
func New(config *Config) (*Runner, error) {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rep, err := reporter.New(config.OutputFormat, config.Output, config.Verbose)
	if err != nil {
		return nil, err
	}

	r := &Runner{config: config, reporter: rep, stateDir: config.StateDir}
	if r.stateDir == "" {
		if r.stateDir, err = os.MkdirTemp("", "msv-test-"); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
		r.ownsDir = true
	}

	engineConfig := engine.DefaultConfig()
	if config.Timeout > 0 {
		engineConfig.DefaultTimeout = config.Timeout
	}
	engineConfig.StopOnFirstFailure = config.StopOnFirstFailure
	engineConfig.SetupPreconditions = r.setup
	engineConfig.Teardown = r.teardown
	engineConfig.OnTestComplete = r.reporter.ReportTest

	r.engine = engine.NewWithConfig(engineConfig)
	r.registerHandlers()
	return r, nil
}

// Close removes the temporary state directory.
func (r *Runner) Close() error {
	if r.ownsDir {
		return os.RemoveAll(r.stateDir)
	}
	return nil
}

// Run loads the scenarios from the test directory, runs those matching the
// filters and reports the suite.
func (r *Runner) Run(ctx context.Context) (*engine.SuiteResult, error) {
	cases, err := loader.LoadDirectory(r.config.TestDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load tests: %w", err)
	}

	cases = filterByPattern(cases, r.config.Pattern)
	cases = filterByTags(cases, r.config.Tags)
	if len(cases) == 0 {
		return nil, fmt.Errorf("no test cases found matching filters (pattern=%q, tags=%q)",
			r.config.Pattern, r.config.Tags)
	}

	return r.RunCases(ctx, cases), nil
}

// RunCases runs the given scenarios and reports the suite.
func (r *Runner) RunCases(ctx context.Context, cases []*loader.TestCase) *engine.SuiteResult {
	result := r.engine.RunSuite(ctx, cases)
	result.SuiteName = "MSV Scenarios"
	r.reporter.ReportSuite(result)
	return result
}

func (r *Runner) setup(_ context.Context, tc *loader.TestCase, state *engine.ExecutionState) error {
	s, err := newSession(tc, r.config, r.stateFile(tc))
	if err != nil {
		return err
	}
	state.Custom[sessionKey] = s
	return nil
}

func (r *Runner) teardown(tc *loader.TestCase, state *engine.ExecutionState) {
	delete(state.Custom, sessionKey)
	if err := os.Remove(r.stateFile(tc)); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.config.Logger.Warn("remove state file", "test", tc.ID, "error", err)
	}
}

func (r *Runner) stateFile(tc *loader.TestCase) string {
	name := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			return c
		default:
			return '_'
		}
	}, tc.ID)
	return filepath.Join(r.stateDir, name+".json")
}

// filterByPattern keeps the scenarios whose ID or name matches one of the
// comma-separated glob patterns.
func filterByPattern(cases []*loader.TestCase, pattern string) []*loader.TestCase {
	patterns := splitList(pattern)
	if len(patterns) == 0 {
		return cases
	}
	var filtered []*loader.TestCase
	for _, tc := range cases {
		for _, p := range patterns {
			if matchPattern(tc.ID, p) || matchPattern(tc.Name, p) {
				filtered = append(filtered, tc)
				break
			}
		}
	}
	return filtered
}

// filterByTags keeps only tests that have at least one of the specified tags.
func filterByTags(cases []*loader.TestCase, tags string) []*loader.TestCase {
	wanted := splitList(tags)
	if len(wanted) == 0 {
		return cases
	}
	var filtered []*loader.TestCase
	for _, tc := range cases {
		if hasAnyTag(tc.Tags, wanted) {
			filtered = append(filtered, tc)
		}
	}
	return filtered
}

// splitList splits a comma-separated string into trimmed non-empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func hasAnyTag(testTags, wanted []string) bool {
	for _, t := range testTags {
		for _, w := range wanted {
			if t == w {
				return true
			}
		}
	}
	return false
}

// matchPattern performs glob matching. Malformed patterns match nothing.
func matchPattern(name, pattern string) bool {
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}
