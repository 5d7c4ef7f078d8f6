// Package engine provides test execution orchestration for the MSV test harness.
package engine

import (
	"context"
	"time"

	"github.com/bacstack/msv-go/internal/testharness/loader"
)

// TestResult represents the outcome of a single test case.
type TestResult struct {
	// TestCase is the test case that was executed.
	TestCase *loader.TestCase

	// Passed indicates if all steps passed.
	Passed bool

	// Error is the error that caused failure, if any.
	Error error

	// StepResults contains results for each step.
	StepResults []*StepResult

	// Duration is how long the test took.
	Duration time.Duration

	// StartTime when the test started.
	StartTime time.Time

	// EndTime when the test finished.
	EndTime time.Time

	// Skipped indicates if the test was skipped.
	Skipped bool

	// SkipReason explains why the test was skipped.
	SkipReason string
}

// StepResult represents the outcome of a single step.
type StepResult struct {
	Step      *loader.Step
	StepIndex int
	Passed    bool
	Error     error

	// ExpectResults maps expectation keys to their assertion results.
	ExpectResults map[string]*ExpectResult

	Duration time.Duration

	// Output contains the values the action produced.
	Output map[string]any
}

// ExpectResult represents the result of checking an expectation.
type ExpectResult struct {
	Key      string
	Expected any
	Actual   any
	Passed   bool
	Message  string
}

// SuiteResult represents the outcome of running a test suite.
type SuiteResult struct {
	SuiteName string
	Results   []*TestResult
	PassCount int
	FailCount int
	SkipCount int
	Duration  time.Duration
}

// ActionHandler processes a test step action.
// Returns outputs to make available for subsequent steps, and an error if the action failed.
type ActionHandler func(ctx context.Context, step *loader.Step, state *ExecutionState) (map[string]any, error)

// ExpectChecker checks an expectation against actual results.
type ExpectChecker func(key string, expected any, state *ExecutionState) *ExpectResult

// ExecutionState holds state during test execution.
type ExecutionState struct {
	// Outputs accumulated from previous steps.
	Outputs map[string]any

	// Context for cancellation.
	Context context.Context

	// Custom state that handlers can use.
	Custom map[string]any
}

// NewExecutionState creates a new execution state.
func NewExecutionState(ctx context.Context) *ExecutionState {
	return &ExecutionState{
		Outputs: make(map[string]any),
		Custom:  make(map[string]any),
		Context: ctx,
	}
}

// Get retrieves a value from outputs.
func (s *ExecutionState) Get(key string) (any, bool) {
	v, ok := s.Outputs[key]
	return v, ok
}

// Set stores a value in outputs.
func (s *ExecutionState) Set(key string, value any) {
	s.Outputs[key] = value
}

// EngineConfig configures the test engine.
type EngineConfig struct {
	// DefaultTimeout is the default timeout for test cases.
	DefaultTimeout time.Duration

	// StepTimeout is the default timeout for individual steps.
	StepTimeout time.Duration

	// StopOnFirstFailure stops execution after the first test failure.
	StopOnFirstFailure bool

	// SetupPreconditions prepares the system under test before the first
	// step of each test case.
	SetupPreconditions func(ctx context.Context, tc *loader.TestCase, state *ExecutionState) error

	// Teardown runs after the last step of each test case.
	Teardown func(tc *loader.TestCase, state *ExecutionState)

	// OnTestComplete is called after each test case.
	OnTestComplete func(result *TestResult)
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *EngineConfig {
	return &EngineConfig{
		DefaultTimeout: 30 * time.Second,
		StepTimeout:    10 * time.Second,
	}
}
