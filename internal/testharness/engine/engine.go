package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bacstack/msv-go/internal/testharness/loader"
)

// CheckerNameDefault is the checker used for keys without a registered one.
const CheckerNameDefault = "default"

// Engine executes test cases.
type Engine struct {
	config   *EngineConfig
	handlers map[string]ActionHandler
	checkers map[string]ExpectChecker
	mu       sync.RWMutex
}

// New creates a new test engine with default configuration.
func New() *Engine {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a new test engine with the given configuration.
func NewWithConfig(config *EngineConfig) *Engine {
	if config == nil {
		config = DefaultConfig()
	}

	e := &Engine{
		config:   config,
		handlers: make(map[string]ActionHandler),
		checkers: make(map[string]ExpectChecker),
	}

	e.RegisterChecker(CheckerNameDefault, defaultChecker)

	return e
}

// RegisterHandler registers an action handler.
func (e *Engine) RegisterHandler(action string, handler ActionHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[action] = handler
}

// RegisterChecker registers an expectation checker.
func (e *Engine) RegisterChecker(key string, checker ExpectChecker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.checkers[key] = checker
}

// Run executes a single test case.
func (e *Engine) Run(ctx context.Context, tc *loader.TestCase) *TestResult {
	result := &TestResult{
		TestCase:  tc,
		StartTime: time.Now(),
	}
	finish := func() *TestResult {
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(result.StartTime)
		return result
	}

	if tc.Skip {
		result.Skipped = true
		result.SkipReason = tc.SkipReason
		if result.SkipReason == "" {
			result.SkipReason = "skipped by test definition"
		}
		return finish()
	}

	timeout := e.config.DefaultTimeout
	if tc.Timeout != "" {
		if d, err := time.ParseDuration(tc.Timeout); err == nil {
			timeout = d
		}
	}

	testCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	state := NewExecutionState(testCtx)

	if e.config.SetupPreconditions != nil {
		if err := e.config.SetupPreconditions(testCtx, tc, state); err != nil {
			result.Error = fmt.Errorf("precondition setup failed: %w", err)
			return finish()
		}
	}
	if e.config.Teardown != nil {
		defer e.config.Teardown(tc, state)
	}

	result.Passed = true
	for i := range tc.Steps {
		step := &tc.Steps[i]
		stepResult := e.executeStep(testCtx, step, i, state)
		result.StepResults = append(result.StepResults, stepResult)

		if !stepResult.Passed {
			result.Passed = false
			result.Error = fmt.Errorf("step %d (%s): %w", i+1, step.Action, stepResult.Error)
			break
		}
	}

	return finish()
}

// executeStep executes a single step.
func (e *Engine) executeStep(ctx context.Context, step *loader.Step, index int, state *ExecutionState) *StepResult {
	result := &StepResult{
		Step:          step,
		StepIndex:     index,
		ExpectResults: make(map[string]*ExpectResult),
		Output:        make(map[string]any),
	}

	startTime := time.Now()

	timeout := e.config.StepTimeout
	if step.Timeout != "" {
		if d, err := time.ParseDuration(step.Timeout); err == nil {
			timeout = d
		}
	}

	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	e.mu.RLock()
	handler, exists := e.handlers[step.Action]
	e.mu.RUnlock()

	if !exists {
		result.Error = fmt.Errorf("unknown action: %s", step.Action)
		result.Duration = time.Since(startTime)
		return result
	}

	outputs, err := handler(stepCtx, step, state)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(startTime)
		return result
	}

	for k, v := range outputs {
		state.Set(k, v)
		result.Output[k] = v
	}

	result.Passed = true
	for key, expected := range step.Expect {
		expectResult := e.checkExpectation(key, expected, state)
		result.ExpectResults[key] = expectResult
		if !expectResult.Passed {
			result.Passed = false
			result.Error = fmt.Errorf("expectation failed: %s - %s", key, expectResult.Message)
		}
	}

	result.Duration = time.Since(startTime)
	return result
}

// checkExpectation checks a single expectation.
func (e *Engine) checkExpectation(key string, expected any, state *ExecutionState) *ExpectResult {
	e.mu.RLock()
	checker, exists := e.checkers[key]
	if !exists {
		checker = e.checkers[CheckerNameDefault]
	}
	e.mu.RUnlock()

	return checker(key, expected, state)
}

// defaultChecker is the default expectation checker.
func defaultChecker(key string, expected any, state *ExecutionState) *ExpectResult {
	actual, exists := state.Get(key)
	if !exists {
		return &ExpectResult{
			Key:      key,
			Expected: expected,
			Passed:   false,
			Message:  fmt.Sprintf("key %q not found in outputs", key),
		}
	}

	// "present" means the key exists with any value.
	if expStr, ok := expected.(string); ok && expStr == "present" {
		return &ExpectResult{
			Key:      key,
			Expected: expected,
			Actual:   actual,
			Passed:   true,
			Message:  fmt.Sprintf("%s = %v", key, actual),
		}
	}

	// When both expected and actual are lists of maps, use subset matching:
	// each expected map must have all its keys present in the corresponding
	// actual map with matching values. Extra keys in actual are allowed.
	if passed, msg := subsetMatchListOfMaps(expected, actual); msg != "" {
		return &ExpectResult{
			Key: key, Expected: expected, Actual: actual,
			Passed: passed, Message: msg,
		}
	}

	passed := fmt.Sprintf("%v", expected) == fmt.Sprintf("%v", actual)
	result := &ExpectResult{
		Key:      key,
		Expected: expected,
		Actual:   actual,
		Passed:   passed,
	}

	if passed {
		result.Message = fmt.Sprintf("%s = %v", key, expected)
	} else {
		result.Message = fmt.Sprintf("expected %v, got %v", expected, actual)
	}

	return result
}

// subsetMatchListOfMaps performs subset matching when both expected and actual
// are slices of maps. Returns (passed, message). If the pattern doesn't apply,
// returns an empty message to signal the caller should fall through to the
// default check.
func subsetMatchListOfMaps(expected, actual any) (bool, string) {
	expList, expOK := expected.([]any)
	if !expOK || len(expList) == 0 {
		return false, ""
	}
	hasMap := false
	for _, item := range expList {
		if _, ok := item.(map[string]any); ok {
			hasMap = true
			break
		}
	}
	if !hasMap {
		return false, ""
	}

	var actList []any
	switch a := actual.(type) {
	case []any:
		actList = a
	case []map[string]any:
		for _, m := range a {
			actList = append(actList, m)
		}
	default:
		return false, ""
	}

	if len(actList) != len(expList) {
		return false, fmt.Sprintf("expected %d items, got %d", len(expList), len(actList))
	}

	for i, expItem := range expList {
		expMap, ok := expItem.(map[string]any)
		if !ok {
			if fmt.Sprintf("%v", expItem) != fmt.Sprintf("%v", actList[i]) {
				return false, fmt.Sprintf("item[%d]: expected %v, got %v", i, expItem, actList[i])
			}
			continue
		}
		actMap, ok := actList[i].(map[string]any)
		if !ok {
			return false, fmt.Sprintf("item[%d]: expected map, got %T", i, actList[i])
		}
		for k, ev := range expMap {
			av, has := actMap[k]
			if !has {
				return false, fmt.Sprintf("item[%d]: missing key %q", i, k)
			}
			if fmt.Sprintf("%v", ev) != fmt.Sprintf("%v", av) {
				return false, fmt.Sprintf("item[%d].%s: expected %v, got %v", i, k, ev, av)
			}
		}
	}
	return true, "all expected fields match"
}

// RunSuite executes all test cases in a suite.
func (e *Engine) RunSuite(ctx context.Context, cases []*loader.TestCase) *SuiteResult {
	result := &SuiteResult{
		SuiteName: "Test Suite",
	}

	startTime := time.Now()
	defer func() { result.Duration = time.Since(startTime) }()

	for _, tc := range cases {
		select {
		case <-ctx.Done():
			return result
		default:
		}

		testResult := e.Run(ctx, tc)
		result.Results = append(result.Results, testResult)

		switch {
		case testResult.Skipped:
			result.SkipCount++
		case testResult.Passed:
			result.PassCount++
		default:
			result.FailCount++
		}

		if e.config.OnTestComplete != nil {
			e.config.OnTestComplete(testResult)
		}

		if !testResult.Passed && !testResult.Skipped && e.config.StopOnFirstFailure {
			break
		}
	}

	return result
}
