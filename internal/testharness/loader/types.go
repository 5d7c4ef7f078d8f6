// Package loader provides YAML scenario loading for the MSV test harness.
package loader

import "fmt"

// TestCase represents a single scenario loaded from YAML.
type TestCase struct {
	// ID is the unique test case identifier (e.g., "TC-ALARM-001").
	ID string `yaml:"id"`

	// Name is a human-readable name for the test.
	Name string `yaml:"name"`

	// Description explains what the test validates.
	Description string `yaml:"description"`

	// Device is the device configuration document the host is built from.
	// It uses the same layout as the msv-device configuration file.
	Device string `yaml:"device"`

	// Steps are the actions to execute in order.
	Steps []Step `yaml:"steps"`

	// Timeout is the maximum duration for the test (e.g., "30s").
	Timeout string `yaml:"timeout,omitempty"`

	// Tags for categorizing tests.
	Tags []string `yaml:"tags,omitempty"`

	// Skip excludes the test from runs.
	Skip bool `yaml:"skip,omitempty"`

	// SkipReason explains why the test is skipped.
	SkipReason string `yaml:"skip_reason,omitempty"`
}

// Step represents a single action in a test case.
type Step struct {
	// Action is the action to perform (e.g., "write_property", "tick").
	Action string `yaml:"action"`

	// Params are parameters for the action.
	Params map[string]any `yaml:"params,omitempty"`

	// Expect defines expected outcomes after the action.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Timeout overrides the test-level timeout for this step.
	Timeout string `yaml:"timeout,omitempty"`

	// Description explains what this step does.
	Description string `yaml:"description,omitempty"`
}

// LoadError is returned when a test case cannot be loaded.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}
