//go:build tools

package tools

// Mocks under pkg/*/mocks are generated by mockery v3 from .mockery.yaml.
// mockery is used as an installed binary, so no import is needed here.
// Run: mockery (from the module root) to regenerate.
