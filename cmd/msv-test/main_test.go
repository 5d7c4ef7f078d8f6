package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var casesDir = filepath.Join("..", "..", "testdata", "cases")

func TestRunText(t *testing.T) {
	var buf bytes.Buffer
	err := run(context.Background(), &buf, options{Tests: casesDir, Tags: "names"}, "")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Multi-state Value Scenario Runner")
	assert.Contains(t, buf.String(), "[PASS] TC-NAME-001")
}

func TestRunJUnit(t *testing.T) {
	var buf bytes.Buffer
	err := run(context.Background(), &buf, options{Tests: casesDir, JUnit: true}, "TC-ALARM-*")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `<testsuite name="MSV Scenarios" tests="3" failures="0"`)
	assert.NotContains(t, buf.String(), "Scenario Runner")
}

func TestRunNoMatch(t *testing.T) {
	var buf bytes.Buffer
	err := run(context.Background(), &buf, options{Tests: casesDir}, "TC-NONE")
	assert.ErrorContains(t, err, "no test cases found")
}
