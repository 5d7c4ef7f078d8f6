// Package reporter formats scenario results for the terminal, JSON
// consumers and CI systems.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bacstack/msv-go/internal/testharness/engine"
)

// Reporter formats and outputs test results.
type Reporter interface {
	// ReportTest reports a single test as soon as it completes.
	ReportTest(result *engine.TestResult)

	// ReportSuite reports the finished suite.
	ReportSuite(result *engine.SuiteResult)
}

// New returns the reporter for format: "text", "json" or "junit".
func New(format string, w io.Writer, verbose bool) (Reporter, error) {
	switch format {
	case "", "text":
		return NewTextReporter(w, verbose), nil
	case "json":
		return NewJSONReporter(w, true), nil
	case "junit":
		return NewJUnitReporter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func status(r *engine.TestResult) string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Passed:
		return "passed"
	default:
		return "failed"
	}
}

func passRate(r *engine.SuiteResult) float64 {
	total := r.PassCount + r.FailCount
	if total == 0 {
		return 0
	}
	return float64(r.PassCount) / float64(total) * 100
}

// TextReporter streams human-readable results.
type TextReporter struct {
	writer  io.Writer
	verbose bool
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(w io.Writer, verbose bool) *TextReporter {
	return &TextReporter{writer: w, verbose: verbose}
}

// ReportTest prints one line per test and, when verbose, one per step.
func (r *TextReporter) ReportTest(result *engine.TestResult) {
	tc := result.TestCase
	fmt.Fprintf(r.writer, "[%s] %s - %s (%s)\n",
		strings.ToUpper(status(result)[:4]), tc.ID, tc.Name, result.Duration.Round(time.Millisecond))

	if result.Skipped && result.SkipReason != "" {
		fmt.Fprintf(r.writer, "       Skip reason: %s\n", result.SkipReason)
	}
	if !result.Passed && result.Error != nil {
		fmt.Fprintf(r.writer, "       Error: %v\n", result.Error)
	}
	if !r.verbose {
		return
	}

	for _, sr := range result.StepResults {
		stepStatus := "PASS"
		if !sr.Passed {
			stepStatus = "FAIL"
		}
		fmt.Fprintf(r.writer, "    [%s] Step %d: %s\n", stepStatus, sr.StepIndex+1, sr.Step.Action)

		keys := make([]string, 0, len(sr.ExpectResults))
		for k := range sr.ExpectResults {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			er := sr.ExpectResults[k]
			mark := "OK"
			if !er.Passed {
				mark = "FAILED"
			}
			fmt.Fprintf(r.writer, "           [%s] %s: %s\n", mark, k, er.Message)
		}
	}
}

// ReportSuite prints the summary. Tests are expected to have been streamed
// through ReportTest already.
func (r *TextReporter) ReportSuite(result *engine.SuiteResult) {
	fmt.Fprintf(r.writer, "\n--- %s ---\n", result.SuiteName)
	fmt.Fprintf(r.writer, "Total:   %d\n", len(result.Results))
	fmt.Fprintf(r.writer, "Passed:  %d\n", result.PassCount)
	fmt.Fprintf(r.writer, "Failed:  %d\n", result.FailCount)
	fmt.Fprintf(r.writer, "Skipped: %d\n", result.SkipCount)
	if result.PassCount+result.FailCount > 0 {
		fmt.Fprintf(r.writer, "Pass Rate: %.1f%%\n", passRate(result))
	}
	fmt.Fprintf(r.writer, "Duration: %s\n", result.Duration.Round(time.Millisecond))
}

// JSONReporter writes the whole suite as one JSON document.
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{writer: w, pretty: pretty}
}

// JSONSuiteResult is the JSON representation of suite results.
type JSONSuiteResult struct {
	SuiteName string           `json:"suite_name"`
	Duration  string           `json:"duration"`
	Total     int              `json:"total"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Skipped   int              `json:"skipped"`
	PassRate  float64          `json:"pass_rate"`
	Tests     []JSONTestResult `json:"tests"`
}

// JSONTestResult is the JSON representation of a test result.
type JSONTestResult struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Status     string           `json:"status"`
	Duration   string           `json:"duration"`
	Error      string           `json:"error,omitempty"`
	SkipReason string           `json:"skip_reason,omitempty"`
	Steps      []JSONStepResult `json:"steps,omitempty"`
}

// JSONStepResult is the JSON representation of a step result.
type JSONStepResult struct {
	Index   int                   `json:"index"`
	Action  string                `json:"action"`
	Status  string                `json:"status"`
	Error   string                `json:"error,omitempty"`
	Expects map[string]JSONExpect `json:"expects,omitempty"`
	Outputs map[string]any        `json:"outputs,omitempty"`
}

// JSONExpect is the JSON representation of an expectation result.
type JSONExpect struct {
	Passed   bool   `json:"passed"`
	Expected any    `json:"expected"`
	Actual   any    `json:"actual"`
	Message  string `json:"message"`
}

// ReportTest is a no-op; the suite document carries every test.
func (r *JSONReporter) ReportTest(*engine.TestResult) {}

// ReportSuite writes the suite document.
func (r *JSONReporter) ReportSuite(result *engine.SuiteResult) {
	jr := JSONSuiteResult{
		SuiteName: result.SuiteName,
		Duration:  result.Duration.Round(time.Millisecond).String(),
		Total:     len(result.Results),
		Passed:    result.PassCount,
		Failed:    result.FailCount,
		Skipped:   result.SkipCount,
		PassRate:  passRate(result),
		Tests:     make([]JSONTestResult, 0, len(result.Results)),
	}
	for _, tr := range result.Results {
		jr.Tests = append(jr.Tests, testToJSON(tr))
	}

	var data []byte
	var err error
	if r.pretty {
		data, err = json.MarshalIndent(jr, "", "  ")
	} else {
		data, err = json.Marshal(jr)
	}
	if err != nil {
		fmt.Fprintf(r.writer, `{"error": %q}`+"\n", err.Error())
		return
	}
	fmt.Fprintln(r.writer, string(data))
}

func testToJSON(result *engine.TestResult) JSONTestResult {
	jr := JSONTestResult{
		ID:         result.TestCase.ID,
		Name:       result.TestCase.Name,
		Status:     status(result),
		Duration:   result.Duration.Round(time.Millisecond).String(),
		SkipReason: result.SkipReason,
	}
	if result.Error != nil {
		jr.Error = result.Error.Error()
	}

	for _, sr := range result.StepResults {
		jsr := JSONStepResult{
			Index:   sr.StepIndex,
			Action:  sr.Step.Action,
			Status:  "passed",
			Outputs: sr.Output,
		}
		if !sr.Passed {
			jsr.Status = "failed"
		}
		if sr.Error != nil {
			jsr.Error = sr.Error.Error()
		}
		if len(sr.ExpectResults) > 0 {
			jsr.Expects = make(map[string]JSONExpect, len(sr.ExpectResults))
			for key, er := range sr.ExpectResults {
				jsr.Expects[key] = JSONExpect{
					Passed:   er.Passed,
					Expected: er.Expected,
					Actual:   er.Actual,
					Message:  er.Message,
				}
			}
		}
		jr.Steps = append(jr.Steps, jsr)
	}
	return jr
}

// JUnitReporter outputs JUnit XML format for CI integration.
type JUnitReporter struct {
	writer io.Writer
}

// NewJUnitReporter creates a new JUnit reporter.
func NewJUnitReporter(w io.Writer) *JUnitReporter {
	return &JUnitReporter{writer: w}
}

// ReportTest is a no-op; the suite document carries every test.
func (r *JUnitReporter) ReportTest(*engine.TestResult) {}

// ReportSuite reports suite results in JUnit XML format.
func (r *JUnitReporter) ReportSuite(result *engine.SuiteResult) {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<testsuite name="%s" tests="%d" failures="%d" skipped="%d" time="%.3f">`+"\n",
		escapeXML(result.SuiteName),
		len(result.Results),
		result.FailCount,
		result.SkipCount,
		result.Duration.Seconds())

	for _, tr := range result.Results {
		tc := tr.TestCase
		fmt.Fprintf(&b, `  <testcase name="%s" classname="%s" time="%.3f">`+"\n",
			escapeXML(tc.Name), escapeXML(tc.ID), tr.Duration.Seconds())

		switch {
		case tr.Skipped:
			fmt.Fprintf(&b, `    <skipped message="%s"/>`+"\n", escapeXML(tr.SkipReason))
		case !tr.Passed && tr.Error != nil:
			fmt.Fprintf(&b, `    <failure message="%s"><![CDATA[`, escapeXML(tr.Error.Error()))
			for _, sr := range tr.StepResults {
				if !sr.Passed {
					fmt.Fprintf(&b, "Step %d (%s): %v\n", sr.StepIndex+1, sr.Step.Action, sr.Error)
				}
			}
			b.WriteString("]]></failure>\n")
		}

		b.WriteString("  </testcase>\n")
	}

	b.WriteString("</testsuite>\n")
	fmt.Fprint(r.writer, b.String())
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
