// Command msv-test runs YAML scenarios against an in-process MSV device.
//
// Every scenario carries its own device configuration. The runner creates a
// fresh device per scenario with a manual clock, executes the steps and
// checks their expectations.
//
// Usage:
//
//	msv-test [flags] [test-pattern]
//
// Examples:
//
//	# Run every scenario
//	msv-test --tests ./testdata/cases
//
//	# Run the alarm scenarios with step details
//	msv-test --tags alarm --verbose
//
//	# Produce JUnit XML for CI
//	msv-test --junit "TC-ACK-*" > results.xml
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bacstack/msv-go/internal/testharness/runner"
	"github.com/bacstack/msv-go/pkg/log"
	"github.com/bacstack/msv-go/pkg/version"
)

type options struct {
	Tests       string
	Tags        string
	Timeout     time.Duration
	Verbose     bool
	JSON        bool
	JUnit       bool
	EventLog    string
	StopOnFirst bool
	Debug       bool
}

// errFailed reports failed scenarios after the report has been written.
var errFailed = errors.New("test failures")

var (
	opts options

	rootCmd = &cobra.Command{
		Use:   "msv-test [test-pattern]",
		Short: "Run MSV device scenarios.",
		Long: `Runs YAML scenarios against an in-process MSV device.

The optional pattern selects scenarios by ID or name; several glob patterns
may be separated by commas.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := ""
			if len(args) > 0 {
				pattern = args[0]
			}
			return run(cmd.Context(), cmd.OutOrStdout(), opts, pattern)
		},
	}
)

func init() {
	f := rootCmd.Flags()
	f.StringVar(&opts.Tests, "tests", "./testdata/cases", "path to test cases directory")
	f.StringVar(&opts.Tags, "tags", "", "only run scenarios with one of these comma-separated tags")
	f.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "timeout per scenario")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "report every step")
	f.BoolVar(&opts.JSON, "json", false, "output results as JSON")
	f.BoolVar(&opts.JUnit, "junit", false, "output results as JUnit XML")
	f.StringVar(&opts.EventLog, "event-log", "", "path of the CBOR event log of every device")
	f.BoolVar(&opts.StopOnFirst, "stop-on-failure", false, "stop after the first failed scenario")
	f.BoolVar(&opts.Debug, "debug", false, "write device logs to stderr")
	rootCmd.MarkFlagsMutuallyExclusive("json", "junit")

	version.AttachCobraVersionCommand(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, o options, pattern string) error {
	outputFormat := "text"
	switch {
	case o.JSON:
		outputFormat = "json"
	case o.JUnit:
		outputFormat = "junit"
	}

	if outputFormat == "text" {
		printBanner(out)
		fmt.Fprintf(out, "Tests: %s\n", o.Tests)
		if pattern != "" {
			fmt.Fprintf(out, "Pattern: %s\n", pattern)
		}
		if o.Tags != "" {
			fmt.Fprintf(out, "Tags: %s\n", o.Tags)
		}
		fmt.Fprintln(out)
	}

	cfg := &runner.Config{
		TestDir:            o.Tests,
		Pattern:            pattern,
		Tags:               o.Tags,
		Timeout:            o.Timeout,
		StopOnFirstFailure: o.StopOnFirst,
		Output:             out,
		OutputFormat:       outputFormat,
		Verbose:            o.Verbose,
	}
	if o.Debug {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if o.EventLog != "" {
		fl, err := log.NewFileLogger(o.EventLog)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer fl.Close()
		cfg.EventLogger = fl
	}

	r, err := runner.New(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	result, err := r.Run(ctx)
	if err != nil {
		return err
	}
	if result.FailCount > 0 {
		return errFailed
	}
	return nil
}

func printBanner(w io.Writer) {
	fmt.Fprint(w, `
 __  __ ______     __  _____         _
|  \/  / ___\ \   / / |_   _|__  ___| |_
| |\/| \___ \\ \ / /    | |/ _ \/ __| __|
| |  | |___) |\ V /     | |  __/\__ \ |_
|_|  |_|____/  \_/      |_|\___||___/\__|

Multi-state Value Scenario Runner
`)
}
