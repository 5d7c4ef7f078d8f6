// Command msv-log views and analyzes MSV event log files.
//
// Event logs are written by msv-device and msv-test when run with the
// --event-log flag. Each record is a CBOR-encoded event.
//
// Usage:
//
//	msv-log <command> [flags] <file.cbor>
//
// Examples:
//
//	# View all events
//	msv-log view events.cbor
//
//	# View only acknowledgments of object 3
//	msv-log view --category ack --instance 3 events.cbor
//
//	# Export to CSV
//	msv-log export --format csv -o events.csv events.cbor
//
//	# Keep only state changes and save to a new file
//	msv-log filter --category state -o states.cbor events.cbor
//
//	# Show statistics
//	msv-log stats events.cbor
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bacstack/msv-go/cmd/msv-log/commands"
	"github.com/bacstack/msv-go/pkg/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "msv-log",
		Short:         "MSV event log analyzer.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newViewCmd(), newExportCmd(), newFilterCmd(), newStatsCmd())
	version.AttachCobraVersionCommand(root)
	return root
}

func newViewCmd() *cobra.Command {
	var source, category string
	var instance int
	cmd := &cobra.Command{
		Use:   "view [flags] <file.cbor>",
		Short: "View log file in human-readable format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter commands.ViewFilter
			if source != "" {
				s, err := commands.ParseSourceFlag(source)
				if err != nil {
					return err
				}
				filter.Source = &s
			}
			if category != "" {
				c, err := commands.ParseCategoryFlag(category)
				if err != nil {
					return err
				}
				filter.Category = &c
			}
			if instance >= 0 {
				inst := uint32(instance)
				filter.Instance = &inst
			}
			return commands.RunView(args[0], filter, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "filter by source (codec, engine, router, host)")
	cmd.Flags().StringVar(&category, "category", "", "filter by category (notification, state, write, ack, error)")
	cmd.Flags().IntVar(&instance, "instance", -1, "filter by object instance")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export [flags] <file.cbor>",
		Short: "Export log file to JSON lines or CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return commands.RunExport(args[0], format, w)
		},
	}
	cmd.Flags().StringVar(&format, "format", "jsonl", "output format (jsonl, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newFilterCmd() *cobra.Command {
	opts := commands.FilterOptions{}
	cmd := &cobra.Command{
		Use:   "filter [flags] <file.cbor>",
		Short: "Filter log file and write to new file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := commands.RunFilter(args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d events to %s\n", n, opts.Output)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.Output, "output", "o", "", "output file")
	f.IntVar(&opts.Instance, "instance", -1, "filter by object instance")
	f.StringVar(&opts.TimeStart, "time-start", "", "filter by start time (RFC3339)")
	f.StringVar(&opts.TimeEnd, "time-end", "", "filter by end time (RFC3339)")
	f.StringVar(&opts.Source, "source", "", "filter by source (codec, engine, router, host)")
	f.StringVar(&opts.Category, "category", "", "filter by category (notification, state, write, ack, error)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file.cbor>",
		Short: "Show statistics about the log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunStats(args[0], cmd.OutOrStdout())
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
