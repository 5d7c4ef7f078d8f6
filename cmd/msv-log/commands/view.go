// Package commands implements the msv-log CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/encoding"
	"github.com/bacstack/msv-go/pkg/inspect"
	"github.com/bacstack/msv-go/pkg/log"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Source   *log.Source
	Category *log.Category
	Instance *uint32
}

func (f ViewFilter) matches(e log.Event) bool {
	if f.Source != nil && e.Source != *f.Source {
		return false
	}
	if f.Category != nil && e.Category != *f.Category {
		return false
	}
	if f.Instance != nil && e.Object.Instance != *f.Instance {
		return false
	}
	return true
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event, f *inspect.Formatter) {
	ts := event.Timestamp.UTC().Format(timeLayout)
	fmt.Fprintf(w, "%s %-6s %-12s %s\n", ts, event.Source, event.Category, event.Object)

	switch {
	case event.Notification != nil:
		formatNotificationDetails(w, event.Notification)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Write != nil:
		formatWriteDetails(w, event.Write, f)
	case event.Ack != nil:
		formatAckDetails(w, event.Ack)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

func formatNotificationDetails(w io.Writer, n *log.NotificationEvent) {
	fmt.Fprintf(w, "  %s -> %s (%s)\n", n.FromState, n.ToState, n.NotifyType)
	fmt.Fprintf(w, "  Class: %d  Priority: %d", n.NotificationClass, n.Priority)
	if n.AckRequired {
		fmt.Fprint(w, "  ack-required")
	}
	fmt.Fprintln(w)
	if n.Message != "" {
		fmt.Fprintf(w, "  Message: %s\n", n.Message)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatWriteDetails(w io.Writer, we *log.WriteEvent, f *inspect.Formatter) {
	target := we.Property.String()
	if we.ArrayIndex != nil {
		target += "[" + strconv.FormatUint(uint64(*we.ArrayIndex), 10) + "]"
	}
	value := "?"
	if v, _, err := encoding.DecodeApplication(we.Data); err == nil {
		value = f.FormatValue(we.Property, v)
	}
	fmt.Fprintf(w, "  %s = %s", target, value)
	if we.Priority != 0 {
		fmt.Fprintf(w, " @%d", we.Priority)
	}
	fmt.Fprintf(w, "  [%s]\n", we.Status)
}

func formatAckDetails(w io.Writer, a *log.AckEvent) {
	fmt.Fprintf(w, "  Acknowledge %s", a.EventState)
	if a.AckSource != "" {
		fmt.Fprintf(w, " by %s", a.AckSource)
	}
	fmt.Fprintf(w, "  [%s]\n", a.Status)
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Source: %s\n", e.Source)
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	if e.Code != nil {
		fmt.Fprintf(w, "  Code: %d\n", *e.Code)
	}
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
}

// ParseSourceFlag parses a source string (case-insensitive).
func ParseSourceFlag(s string) (log.Source, error) {
	switch strings.ToLower(s) {
	case "codec":
		return log.SourceCodec, nil
	case "engine":
		return log.SourceEngine, nil
	case "router":
		return log.SourceRouter, nil
	case "host":
		return log.SourceHost, nil
	default:
		return 0, fmt.Errorf("invalid source: %s (must be codec, engine, router, or host)", s)
	}
}

// ParseCategoryFlag parses a category string (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "notification":
		return log.CategoryNotification, nil
	case "state":
		return log.CategoryState, nil
	case "write":
		return log.CategoryWrite, nil
	case "ack":
		return log.CategoryAck, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be notification, state, write, ack, or error)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	f := inspect.NewFormatter()
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if filter.matches(event) {
			formatEvent(output, event, f)
		}
	}
}

// msvObject returns the Multi-state Value object with the given instance.
func msvObject(instance uint32) bacnet.ObjectID {
	return bacnet.ObjectID{Type: bacnet.ObjectMultiStateValue, Instance: instance}
}
