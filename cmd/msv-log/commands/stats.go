package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsBySource   map[log.Source]int
	EventsByCategory map[log.Category]int
	Objects          map[bacnet.ObjectID]*ObjectStats
	FailedWrites     int
	FailedAcks       int
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// ObjectStats holds statistics for a single object.
type ObjectStats struct {
	Events        int
	Transitions   int
	Writes        int
	Acks          int
	LastState     bacnet.EventState
	LastChangedAt time.Time
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := collectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func collectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsBySource:   make(map[log.Source]int),
		EventsByCategory: make(map[log.Category]int),
		Objects:          make(map[bacnet.ObjectID]*ObjectStats),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsBySource[event.Source]++
		stats.EventsByCategory[event.Category]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		obj, ok := stats.Objects[event.Object]
		if !ok {
			obj = &ObjectStats{}
			stats.Objects[event.Object] = obj
		}
		obj.Events++

		switch {
		case event.StateChange != nil:
			obj.Transitions++
			if !event.Timestamp.Before(obj.LastChangedAt) {
				obj.LastState = event.StateChange.NewState
				obj.LastChangedAt = event.Timestamp
			}
		case event.Write != nil:
			obj.Writes++
			if event.Write.Status != "ok" {
				stats.FailedWrites++
			}
		case event.Ack != nil:
			obj.Acks++
			if event.Ack.Status != "ok" {
				stats.FailedAcks++
			}
		case event.Error != nil:
			stats.Errors++
		}
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== MSV Event Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Source:")
	for _, s := range []log.Source{log.SourceCodec, log.SourceEngine, log.SourceRouter, log.SourceHost} {
		if count := stats.EventsBySource[s]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", s.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, c := range []log.Category{log.CategoryNotification, log.CategoryState, log.CategoryWrite, log.CategoryAck, log.CategoryError} {
		if count := stats.EventsByCategory[c]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", c.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Objects: %d\n", len(stats.Objects))
	ids := make([]bacnet.ObjectID, 0, len(stats.Objects))
	for id := range stats.Objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Type != ids[j].Type {
			return ids[i].Type < ids[j].Type
		}
		return ids[i].Instance < ids[j].Instance
	})
	for _, id := range ids {
		o := stats.Objects[id]
		fmt.Fprintf(w, "  %s: %d events, %d writes, %d transitions, %d acks\n",
			id, o.Events, o.Writes, o.Transitions, o.Acks)
		if o.Transitions > 0 {
			fmt.Fprintf(w, "      last state %s at %s\n", o.LastState, o.LastChangedAt.Format(time.RFC3339))
		}
	}

	if stats.FailedWrites > 0 || stats.FailedAcks > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Failed writes: %d\n", stats.FailedWrites)
		fmt.Fprintf(w, "Failed acks:   %d\n", stats.FailedAcks)
	}
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
