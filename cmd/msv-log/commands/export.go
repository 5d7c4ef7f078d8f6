package commands

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/bacstack/msv-go/pkg/log"
)

// RunExport exports the log file to w in the specified format.
func RunExport(path, format string, w io.Writer) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	if format == "jsonl" {
		return exportJSONL(reader, w)
	}
	return exportCSV(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
}

var csvHeader = []string{"timestamp", "source", "category", "object", "from_state", "to_state", "property", "priority", "status"}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := cw.Write(csvRow(event)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvRow(event log.Event) []string {
	var from, to, prop, prio, status string
	switch {
	case event.Notification != nil:
		from = event.Notification.FromState.String()
		to = event.Notification.ToState.String()
		prio = strconv.Itoa(int(event.Notification.Priority))
	case event.StateChange != nil:
		from = event.StateChange.OldState.String()
		to = event.StateChange.NewState.String()
	case event.Write != nil:
		prop = event.Write.Property.String()
		if event.Write.Priority != 0 {
			prio = strconv.Itoa(int(event.Write.Priority))
		}
		status = event.Write.Status
	case event.Ack != nil:
		to = event.Ack.EventState.String()
		status = event.Ack.Status
	case event.Error != nil:
		status = event.Error.Message
	}
	return []string{
		event.Timestamp.UTC().Format(timeLayout),
		event.Source.String(),
		event.Category.String(),
		event.Object.String(),
		from, to, prop, prio, status,
	}
}
