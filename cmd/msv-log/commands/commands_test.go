package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/encoding"
	"github.com/bacstack/msv-go/pkg/log"
)

var baseTime = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func sampleEvents() []log.Event {
	return []log.Event{
		{
			Timestamp: baseTime,
			Source:    log.SourceCodec,
			Category:  log.CategoryWrite,
			Object:    msvObject(3),
			Write: &log.WriteEvent{
				Property: bacnet.PropPresentValue,
				Priority: 8,
				Data:     encoding.AppendUnsigned(nil, 2),
				Status:   "ok",
			},
		},
		{
			Timestamp: baseTime.Add(time.Second),
			Source:    log.SourceCodec,
			Category:  log.CategoryWrite,
			Object:    msvObject(4),
			Write: &log.WriteEvent{
				Property: bacnet.PropObjectName,
				Data:     encoding.AppendCharacterString(nil, encoding.UTF8String("Pump")),
				Status:   "DUPLICATE_NAME",
			},
		},
		{
			Timestamp: baseTime.Add(2 * time.Second),
			Source:    log.SourceEngine,
			Category:  log.CategoryState,
			Object:    msvObject(3),
			StateChange: &log.StateChangeEvent{
				OldState: bacnet.EventStateNormal,
				NewState: bacnet.EventStateFault,
				Reason:   "alarm value",
			},
		},
		{
			Timestamp: baseTime.Add(2 * time.Second),
			Source:    log.SourceRouter,
			Category:  log.CategoryNotification,
			Object:    msvObject(3),
			Notification: &log.NotificationEvent{
				NotificationClass: 1,
				Priority:          20,
				NotifyType:        bacnet.NotifyAlarm,
				FromState:         bacnet.EventStateNormal,
				ToState:           bacnet.EventStateFault,
				AckRequired:       true,
			},
		},
		{
			Timestamp: baseTime.Add(time.Minute),
			Source:    log.SourceEngine,
			Category:  log.CategoryAck,
			Object:    msvObject(3),
			Ack: &log.AckEvent{
				EventState: bacnet.EventStateNormal,
				AckSource:  "operator",
				Status:     "ok",
			},
		},
	}
}

func writeLog(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.cbor")
	fl, err := log.NewFileLogger(path)
	require.NoError(t, err)
	for _, e := range events {
		fl.Log(e)
	}
	require.NoError(t, fl.Close())
	return path
}

func TestRunView(t *testing.T) {
	path := writeLog(t, sampleEvents())

	var buf bytes.Buffer
	require.NoError(t, RunView(path, ViewFilter{}, &buf))
	out := buf.String()

	assert.Contains(t, out, "2026-04-01T12:00:00.000000Z CODEC  WRITE")
	assert.Contains(t, out, "present-value = 2 @8  [ok]")
	assert.Contains(t, out, `object-name = "Pump"  [DUPLICATE_NAME]`)
	assert.Contains(t, out, "NORMAL -> FAULT\n  Reason: alarm value")
	assert.Contains(t, out, "NORMAL -> FAULT (ALARM)")
	assert.Contains(t, out, "Class: 1  Priority: 20  ack-required")
	assert.Contains(t, out, "Acknowledge NORMAL by operator  [ok]")
}

func TestRunViewFiltered(t *testing.T) {
	path := writeLog(t, sampleEvents())

	engine := log.SourceEngine
	var buf bytes.Buffer
	require.NoError(t, RunView(path, ViewFilter{Source: &engine}, &buf))
	assert.NotContains(t, buf.String(), "CODEC")
	assert.Equal(t, 2, strings.Count(buf.String(), "ENGINE"))

	instance := uint32(4)
	buf.Reset()
	require.NoError(t, RunView(path, ViewFilter{Instance: &instance}, &buf))
	assert.Equal(t, 1, strings.Count(buf.String(), "WRITE"))
	assert.Contains(t, buf.String(), "DUPLICATE_NAME")
}

func TestRunViewMissingFile(t *testing.T) {
	err := RunView(filepath.Join(t.TempDir(), "none.cbor"), ViewFilter{}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to open log file")
}

func TestParseFlags(t *testing.T) {
	s, err := ParseSourceFlag("Router")
	require.NoError(t, err)
	assert.Equal(t, log.SourceRouter, s)
	_, err = ParseSourceFlag("wire")
	assert.Error(t, err)

	c, err := ParseCategoryFlag("ACK")
	require.NoError(t, err)
	assert.Equal(t, log.CategoryAck, c)
	_, err = ParseCategoryFlag("message")
	assert.Error(t, err)
}

func TestRunExportJSONL(t *testing.T) {
	path := writeLog(t, sampleEvents())

	var buf bytes.Buffer
	require.NoError(t, RunExport(path, "jsonl", &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	var first log.Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, log.CategoryWrite, first.Category)
	assert.Equal(t, uint8(8), first.Write.Priority)
}

func TestRunExportCSV(t *testing.T) {
	path := writeLog(t, sampleEvents())

	var buf bytes.Buffer
	require.NoError(t, RunExport(path, "csv", &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"present-value", "8", "ok"}, rows[1][6:])
	assert.Equal(t, []string{"NORMAL", "FAULT"}, rows[3][4:6])
	assert.Equal(t, "20", rows[4][7])

	assert.ErrorContains(t, RunExport(path, "xml", &buf), "unknown format")
}

func TestRunFilter(t *testing.T) {
	path := writeLog(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "filtered.cbor")

	n, err := RunFilter(path, FilterOptions{Output: out, Instance: 3, Category: "state"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reader, err := log.NewReader(out)
	require.NoError(t, err)
	defer reader.Close()
	events, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, bacnet.EventStateFault, events[0].StateChange.NewState)
}

func TestRunFilterTimeRange(t *testing.T) {
	path := writeLog(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "filtered.cbor")

	n, err := RunFilter(path, FilterOptions{
		Output:    out,
		Instance:  -1,
		TimeStart: baseTime.Add(time.Second).Format(time.RFC3339),
		TimeEnd:   baseTime.Add(time.Minute).Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = RunFilter(path, FilterOptions{Output: out, Instance: -1, TimeStart: "yesterday"})
	assert.ErrorContains(t, err, "invalid time-start")
	_, err = RunFilter(path, FilterOptions{Output: out, Instance: -1, Source: "wire"})
	assert.ErrorContains(t, err, "invalid source")
}

func TestRunStats(t *testing.T) {
	path := writeLog(t, sampleEvents())

	stats, err := collectStats(path)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalEvents)
	assert.Equal(t, 2, stats.EventsBySource[log.SourceEngine])
	assert.Equal(t, 1, stats.FailedWrites)
	assert.Zero(t, stats.FailedAcks)
	require.Contains(t, stats.Objects, msvObject(3))
	obj := stats.Objects[msvObject(3)]
	assert.Equal(t, 4, obj.Events)
	assert.Equal(t, bacnet.EventStateFault, obj.LastState)

	var buf bytes.Buffer
	require.NoError(t, RunStats(path, &buf))
	assert.Contains(t, buf.String(), "Total Events: 5")
	assert.Contains(t, buf.String(), "Objects: 2")
	assert.Contains(t, buf.String(), "Failed writes: 1")
	assert.Contains(t, buf.String(), "Duration:   1m0s")
}
