package runner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bacstack/msv-go/internal/testharness/engine"
	"github.com/bacstack/msv-go/internal/testharness/loader"
	"github.com/bacstack/msv-go/pkg/alarm"
	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/inspect"
	"github.com/bacstack/msv-go/pkg/priority"
)

// Output keys shared by several actions.
const (
	KeyErrorCode = "error_code"
)

func (r *Runner) registerHandlers() {
	r.engine.RegisterHandler("read_property", handleReadProperty)
	r.engine.RegisterHandler("write_property", handleWriteProperty)
	r.engine.RegisterHandler("tick", handleTick)
	r.engine.RegisterHandler("acknowledge_alarm", handleAcknowledgeAlarm)
	r.engine.RegisterHandler("event_information", handleEventInformation)
	r.engine.RegisterHandler("alarm_summary", handleAlarmSummary)
	r.engine.RegisterHandler("list_objects", handleListObjects)
	r.engine.RegisterHandler("advance_clock", handleAdvanceClock)
	r.engine.RegisterHandler("restart", handleRestart)
}

func sessionFrom(state *engine.ExecutionState) (*session, error) {
	s, ok := state.Custom[sessionKey].(*session)
	if !ok {
		return nil, errors.New("no device under test")
	}
	return s, nil
}

// handleReadProperty reads one property.
// Params: instance, property, array_index (optional).
// Outputs: read_ok, value, error_code.
func handleReadProperty(_ context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	s, err := sessionFrom(state)
	if err != nil {
		return nil, err
	}
	path, err := propertyPath(step.Params)
	if err != nil {
		return nil, err
	}

	value, err := s.inspector.ReadProperty(path, s.formatter)
	code, err := errorCode(err)
	if err != nil {
		return nil, err
	}
	out := map[string]any{"read_ok": code == "", KeyErrorCode: code}
	if code == "" {
		out["value"] = unquote(value)
	}
	return out, nil
}

// handleWriteProperty writes one property.
// Params: instance, property, value, priority (default 16), array_index
// (optional).
// Outputs: write_ok, error_code.
func handleWriteProperty(_ context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	s, err := sessionFrom(state)
	if err != nil {
		return nil, err
	}
	path, err := propertyPath(step.Params)
	if err != nil {
		return nil, err
	}
	value, ok := step.Params["value"]
	if !ok {
		return nil, errors.New("missing param: value")
	}
	prio, err := intParam(step.Params, "priority", priority.MaxPriority)
	if err != nil {
		return nil, err
	}

	code, err := errorCode(s.inspector.WriteProperty(path, fmt.Sprint(value), uint8(prio)))
	if err != nil {
		return nil, err
	}
	return map[string]any{"write_ok": code == "", KeyErrorCode: code}, nil
}

// handleTick runs the event state machine.
// Params: count (default 1).
// Outputs: notification_count, to_state (of the last notification),
// notifications, delivery_count.
func handleTick(_ context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	s, err := sessionFrom(state)
	if err != nil {
		return nil, err
	}
	count, err := intParam(step.Params, "count", 1)
	if err != nil {
		return nil, err
	}

	s.deliveries = nil
	var reported []alarm.Notification
	for i := 0; i < count; i++ {
		reported = append(reported, s.host.Tick()...)
	}

	list := make([]map[string]any, 0, len(reported))
	toState := ""
	for _, n := range reported {
		list = append(list, map[string]any{
			"instance":     n.Object.Instance,
			"from_state":   n.FromState.String(),
			"to_state":     n.ToState.String(),
			"notify_type":  n.NotifyType.String(),
			"priority":     n.Priority,
			"ack_required": n.AckRequired,
			"class":        n.NotificationClass,
		})
		toState = n.ToState.String()
	}
	return map[string]any{
		"notification_count": len(reported),
		"notifications":      list,
		"to_state":           toState,
		"delivery_count":     len(s.deliveries),
	}, nil
}

// handleAcknowledgeAlarm acknowledges a transition.
// Params: instance, state, timestamp ("now" (default), "stale" or "none").
// Outputs: ack_ok, error_code.
func handleAcknowledgeAlarm(_ context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	s, err := sessionFrom(state)
	if err != nil {
		return nil, err
	}
	instance, err := intParam(step.Params, "instance", -1)
	if err != nil {
		return nil, err
	}
	if instance < 0 {
		return nil, errors.New("missing param: instance")
	}
	eventState, err := bacnet.ParseEventState(fmt.Sprint(step.Params["state"]))
	if err != nil {
		return nil, err
	}

	var ts bacnet.TimeStamp
	switch mode := stringParam(step.Params, "timestamp", "now"); mode {
	case "now":
		ts = bacnet.DateTimeStamp(s.host.Device().DateTime())
	case "stale":
		ts = bacnet.DateTimeStamp(bacnet.DateTimeFromTime(s.clock.Now().Add(-time.Hour)))
	case "none":
		ts = bacnet.TimeStamp{Tag: bacnet.TimeStampSequence}
	default:
		return nil, fmt.Errorf("unknown timestamp mode: %s", mode)
	}

	code, err := errorCode(s.host.AcknowledgeAlarm(&alarm.AckRequest{
		Object:     bacnet.ObjectID{Type: bacnet.ObjectMultiStateValue, Instance: uint32(instance)},
		EventState: eventState,
		TimeStamp:  ts,
		Source:     "msv-test",
	}))
	if err != nil {
		return nil, err
	}
	return map[string]any{"ack_ok": code == "", KeyErrorCode: code}, nil
}

// handleEventInformation lists the objects with active events.
// Outputs: event_count, events.
func handleEventInformation(_ context.Context, _ *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	s, err := sessionFrom(state)
	if err != nil {
		return nil, err
	}
	summaries := s.host.EventInformation()
	events := make([]map[string]any, 0, len(summaries))
	for _, e := range summaries {
		events = append(events, map[string]any{
			"instance":    e.Object.Instance,
			"event_state": e.EventState.String(),
			"acked":       formatAcked(e.AcknowledgedTransitions),
			"notify_type": e.NotifyType.String(),
			"priorities":  fmt.Sprint(e.EventPriorities),
		})
	}
	return map[string]any{"event_count": len(events), "events": events}, nil
}

// handleAlarmSummary lists the objects in alarm.
// Outputs: alarm_count, alarms.
func handleAlarmSummary(_ context.Context, _ *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	s, err := sessionFrom(state)
	if err != nil {
		return nil, err
	}
	summaries := s.host.AlarmSummary()
	alarms := make([]map[string]any, 0, len(summaries))
	for _, a := range summaries {
		alarms = append(alarms, map[string]any{
			"instance":    a.Object.Instance,
			"alarm_state": a.AlarmState.String(),
			"acked":       formatAcked(a.AcknowledgedTransitions),
		})
	}
	return map[string]any{"alarm_count": len(alarms), "alarms": alarms}, nil
}

// handleListObjects lists every object.
// Outputs: object_count, objects.
func handleListObjects(_ context.Context, _ *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	s, err := sessionFrom(state)
	if err != nil {
		return nil, err
	}
	infos := s.host.Objects()
	objects := make([]map[string]any, 0, len(infos))
	for _, o := range infos {
		objects = append(objects, map[string]any{
			"instance":       o.Object.Instance,
			"name":           o.Name,
			"present_value":  o.PresentValue,
			"state_text":     o.StateText,
			"out_of_service": o.OutOfService,
			"event_state":    o.EventState.String(),
		})
	}
	return map[string]any{"object_count": len(objects), "objects": objects}, nil
}

// handleAdvanceClock moves the manual clock forward.
// Params: seconds.
// Outputs: now.
func handleAdvanceClock(_ context.Context, step *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	s, err := sessionFrom(state)
	if err != nil {
		return nil, err
	}
	seconds, err := intParam(step.Params, "seconds", 0)
	if err != nil {
		return nil, err
	}
	if seconds < 0 {
		return nil, fmt.Errorf("cannot move the clock back %d seconds", -seconds)
	}
	now := s.clock.Advance(time.Duration(seconds) * time.Second)
	return map[string]any{"now": bacnet.DateTimeFromTime(now).String()}, nil
}

// handleRestart saves the runtime state and recreates the host from it.
// Outputs: restarted.
func handleRestart(_ context.Context, _ *loader.Step, state *engine.ExecutionState) (map[string]any, error) {
	s, err := sessionFrom(state)
	if err != nil {
		return nil, err
	}
	if err := s.restart(); err != nil {
		return nil, err
	}
	return map[string]any{"restarted": true}, nil
}

// propertyPath builds the inspection path from the instance, property and
// array_index params.
func propertyPath(params map[string]any) (*inspect.Path, error) {
	instance, ok := params["instance"]
	if !ok {
		return nil, errors.New("missing param: instance")
	}
	prop, ok := params["property"]
	if !ok {
		return nil, errors.New("missing param: property")
	}
	raw := fmt.Sprintf("%v/%v", instance, prop)
	if index, ok := params["array_index"]; ok {
		raw = fmt.Sprintf("%s/%v", raw, index)
	}
	return inspect.ParsePath(raw)
}

// errorCode maps a BACnet error to its code name. Other errors are
// returned as they are.
func errorCode(err error) (string, error) {
	if err == nil {
		return "", nil
	}
	var be *bacnet.Error
	if errors.As(err, &be) {
		return be.Code.String(), nil
	}
	if errors.Is(err, alarm.ErrNotApplicable) {
		return "NOT_APPLICABLE", nil
	}
	return "", err
}

func intParam(params map[string]any, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("param %s: %w", key, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("param %s: unexpected type %T", key, v)
	}
}

func stringParam(params map[string]any, key, def string) string {
	if v, ok := params[key]; ok {
		return fmt.Sprint(v)
	}
	return def
}

// unquote strips the quotes of a single formatted character string so
// scenarios can compare names directly.
func unquote(s string) string {
	if strings.HasPrefix(s, `"`) {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}

func formatAcked(acked [bacnet.TransitionCount]bool) string {
	marks := make([]string, len(acked))
	for i, a := range acked {
		marks[i] = "F"
		if a {
			marks[i] = "T"
		}
	}
	return "{" + strings.Join(marks, ",") + "}"
}
