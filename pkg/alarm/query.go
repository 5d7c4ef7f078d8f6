package alarm

import (
	"errors"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/log"
	"github.com/bacstack/msv-go/pkg/metrics"
	"github.com/bacstack/msv-go/pkg/model"
)

// ErrNotApplicable is returned by AcknowledgeAlarm for event states this
// object type never acknowledges.
var ErrNotApplicable = errors.New("event state not applicable")

// ListStatus is the result of an indexed listing query.
type ListStatus uint8

const (
	// ListActive means the object at the index is reported.
	ListActive ListStatus = iota

	// ListInactive means the object exists but has nothing to report.
	ListInactive

	// ListEnd means the index is past the last object.
	ListEnd
)

// String returns the status name.
func (s ListStatus) String() string {
	switch s {
	case ListActive:
		return "ACTIVE"
	case ListInactive:
		return "INACTIVE"
	case ListEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// EventSummary is one entry of GetEventInformation.
type EventSummary struct {
	Object                  bacnet.ObjectID
	EventState              bacnet.EventState
	AcknowledgedTransitions [bacnet.TransitionCount]bool
	EventTimeStamps         [bacnet.TransitionCount]bacnet.TimeStamp
	NotifyType              bacnet.NotifyType
	EventEnable             bacnet.EventEnable
	EventPriorities         [bacnet.TransitionCount]uint8
}

// AlarmSummary is one entry of GetAlarmSummary.
type AlarmSummary struct {
	Object                  bacnet.ObjectID
	AlarmState              bacnet.EventState
	AcknowledgedTransitions [bacnet.TransitionCount]bool
}

// AckRequest is an AcknowledgeAlarm request for one object.
type AckRequest struct {
	Object bacnet.ObjectID

	// EventState is the state being acknowledged.
	EventState bacnet.EventState

	// TimeStamp is the time of the transition being acknowledged.
	TimeStamp bacnet.TimeStamp

	// Source names the acknowledging operator.
	Source string
}

func ackedBits(r *model.Record) [bacnet.TransitionCount]bool {
	var bits [bacnet.TransitionCount]bool
	for i, a := range r.AckedTransitions {
		bits[i] = a.Acked
	}
	return bits
}

func hasUnacked(r *model.Record) bool {
	for _, a := range r.AckedTransitions {
		if !a.Acked {
			return true
		}
	}
	return false
}

// EventInformation reports the object at index if its event state is not
// NORMAL or any of its transitions is unacknowledged.
func (e *Engine) EventInformation(index model.Index) (EventSummary, ListStatus) {
	r := e.store.Record(index)
	if r == nil {
		return EventSummary{}, ListEnd
	}
	if r.EventState == bacnet.EventStateNormal && !hasUnacked(r) {
		return EventSummary{}, ListInactive
	}

	s := EventSummary{
		Object:                  e.store.ObjectID(e.store.IndexToInstance(index)),
		EventState:              r.EventState,
		AcknowledgedTransitions: ackedBits(r),
		NotifyType:              r.NotifyType,
		EventEnable:             r.EventEnable,
	}
	for i, dt := range r.EventTimeStamps {
		s.EventTimeStamps[i] = bacnet.DateTimeStamp(dt)
	}
	if e.router != nil {
		s.EventPriorities = e.router.Priorities(r.NotificationClass)
	}
	return s, ListActive
}

// AlarmSummary reports the object at index if it is not NORMAL and notifies
// as an alarm.
func (e *Engine) AlarmSummary(index model.Index) (AlarmSummary, ListStatus) {
	r := e.store.Record(index)
	if r == nil {
		return AlarmSummary{}, ListEnd
	}
	if r.EventState == bacnet.EventStateNormal || r.NotifyType != bacnet.NotifyAlarm {
		return AlarmSummary{}, ListInactive
	}
	return AlarmSummary{
		Object:                  e.store.ObjectID(e.store.IndexToInstance(index)),
		AlarmState:              r.EventState,
		AcknowledgedTransitions: ackedBits(r),
	}, ListActive
}

// ackSlot maps an acknowledged event state to the transition it
// acknowledges. FAULT acknowledges the TO_NORMAL slot and NORMAL the TO_FAULT
// slot.
func ackSlot(state bacnet.EventState) (bacnet.Transition, bool) {
	switch state {
	case bacnet.EventStateOffnormal, bacnet.EventStateHighLimit, bacnet.EventStateLowLimit:
		return bacnet.TransitionToOffnormal, true
	case bacnet.EventStateFault:
		return bacnet.TransitionToNormal, true
	case bacnet.EventStateNormal:
		return bacnet.TransitionToFault, true
	}
	return 0, false
}

// AcknowledgeAlarm acknowledges a transition of the object named in req and
// arms an ack notification for its next tick.
func (e *Engine) AcknowledgeAlarm(req *AckRequest) (err error) {
	defer func() {
		e.metrics.AlarmAck(err)
		e.events.Log(log.Event{
			Timestamp: e.now(),
			Source:    log.SourceEngine,
			Category:  log.CategoryAck,
			Object:    req.Object,
			Ack: &log.AckEvent{
				EventState: req.EventState,
				AckSource:  req.Source,
				Status:     metrics.Result(err),
			},
		})
	}()

	if req.Object.Type != bacnet.ObjectMultiStateValue {
		return bacnet.NewError(bacnet.ErrorClassObject, bacnet.ErrorCodeUnknownObject)
	}
	r, ok := e.store.Lookup(req.Object.Instance)
	if !ok {
		return bacnet.NewError(bacnet.ErrorClassObject, bacnet.ErrorCodeUnknownObject)
	}
	slot, ok := ackSlot(req.EventState)
	if !ok {
		return ErrNotApplicable
	}

	acked := &r.AckedTransitions[slot]
	if acked.Acked {
		return bacnet.NewError(bacnet.ErrorClassServices, bacnet.ErrorCodeInvalidEventState)
	}
	if req.TimeStamp.Tag != bacnet.TimeStampDateTime {
		return bacnet.NewError(bacnet.ErrorClassServices, bacnet.ErrorCodeInvalidTimeStamp)
	}
	if acked.TimeStamp.Compare(req.TimeStamp.DateTime) > 0 {
		return bacnet.NewError(bacnet.ErrorClassServices, bacnet.ErrorCodeInvalidTimeStamp)
	}

	acked.Acked = true
	r.AckNotify = model.PendingAck{Pending: true, EventState: req.EventState}
	e.logger.Info("alarm acknowledged",
		"object", req.Object,
		"state", req.EventState,
		"transition", slot,
		"source", req.Source)
	return nil
}
