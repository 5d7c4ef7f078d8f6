package bacnet

import (
	"fmt"
	"strconv"
	"strings"
)

// ArrayAll is the array index used when a request carries no index.
const ArrayAll uint32 = 0xFFFFFFFF

// MaxPriority is the number of command priority levels.
const MaxPriority = 16

// ObjectType identifies a BACnet object type.
type ObjectType uint16

const (
	ObjectAnalogInput       ObjectType = 0x00
	ObjectAnalogValue       ObjectType = 0x02
	ObjectBinaryValue       ObjectType = 0x05
	ObjectDevice            ObjectType = 0x08
	ObjectMultiStateInput   ObjectType = 0x0D
	ObjectMultiStateOutput  ObjectType = 0x0E
	ObjectNotificationClass ObjectType = 0x0F
	ObjectMultiStateValue   ObjectType = 0x13
)

// String returns the object type name.
func (t ObjectType) String() string {
	switch t {
	case ObjectAnalogInput:
		return "analog-input"
	case ObjectAnalogValue:
		return "analog-value"
	case ObjectBinaryValue:
		return "binary-value"
	case ObjectDevice:
		return "device"
	case ObjectMultiStateInput:
		return "multi-state-input"
	case ObjectMultiStateOutput:
		return "multi-state-output"
	case ObjectNotificationClass:
		return "notification-class"
	case ObjectMultiStateValue:
		return "multi-state-value"
	default:
		return fmt.Sprintf("object-type-%d", uint16(t))
	}
}

// PropertyID identifies a BACnet property.
type PropertyID uint32

const (
	PropAckedTransitions  PropertyID = 0
	PropAlarmValues       PropertyID = 7
	PropNotificationClass PropertyID = 17
	PropDescription       PropertyID = 28
	PropEventEnable       PropertyID = 35
	PropEventState        PropertyID = 36
	PropNotifyType        PropertyID = 72
	PropNumberOfStates    PropertyID = 74
	PropObjectIdentifier  PropertyID = 75
	PropObjectName        PropertyID = 77
	PropObjectType        PropertyID = 79
	PropOutOfService      PropertyID = 81
	PropPresentValue      PropertyID = 85
	PropPriorityArray     PropertyID = 87
	PropRelinquishDefault PropertyID = 104
	PropStateText         PropertyID = 110
	PropStatusFlags       PropertyID = 111
	PropTimeDelay         PropertyID = 113
	PropEventTimeStamps   PropertyID = 130
)

var propertyNames = map[PropertyID]string{
	PropAckedTransitions:  "acked-transitions",
	PropAlarmValues:       "alarm-values",
	PropNotificationClass: "notification-class",
	PropDescription:       "description",
	PropEventEnable:       "event-enable",
	PropEventState:        "event-state",
	PropNotifyType:        "notify-type",
	PropNumberOfStates:    "number-of-states",
	PropObjectIdentifier:  "object-identifier",
	PropObjectName:        "object-name",
	PropObjectType:        "object-type",
	PropOutOfService:      "out-of-service",
	PropPresentValue:      "present-value",
	PropPriorityArray:     "priority-array",
	PropRelinquishDefault: "relinquish-default",
	PropStateText:         "state-text",
	PropStatusFlags:       "status-flags",
	PropTimeDelay:         "time-delay",
	PropEventTimeStamps:   "event-time-stamps",
}

// String returns the property name.
func (p PropertyID) String() string {
	if name, ok := propertyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("property-%d", uint32(p))
}

// ParsePropertyID resolves a property name (as returned by String) or a
// decimal identifier.
func ParsePropertyID(s string) (PropertyID, error) {
	for id, name := range propertyNames {
		if name == s {
			return id, nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown property %q", s)
	}
	return PropertyID(n), nil
}

// EventState is the event state of an object.
type EventState uint8

const (
	EventStateNormal          EventState = 0
	EventStateFault           EventState = 1
	EventStateOffnormal       EventState = 2
	EventStateHighLimit       EventState = 3
	EventStateLowLimit        EventState = 4
	EventStateLifeSafetyAlarm EventState = 5
)

// String returns the event state name.
func (s EventState) String() string {
	switch s {
	case EventStateNormal:
		return "NORMAL"
	case EventStateFault:
		return "FAULT"
	case EventStateOffnormal:
		return "OFFNORMAL"
	case EventStateHighLimit:
		return "HIGH_LIMIT"
	case EventStateLowLimit:
		return "LOW_LIMIT"
	case EventStateLifeSafetyAlarm:
		return "LIFE_SAFETY_ALARM"
	default:
		return "UNKNOWN"
	}
}

// ParseEventState resolves an event state name (as returned by String, in
// any case) or a decimal value.
func ParseEventState(s string) (EventState, error) {
	for st := EventStateNormal; st <= EventStateLifeSafetyAlarm; st++ {
		if strings.EqualFold(st.String(), s) {
			return st, nil
		}
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n > uint64(EventStateLifeSafetyAlarm) {
		return 0, fmt.Errorf("unknown event state %q", s)
	}
	return EventState(n), nil
}

// NotifyType selects whether transitions are reported as alarms or events.
type NotifyType uint8

const (
	NotifyAlarm           NotifyType = 0
	NotifyEvent           NotifyType = 1
	NotifyAckNotification NotifyType = 2
)

// String returns the notify type name.
func (n NotifyType) String() string {
	switch n {
	case NotifyAlarm:
		return "ALARM"
	case NotifyEvent:
		return "EVENT"
	case NotifyAckNotification:
		return "ACK_NOTIFICATION"
	default:
		return "UNKNOWN"
	}
}

// EventType is the algorithm that produced an event notification.
type EventType uint8

const (
	EventTypeChangeOfState EventType = 1
	EventTypeOutOfRange    EventType = 5
)

// String returns the event type name.
func (e EventType) String() string {
	switch e {
	case EventTypeChangeOfState:
		return "CHANGE_OF_STATE"
	case EventTypeOutOfRange:
		return "OUT_OF_RANGE"
	default:
		return "UNKNOWN"
	}
}

// Transition indexes the per-transition arrays (acked transitions, event
// time stamps, event priorities).
type Transition uint8

const (
	TransitionToOffnormal Transition = 0
	TransitionToFault     Transition = 1
	TransitionToNormal    Transition = 2

	// TransitionCount is the number of event transitions.
	TransitionCount = 3
)

// String returns the transition name.
func (t Transition) String() string {
	switch t {
	case TransitionToOffnormal:
		return "TO_OFFNORMAL"
	case TransitionToFault:
		return "TO_FAULT"
	case TransitionToNormal:
		return "TO_NORMAL"
	default:
		return "UNKNOWN"
	}
}

// EventEnable is a bitmask over the three event transitions.
type EventEnable uint8

const (
	EventEnableToOffnormal EventEnable = 1 << TransitionToOffnormal
	EventEnableToFault     EventEnable = 1 << TransitionToFault
	EventEnableToNormal    EventEnable = 1 << TransitionToNormal

	// EventEnableAll enables every transition.
	EventEnableAll = EventEnableToOffnormal | EventEnableToFault | EventEnableToNormal
)

// Has reports whether the transition bit t is set.
func (e EventEnable) Has(t Transition) bool {
	return e&(1<<t) != 0
}

// StatusFlag indexes the bits of the status-flags bit string.
type StatusFlag uint8

const (
	StatusFlagInAlarm      StatusFlag = 0
	StatusFlagFault        StatusFlag = 1
	StatusFlagOverridden   StatusFlag = 2
	StatusFlagOutOfService StatusFlag = 3

	// StatusFlagCount is the number of status flags.
	StatusFlagCount = 4
)

// StatusFlags is the four-bit status flag set.
type StatusFlags struct {
	InAlarm      bool
	Fault        bool
	Overridden   bool
	OutOfService bool
}

// Bits returns the flags in bit-string order.
func (f StatusFlags) Bits() []bool {
	return []bool{f.InAlarm, f.Fault, f.Overridden, f.OutOfService}
}

// String returns the flags in compact form, e.g. "A--S".
func (f StatusFlags) String() string {
	marks := []byte("AFOS")
	out := []byte("----")
	for i, set := range f.Bits() {
		if set {
			out[i] = marks[i]
		}
	}
	return string(out)
}
