package model

import (
	"fmt"
	"slices"

	"github.com/bacstack/msv-go/pkg/bacnet"
)

// Record limits.
const (
	// StateNull marks an unset priority array slot.
	StateNull uint8 = 255

	// MaxStates is the largest number of states an object can have.
	MaxStates = 254

	// MaxNameLength is the longest object name in bytes.
	MaxNameLength = 63

	// MaxDescriptionLength is the longest description in bytes.
	MaxDescriptionLength = 63

	// MaxStateTextLength is the longest state text in bytes.
	MaxStateTextLength = 63
)

// AckedTransition is the acknowledgment state of one transition kind.
type AckedTransition struct {
	Acked     bool
	TimeStamp bacnet.DateTime
}

// PendingAck records an acknowledged event state whose ack notification has
// not been sent yet.
type PendingAck struct {
	Pending    bool
	EventState bacnet.EventState
}

// Record is one Multi-state Value object.
type Record struct {
	Name        string
	Description string

	NumberOfStates uint32
	StateText      []string

	PriorityArray [bacnet.MaxPriority]uint8
	// PresentValue is the value of the last accepted command. The effective
	// value is resolved from PriorityArray.
	PresentValue      uint8
	RelinquishDefault uint32
	OutOfService      bool

	// Intrinsic reporting.
	AlarmValues        []uint32
	EventState         bacnet.EventState
	EventEnable        bacnet.EventEnable
	NotifyType         bacnet.NotifyType
	NotificationClass  uint32
	TimeDelay          uint32
	RemainingTimeDelay uint32
	AckedTransitions   [bacnet.TransitionCount]AckedTransition
	EventTimeStamps    [bacnet.TransitionCount]bacnet.DateTime
	AckNotify          PendingAck
}

func newRecord() Record {
	r := Record{
		NumberOfStates:    1,
		StateText:         []string{"STATUS: 0"},
		RelinquishDefault: 1,
		EventState:        bacnet.EventStateNormal,
		EventEnable:       bacnet.EventEnableAll,
		NotifyType:        bacnet.NotifyAlarm,
	}
	for i := range r.PriorityArray {
		r.PriorityArray[i] = StateNull
	}
	for i := range r.AckedTransitions {
		r.AckedTransitions[i].Acked = true
		r.AckedTransitions[i].TimeStamp = bacnet.WildcardDateTime()
		r.EventTimeStamps[i] = bacnet.WildcardDateTime()
	}
	return r
}

// SetStates replaces the state texts and sets the number of states.
// Alarm values that no longer name a state are dropped.
func (r *Record) SetStates(texts []string) error {
	if len(texts) < 1 || len(texts) > MaxStates {
		return fmt.Errorf("number of states %d out of range 1..%d", len(texts), MaxStates)
	}
	r.StateText = slices.Clone(texts)
	r.NumberOfStates = uint32(len(texts))
	r.AlarmValues = slices.DeleteFunc(r.AlarmValues, func(v uint32) bool {
		return v < 1 || v > r.NumberOfStates
	})
	return nil
}

// ValidState reports whether v names a state.
func (r *Record) ValidState(v uint32) bool {
	return v >= 1 && v <= r.NumberOfStates
}

// IsAlarmValue reports whether v is one of the configured alarm values.
func (r *Record) IsAlarmValue(v uint32) bool {
	return slices.Contains(r.AlarmValues, v)
}

// StatusFlags returns the object's status flags. IN_ALARM is only reported
// with intrinsic reporting.
func (r *Record) StatusFlags(intrinsic bool) bacnet.StatusFlags {
	return bacnet.StatusFlags{
		InAlarm:      intrinsic && r.EventState != bacnet.EventStateNormal,
		OutOfService: r.OutOfService,
	}
}

// AckedTransitionBits returns the acknowledged flags in transition order
// (TO_OFFNORMAL, TO_FAULT, TO_NORMAL).
func (r *Record) AckedTransitionBits() []bool {
	bits := make([]bool, bacnet.TransitionCount)
	for i, a := range r.AckedTransitions {
		bits[i] = a.Acked
	}
	return bits
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() Record {
	c := *r
	c.StateText = slices.Clone(r.StateText)
	c.AlarmValues = slices.Clone(r.AlarmValues)
	return c
}
