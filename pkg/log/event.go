package log

import (
	"time"

	"github.com/bacstack/msv-go/pkg/bacnet"
)

// Event represents an object event captured by the host.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// EventID uniquely identifies the event (UUID).
	EventID string `cbor:"2,keyasint,omitempty"`

	// Source is the component that captured the event.
	Source Source `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Object identifies the object the event is about.
	Object bacnet.ObjectID `cbor:"5,keyasint"`

	// DeviceInstance is the hosting device's instance number.
	DeviceInstance uint32 `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Notification *NotificationEvent `cbor:"10,keyasint,omitempty"`
	StateChange  *StateChangeEvent  `cbor:"11,keyasint,omitempty"`
	Write        *WriteEvent        `cbor:"12,keyasint,omitempty"`
	Ack          *AckEvent          `cbor:"13,keyasint,omitempty"`
	Error        *ErrorEventData    `cbor:"14,keyasint,omitempty"`
}

// Source indicates which component captured the event.
type Source uint8

const (
	// SourceCodec is the property read/write codec.
	SourceCodec Source = 0
	// SourceEngine is the alarm/event state machine.
	SourceEngine Source = 1
	// SourceRouter is the notification router.
	SourceRouter Source = 2
	// SourceHost is the hosting service.
	SourceHost Source = 3
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceCodec:
		return "CODEC"
	case SourceEngine:
		return "ENGINE"
	case SourceRouter:
		return "ROUTER"
	case SourceHost:
		return "HOST"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryNotification indicates an event notification.
	CategoryNotification Category = 0
	// CategoryState indicates an event state change.
	CategoryState Category = 1
	// CategoryWrite indicates a property write.
	CategoryWrite Category = 2
	// CategoryAck indicates an alarm acknowledgment.
	CategoryAck Category = 3
	// CategoryError indicates an error event.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryNotification:
		return "NOTIFICATION"
	case CategoryState:
		return "STATE"
	case CategoryWrite:
		return "WRITE"
	case CategoryAck:
		return "ACK"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// NotificationEvent captures an event notification handed to the router.
type NotificationEvent struct {
	NotificationClass uint32            `cbor:"1,keyasint"`
	Priority          uint8             `cbor:"2,keyasint"`
	NotifyType        bacnet.NotifyType `cbor:"3,keyasint"`
	EventType         bacnet.EventType  `cbor:"4,keyasint"`
	FromState         bacnet.EventState `cbor:"5,keyasint"`
	ToState           bacnet.EventState `cbor:"6,keyasint"`
	Message           string            `cbor:"7,keyasint,omitempty"`
	AckRequired       bool              `cbor:"8,keyasint,omitempty"`

	// ExceedingValue is the present value that caused the transition.
	ExceedingValue uint32 `cbor:"9,keyasint,omitempty"`

	// StatusFlags in IN_ALARM, FAULT, OVERRIDDEN, OUT_OF_SERVICE order.
	StatusFlags []bool `cbor:"10,keyasint,omitempty"`
}

// StateChangeEvent captures an event state transition.
type StateChangeEvent struct {
	// OldState is the previous event state.
	OldState bacnet.EventState `cbor:"1,keyasint"`

	// NewState is the new event state.
	NewState bacnet.EventState `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// WriteEvent captures a property write.
type WriteEvent struct {
	Property bacnet.PropertyID `cbor:"1,keyasint"`

	// Priority is the command priority (0 if not given).
	Priority uint8 `cbor:"2,keyasint,omitempty"`

	// ArrayIndex is set when the write addressed an array element.
	ArrayIndex *uint32 `cbor:"3,keyasint,omitempty"`

	// Data is the application-tagged value as received.
	Data []byte `cbor:"4,keyasint,omitempty"`

	// Status is "ok" or the error code name.
	Status string `cbor:"5,keyasint"`
}

// AckEvent captures an acknowledgment request.
type AckEvent struct {
	EventState bacnet.EventState `cbor:"1,keyasint"`
	AckSource  string            `cbor:"2,keyasint,omitempty"`

	// Status is "ok" or the error code name.
	Status string `cbor:"3,keyasint"`
}

// ErrorEventData captures errors in any component.
type ErrorEventData struct {
	// Source where the error occurred.
	Source Source `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the error code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
