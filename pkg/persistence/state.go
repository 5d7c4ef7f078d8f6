package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/model"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// DeviceState contains the runtime state of every object of a device.
type DeviceState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// DeviceInstance is the instance of the device that saved the state.
	DeviceInstance uint32 `json:"device_instance"`

	// Objects holds one entry per object, keyed by instance.
	Objects []ObjectState `json:"objects,omitempty"`
}

// ObjectState is the runtime state of one Multi-state Value object.
type ObjectState struct {
	Instance uint32 `json:"instance"`

	// PriorityArray holds the commanded values. NULL slots are 0.
	PriorityArray [bacnet.MaxPriority]uint32 `json:"priority_array"`

	// PresentValue is the last commanded value. 0 if never commanded.
	PresentValue uint32 `json:"present_value,omitempty"`

	OutOfService bool `json:"out_of_service,omitempty"`

	// Settings holds writable properties that override the configuration.
	// Nil keeps the configured values.
	Settings *ObjectSettings `json:"settings,omitempty"`

	EventState         bacnet.EventState `json:"event_state"`
	RemainingTimeDelay uint32            `json:"remaining_time_delay"`

	// Per transition, in transition order.
	AckedTransitions [bacnet.TransitionCount]TransitionSnapshot `json:"acked_transitions"`

	AckPending    bool              `json:"ack_pending,omitempty"`
	AckEventState bacnet.EventState `json:"ack_event_state,omitempty"`
}

// ObjectSettings are the writable properties of an object that are not
// stored in the configuration file.
type ObjectSettings struct {
	RelinquishDefault uint32             `json:"relinquish_default"`
	TimeDelay         uint32             `json:"time_delay"`
	NotificationClass uint32             `json:"notification_class"`
	EventEnable       bacnet.EventEnable `json:"event_enable"`
	NotifyType        bacnet.NotifyType  `json:"notify_type"`
}

// TransitionSnapshot captures one transition's acknowledgment and event
// timestamps.
type TransitionSnapshot struct {
	Acked          bool            `json:"acked"`
	AckedAt        bacnet.DateTime `json:"acked_at"`
	EventTimeStamp bacnet.DateTime `json:"event_time_stamp"`
}

// Snapshot captures the runtime state of every record in store.
func Snapshot(store *model.Store) []ObjectState {
	objects := make([]ObjectState, 0, store.Count())
	for i := 0; i < store.Count(); i++ {
		idx := model.Index(i)
		r := store.Record(idx)
		o := ObjectState{
			Instance:     store.IndexToInstance(idx),
			PresentValue: uint32(r.PresentValue),
			OutOfService: r.OutOfService,
			Settings: &ObjectSettings{
				RelinquishDefault: r.RelinquishDefault,
				TimeDelay:         r.TimeDelay,
				NotificationClass: r.NotificationClass,
				EventEnable:       r.EventEnable,
				NotifyType:        r.NotifyType,
			},
			EventState:         r.EventState,
			RemainingTimeDelay: r.RemainingTimeDelay,
			AckPending:         r.AckNotify.Pending,
			AckEventState:      r.AckNotify.EventState,
		}
		for p, v := range r.PriorityArray {
			if v != model.StateNull {
				o.PriorityArray[p] = uint32(v)
			}
		}
		for t := range o.AckedTransitions {
			o.AckedTransitions[t] = TransitionSnapshot{
				Acked:          r.AckedTransitions[t].Acked,
				AckedAt:        r.AckedTransitions[t].TimeStamp,
				EventTimeStamp: r.EventTimeStamps[t],
			}
		}
		objects = append(objects, o)
	}
	return objects
}

// Restore applies saved object state to store. Objects the store does not
// hold are skipped, as are commanded values that no longer name a state.
// Settings are applied before the remaining time delay is clamped to the
// time delay.
// It returns the number of objects restored.
func Restore(store *model.Store, objects []ObjectState) (int, error) {
	restored := 0
	for _, o := range objects {
		r, ok := store.Lookup(o.Instance)
		if !ok {
			continue
		}
		if o.EventState > bacnet.EventStateLifeSafetyAlarm {
			return restored, fmt.Errorf("object %d: invalid event state %d", o.Instance, o.EventState)
		}
		if s := o.Settings; s != nil {
			if s.EventEnable > bacnet.EventEnableAll || s.NotifyType > bacnet.NotifyEvent {
				return restored, fmt.Errorf("object %d: invalid settings", o.Instance)
			}
			r.RelinquishDefault = s.RelinquishDefault
			r.TimeDelay = s.TimeDelay
			r.NotificationClass = s.NotificationClass
			r.EventEnable = s.EventEnable
			r.NotifyType = s.NotifyType
		}
		if r.ValidState(o.PresentValue) {
			r.PresentValue = uint8(o.PresentValue)
		}

		for p, v := range o.PriorityArray {
			if v != 0 && r.ValidState(v) {
				r.PriorityArray[p] = uint8(v)
			} else {
				r.PriorityArray[p] = model.StateNull
			}
		}
		r.OutOfService = o.OutOfService
		r.EventState = o.EventState
		r.RemainingTimeDelay = min(o.RemainingTimeDelay, r.TimeDelay)
		for t, s := range o.AckedTransitions {
			r.AckedTransitions[t] = model.AckedTransition{Acked: s.Acked, TimeStamp: s.AckedAt}
			r.EventTimeStamps[t] = s.EventTimeStamp
		}
		r.AckNotify = model.PendingAck{Pending: o.AckPending, EventState: o.AckEventState}
		restored++
	}
	return restored, nil
}

// DeviceStateStore manages persistence of device state to a JSON file.
type DeviceStateStore struct {
	mu   sync.Mutex
	path string
}

// NewDeviceStateStore creates a new device state store.
func NewDeviceStateStore(path string) *DeviceStateStore {
	return &DeviceStateStore{path: path}
}

// Path returns the state file path.
func (s *DeviceStateStore) Path() string {
	return s.path
}

// Save persists the device state to disk.
func (s *DeviceStateStore) Save(state *DeviceState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	if state.SavedAt.IsZero() {
		state.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the device state from disk.
// Returns nil, nil if the file doesn't exist (empty state).
func (s *DeviceStateStore) Load() (*DeviceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &DeviceState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	if state.Version > StateVersion {
		return nil, fmt.Errorf("state file version %d is newer than supported version %d", state.Version, StateVersion)
	}

	return state, nil
}

// Clear removes the state file.
func (s *DeviceStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
