package model

import (
	"slices"

	"github.com/bacstack/msv-go/pkg/bacnet"
)

// Index addresses a record in a Store. Obtain one from InstanceToIndex.
type Index int

// Option configures a Store.
type Option func(*Store)

// WithIntrinsicReporting enables the alarm/event properties and the event
// state machine for every record.
func WithIntrinsicReporting() Option {
	return func(s *Store) {
		s.intrinsic = true
	}
}

// Store is a fixed-capacity collection of Multi-state Value records.
type Store struct {
	records   []Record
	intrinsic bool
}

// NewStore allocates capacity records with their default values.
func NewStore(capacity int, opts ...Option) *Store {
	if capacity < 0 {
		capacity = 0
	}
	if capacity > int(bacnet.MaxInstance)+1 {
		capacity = int(bacnet.MaxInstance) + 1
	}
	s := &Store{records: make([]Record, capacity)}
	for i := range s.records {
		s.records[i] = newRecord()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Count returns the number of records.
func (s *Store) Count() int {
	return len(s.records)
}

// Valid reports whether instance names a record.
func (s *Store) Valid(instance uint32) bool {
	return uint64(instance) < uint64(len(s.records))
}

// InstanceToIndex maps an instance number to its index.
func (s *Store) InstanceToIndex(instance uint32) (Index, bool) {
	if !s.Valid(instance) {
		return 0, false
	}
	return Index(instance), true
}

// IndexToInstance maps an index to its instance number.
func (s *Store) IndexToInstance(i Index) uint32 {
	return uint32(i)
}

// Record returns the record at index i, or nil if i is out of range.
func (s *Store) Record(i Index) *Record {
	if i < 0 || int(i) >= len(s.records) {
		return nil
	}
	return &s.records[i]
}

// Lookup returns the record for instance.
func (s *Store) Lookup(instance uint32) (*Record, bool) {
	i, ok := s.InstanceToIndex(instance)
	if !ok {
		return nil, false
	}
	return &s.records[i], true
}

// LookupName returns the instance whose object name is name.
func (s *Store) LookupName(name string) (uint32, bool) {
	for i := range s.records {
		if s.records[i].Name == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// ObjectID returns the object identifier of instance.
func (s *Store) ObjectID(instance uint32) bacnet.ObjectID {
	return bacnet.ObjectID{Type: bacnet.ObjectMultiStateValue, Instance: instance}
}

// IntrinsicReporting reports whether the alarm/event properties are enabled.
func (s *Store) IntrinsicReporting() bool {
	return s.intrinsic
}

// PropertyLists returns the properties this store's objects support.
func (s *Store) PropertyLists() PropertyLists {
	optional := slices.Clone(optionalProperties)
	if s.intrinsic {
		optional = append(optional, alarmProperties...)
	}
	return PropertyLists{
		Required: slices.Clone(requiredProperties),
		Optional: optional,
	}
}

// Access returns the access flags of property p. The second result is false
// if the objects in this store do not have the property.
func (s *Store) Access(p bacnet.PropertyID) (Access, bool) {
	a, ok := propertyAccess[p]
	if !ok || (a.AlarmOnly() && !s.intrinsic) {
		return 0, false
	}
	return a, true
}
