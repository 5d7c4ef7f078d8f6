// Package device is the device object that hosts Multi-state Value stores.
//
// A Device answers the two questions the object layer asks of its host:
// whether an object name is already taken anywhere in the device, and what
// time it is.
package device

import (
	"errors"
	"sync"
	"time"

	"github.com/bacstack/msv-go/pkg/bacnet"
)

// Device errors.
var (
	ErrDuplicateObjectType = errors.New("object type already registered")
	ErrInvalidInstance     = errors.New("invalid device instance")
)

// Objects is a collection of objects of one type whose names must be unique
// device-wide. *model.Store implements it.
type Objects interface {
	// LookupName returns the instance whose object name is name.
	LookupName(name string) (uint32, bool)

	// ObjectID returns the object identifier of instance.
	ObjectID(instance uint32) bacnet.ObjectID
}

// Device is the device object of an MSV device.
type Device struct {
	mu sync.RWMutex

	instance uint32
	name     string
	now      func() time.Time

	objects map[bacnet.ObjectType]Objects
}

// Option configures a Device.
type Option func(*Device)

// WithClock sets the device's time source.
func WithClock(now func() time.Time) Option {
	return func(d *Device) { d.now = now }
}

// New creates a device with the given instance and object name.
func New(instance uint32, name string, opts ...Option) (*Device, error) {
	if instance > bacnet.MaxInstance {
		return nil, ErrInvalidInstance
	}
	d := &Device{
		instance: instance,
		name:     name,
		now:      time.Now,
		objects:  make(map[bacnet.ObjectType]Objects),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// ObjectID returns the device's object identifier.
func (d *Device) ObjectID() bacnet.ObjectID {
	return bacnet.ObjectID{Type: bacnet.ObjectDevice, Instance: d.instance}
}

// Name returns the device object name.
func (d *Device) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.name
}

// SetName sets the device object name.
func (d *Device) SetName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.name = name
}

// Register adds the objects of type t to the name directory.
func (d *Device) Register(t bacnet.ObjectType, objects Objects) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.objects[t]; exists {
		return ErrDuplicateObjectType
	}
	d.objects[t] = objects
	return nil
}

// ObjectNameInUse returns the object that has name, if any. The device
// object itself takes part.
func (d *Device) ObjectNameInUse(name string) (bacnet.ObjectID, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if name == d.name {
		return d.ObjectID(), true
	}
	for _, objects := range d.objects {
		if instance, ok := objects.LookupName(name); ok {
			return objects.ObjectID(instance), true
		}
	}
	return bacnet.ObjectID{}, false
}

// Now returns the current local time.
func (d *Device) Now() time.Time {
	return d.now()
}

// DateTime returns the current time as a BACnet datetime.
func (d *Device) DateTime() bacnet.DateTime {
	return bacnet.DateTimeFromTime(d.now())
}
