package config

import (
	"fmt"
	"time"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/model"
)

// Section names with a fixed meaning.
const (
	SectionDevice  = "device"
	SectionDefault = "default"
)

// Device settings defaults.
const (
	DefaultDeviceInstance = 260001
	DefaultDeviceName     = "msv-device"
	DefaultCapacity       = 8
	DefaultTickInterval   = time.Second
)

// DeviceSettings are the host settings from the device section.
type DeviceSettings struct {
	// Instance is the device object instance.
	Instance uint32 `yaml:"instance"`
	// Name is the device object name.
	Name string `yaml:"name"`
	// Capacity is the number of Multi-state Value objects.
	Capacity int `yaml:"capacity"`
	// IntrinsicReporting enables the alarm properties and the event state
	// machine.
	IntrinsicReporting bool `yaml:"intrinsic_reporting"`
	// TickInterval is the period of the event state machine tick.
	TickInterval time.Duration `yaml:"tick_interval"`
	// EventLog is the path of the CBOR event log. Empty disables it.
	EventLog string `yaml:"event_log"`
	// MetricsAddr is the listen address of the metrics endpoint. Empty
	// disables it.
	MetricsAddr string `yaml:"metrics_addr"`
	// StateFile is the path of the runtime state snapshot. Empty disables it.
	StateFile string `yaml:"state_file"`
}

// Device returns the device settings with defaults applied.
func (s *Store) Device() (DeviceSettings, error) {
	settings := DeviceSettings{
		Instance:     DefaultDeviceInstance,
		Name:         DefaultDeviceName,
		Capacity:     DefaultCapacity,
		TickInterval: DefaultTickInterval,
	}
	if err := s.decodeSection(SectionDevice, &settings); err != nil {
		return DeviceSettings{}, err
	}
	if err := settings.Validate(); err != nil {
		return DeviceSettings{}, err
	}
	return settings, nil
}

// Validate checks the settings and fills zero values with defaults.
func (d *DeviceSettings) Validate() error {
	if d.Instance > bacnet.MaxInstance {
		return fmt.Errorf("device instance %d exceeds %d", d.Instance, bacnet.MaxInstance)
	}
	if d.Capacity < 0 || d.Capacity > bacnet.MaxInstance+1 {
		return fmt.Errorf("capacity %d out of range", d.Capacity)
	}
	if d.Name == "" {
		d.Name = DefaultDeviceName
	}
	if len(d.Name) > model.MaxNameLength {
		return fmt.Errorf("device name longer than %d bytes", model.MaxNameLength)
	}
	if d.TickInterval <= 0 {
		d.TickInterval = DefaultTickInterval
	}
	return nil
}
