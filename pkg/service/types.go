package service

import (
	"errors"
	"log/slog"
	"time"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/config"
	"github.com/bacstack/msv-go/pkg/log"
	"github.com/bacstack/msv-go/pkg/metrics"
)

// Service errors.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrAlreadyStarted = errors.New("service already started")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// ServiceState represents the service state.
type ServiceState uint8

const (
	// StateIdle - host created but not started.
	StateIdle ServiceState = iota

	// StateRunning - tick loop is running.
	StateRunning

	// StateStopped - host has stopped.
	StateStopped
)

// String returns the state name.
func (s ServiceState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// DeviceConfig configures a Host.
type DeviceConfig struct {
	// Instance is the device object instance.
	Instance uint32

	// Name is the device object name.
	Name string

	// Capacity is the number of Multi-state Value objects.
	Capacity int

	// IntrinsicReporting enables the event state machine.
	IntrinsicReporting bool

	// TickInterval is the period of the event state machine tick.
	TickInterval time.Duration

	// StateFile is where runtime state is saved on Stop and restored from
	// on creation. Empty disables it.
	StateFile string

	// Options supplies object configuration and receives written names and
	// descriptions. Nil leaves every object at its defaults.
	Options *config.Store

	// Logger is the operational logger. Nil discards.
	Logger *slog.Logger

	// EventLogger receives object events. Nil discards.
	EventLogger log.Logger

	// Metrics collects host metrics. Nil disables them.
	Metrics *metrics.Metrics

	// Clock is the time source. Nil uses time.Now.
	Clock func() time.Time
}

// DefaultDeviceConfig returns the default host configuration.
func DefaultDeviceConfig() DeviceConfig {
	return DeviceConfig{
		Instance:     config.DefaultDeviceInstance,
		Name:         config.DefaultDeviceName,
		Capacity:     config.DefaultCapacity,
		TickInterval: config.DefaultTickInterval,
	}
}

// DeviceConfigFromSettings builds a host configuration from the device
// section of the configuration file.
func DeviceConfigFromSettings(s config.DeviceSettings, options *config.Store) DeviceConfig {
	return DeviceConfig{
		Instance:           s.Instance,
		Name:               s.Name,
		Capacity:           s.Capacity,
		IntrinsicReporting: s.IntrinsicReporting,
		TickInterval:       s.TickInterval,
		StateFile:          s.StateFile,
		Options:            options,
	}
}

// Validate checks if the device config is valid.
func (c *DeviceConfig) Validate() error {
	if c.Instance > bacnet.MaxInstance {
		return ErrInvalidConfig
	}
	if c.Capacity < 0 || c.Capacity > bacnet.MaxInstance+1 {
		return ErrInvalidConfig
	}
	if c.Name == "" {
		return ErrInvalidConfig
	}
	if c.TickInterval <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ObjectInfo is a summary of one object for listings.
type ObjectInfo struct {
	Object       bacnet.ObjectID
	Name         string
	PresentValue uint32
	StateText    string
	OutOfService bool
	EventState   bacnet.EventState
}
