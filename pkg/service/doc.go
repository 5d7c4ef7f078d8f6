// Package service hosts Multi-state Value objects.
//
// The object packages (model, priority, property, alarm) hold no locks. A
// Host owns the object store and serializes every access to it with one
// mutex. It ties together:
//   - the object store, populated from the configuration file
//   - the device object and its name directory
//   - the property codec for ReadProperty and WriteProperty
//   - the alarm engine and the notification-class router
//   - runtime state persistence across restarts
//   - a tick loop that drives the event state machine
//
// Example usage:
//
//	cfg, _ := config.Load("/etc/msv.yaml")
//	settings, _ := cfg.Device()
//
//	host, err := service.NewHost(service.DeviceConfigFromSettings(settings, cfg))
//	host.Start(ctx)
//	defer host.Stop()
package service
