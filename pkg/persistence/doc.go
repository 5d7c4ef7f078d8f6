// Package persistence provides runtime state persistence for MSV devices.
//
// Configuration (names, state texts, alarm values) is rebuilt from the
// configuration file on every start. This package handles the JSON
// serialization of the state that commands and the event state machine
// build up at runtime (priority arrays, out-of-service, event states,
// acknowledgment flags and timestamps) so it survives device restarts.
package persistence
