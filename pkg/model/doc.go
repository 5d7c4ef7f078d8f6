// Package model implements the Multi-state Value object store.
//
// A Store owns a fixed number of object records, allocated once at
// construction and mutated in place for the life of the process. Instance
// numbers map one to one onto store indexes:
//
//	instance 0 .. Count()-1  <->  Index 0 .. Count()-1
//
// Instances outside that range are invalid.
//
// # Records
//
// Each Record holds the object's properties: name, description, the state
// texts, the 16-slot priority array with its relinquish default, and, when
// the store is built with intrinsic reporting, the alarm/event fields
// (alarm values, event state, event enable, time delay, acknowledgment
// tracking).
//
// The store does no locking. Hosts that serve requests and drive the event
// state machine from different goroutines must serialize access.
package model
