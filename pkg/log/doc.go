// Package log provides a structured event log for Multi-state Value objects.
//
// This package defines the Logger interface and Event types for capturing
// what happens to objects: notifications handed to the router, event state
// transitions, property writes, acknowledgments and errors.
// It is separate from operational logging (slog) - the event log is a
// machine-readable trace for auditing and analysis.
//
// # Basic Usage
//
// Hosts configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/msv/events.mlog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with integer keys. Reader
// iterates a file, optionally through a Filter.
package log
