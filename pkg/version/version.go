// Package version provides build metadata and the BACnet protocol revision
// implemented by this library.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Protocol is the BACnet protocol version and revision implemented by this
// library.
const Protocol = "1.14"

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit, build time and
// protocol revision.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s, bacnet: %s", Version, Commit, BuildTime, Protocol)
}

// ProtocolRevision is a parsed "version.revision" BACnet protocol level.
type ProtocolRevision struct {
	Version  uint8
	Revision uint8
}

// Current returns the protocol level implemented by this library.
func Current() ProtocolRevision {
	p, _ := Parse(Protocol)
	return p
}

// Parse parses a "version.revision" string.
func Parse(s string) (ProtocolRevision, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return ProtocolRevision{}, fmt.Errorf("invalid protocol %q: expected version.revision", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil {
		return ProtocolRevision{}, fmt.Errorf("invalid protocol %q: bad version component", s)
	}

	rev, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return ProtocolRevision{}, fmt.Errorf("invalid protocol %q: bad revision component", s)
	}

	return ProtocolRevision{Version: uint8(major), Revision: uint8(rev)}, nil
}

// String returns the level as "version.revision".
func (p ProtocolRevision) String() string {
	return fmt.Sprintf("%d.%d", p.Version, p.Revision)
}

// Supports reports whether a peer at level other can use the services of p:
// same protocol version and a revision no newer than p.
func (p ProtocolRevision) Supports(other ProtocolRevision) bool {
	return p.Version == other.Version && other.Revision <= p.Revision
}
