// Package inspect provides object inspection and property manipulation
// utilities.
//
// The inspect package offers a unified interface for:
//   - Parsing path expressions (e.g., "0/present-value", "0/state-text/2")
//   - Reading properties and formatting the encoded values for display
//   - Encoding typed values typed in by an operator for writes
package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bacstack/msv-go/pkg/bacnet"
)

// Path errors.
var (
	ErrEmptyPath     = errors.New("empty path")
	ErrInvalidPath   = errors.New("invalid path format")
	ErrInvalidNumber = errors.New("invalid numeric value in path")
)

// Path represents a parsed inspection path.
// Format: instance[/property[/index]]
type Path struct {
	// Instance is the object instance.
	Instance uint32

	// Property is the property identifier.
	Property bacnet.PropertyID

	// ArrayIndex is bacnet.ArrayAll unless an index was given.
	ArrayIndex uint32

	// IsPartial indicates the path names only an object (used for inspect
	// operations that show all properties).
	IsPartial bool

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string into a Path struct.
//
// Supported formats:
//   - "instance/property/index" - one array element (index 0 is the count)
//   - "instance/property" - whole property
//   - "instance" - partial (for listing properties)
//
// Numeric values can be decimal or hex (0x prefix). Properties can also be
// given by name.
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	if strings.HasPrefix(input, "/") || strings.HasSuffix(input, "/") || strings.Contains(input, "//") {
		return nil, ErrInvalidPath
	}

	parts := strings.Split(input, "/")
	if len(parts) > 3 {
		return nil, ErrInvalidPath
	}

	p := &Path{Raw: input, ArrayIndex: bacnet.ArrayAll}

	instance, err := parseUint32(parts[0])
	if err != nil || instance > bacnet.MaxInstance {
		return nil, fmt.Errorf("instance: %w: %s", ErrInvalidNumber, parts[0])
	}
	p.Instance = instance

	if len(parts) == 1 {
		p.IsPartial = true
		return p, nil
	}

	prop, err := parsePropertyID(parts[1])
	if err != nil {
		return nil, fmt.Errorf("property: %w", err)
	}
	p.Property = prop

	if len(parts) == 3 {
		index, err := parseUint32(parts[2])
		if err != nil || index == bacnet.ArrayAll {
			return nil, fmt.Errorf("index: %w: %s", ErrInvalidNumber, parts[2])
		}
		p.ArrayIndex = index
	}

	return p, nil
}

// String returns the path as a string.
func (p *Path) String() string {
	var sb strings.Builder

	sb.WriteString(strconv.FormatUint(uint64(p.Instance), 10))
	if p.IsPartial {
		return sb.String()
	}

	sb.WriteString("/")
	sb.WriteString(p.Property.String())

	if p.ArrayIndex != bacnet.ArrayAll {
		sb.WriteString("/")
		sb.WriteString(strconv.FormatUint(uint64(p.ArrayIndex), 10))
	}

	return sb.String()
}

// parsePropertyID resolves a property by number or name.
func parsePropertyID(s string) (bacnet.PropertyID, error) {
	if id, err := parseUint32(s); err == nil {
		return bacnet.PropertyID(id), nil
	}
	id, err := bacnet.ParsePropertyID(strings.ToLower(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, s)
	}
	return id, nil
}

// parseUint32 parses a uint32 from decimal or hex string.
func parseUint32(s string) (uint32, error) {
	var v uint64
	var err error

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 32)
	} else {
		v, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
