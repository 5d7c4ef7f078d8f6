package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/encoding"
)

// ErrUnsupportedValue is returned when a typed value cannot be encoded for
// a property.
var ErrUnsupportedValue = errors.New("unsupported value")

// EncodeValue encodes an operator-typed value for a write to property p.
//
// "null" encodes NULL (relinquishes a command). Text properties take the
// rest of the line, optionally quoted. Bit string properties take a list of
// 0/1 or true/false separated by commas. Notify-type accepts "alarm" and
// "event".
func EncodeValue(p bacnet.PropertyID, input string) ([]byte, error) {
	input = strings.TrimSpace(input)
	if strings.EqualFold(input, "null") {
		return encoding.AppendNull(nil), nil
	}

	switch p {
	case bacnet.PropObjectName, bacnet.PropDescription:
		text, err := strconv.Unquote(input)
		if err != nil {
			text = strings.Trim(input, "'")
		}
		return encoding.AppendCharacterString(nil, encoding.UTF8String(text)), nil

	case bacnet.PropOutOfService:
		b, err := strconv.ParseBool(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrUnsupportedValue, input)
		}
		return encoding.AppendBoolean(nil, b), nil

	case bacnet.PropEventEnable, bacnet.PropAckedTransitions, bacnet.PropStatusFlags:
		bits, err := parseBits(input)
		if err != nil {
			return nil, err
		}
		return encoding.AppendBitString(nil, encoding.NewBitString(bits...)), nil

	case bacnet.PropNotifyType:
		switch strings.ToLower(input) {
		case "alarm":
			return encoding.AppendEnumerated(nil, uint32(bacnet.NotifyAlarm)), nil
		case "event":
			return encoding.AppendEnumerated(nil, uint32(bacnet.NotifyEvent)), nil
		}
		v, err := parseUint32(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a notify type", ErrUnsupportedValue, input)
		}
		return encoding.AppendEnumerated(nil, v), nil

	case bacnet.PropEventState:
		st, err := bacnet.ParseEventState(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an event state", ErrUnsupportedValue, input)
		}
		return encoding.AppendEnumerated(nil, uint32(st)), nil

	case bacnet.PropObjectType:
		v, err := parseUint32(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an enumeration", ErrUnsupportedValue, input)
		}
		return encoding.AppendEnumerated(nil, v), nil
	}

	v, err := parseUint32(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an unsigned integer", ErrUnsupportedValue, input)
	}
	return encoding.AppendUnsigned(nil, v), nil
}

func parseBits(input string) ([]bool, error) {
	input = strings.Trim(input, "{}[]")
	var bits []bool
	for _, field := range strings.Split(input, ",") {
		field = strings.TrimSpace(field)
		switch strings.ToLower(field) {
		case "1", "t", "true":
			bits = append(bits, true)
		case "0", "f", "false":
			bits = append(bits, false)
		default:
			return nil, fmt.Errorf("%w: bit %q", ErrUnsupportedValue, field)
		}
	}
	return bits, nil
}
