package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/encoding"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowIDs includes numeric property IDs alongside names
	ShowIDs bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowIDs:     false,
		IndentWidth: 2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// PropertyName returns the display name of p.
func (f *Formatter) PropertyName(p bacnet.PropertyID) string {
	if f.ShowIDs {
		return fmt.Sprintf("%s (%d)", p, uint32(p))
	}
	return p.String()
}

// FormatEncoded decodes the encoded value of property p and formats it for
// display. Several elements are shown as a bracketed list.
func (f *Formatter) FormatEncoded(p bacnet.PropertyID, data []byte) (string, error) {
	var elems []string
	for len(data) > 0 {
		s, n, err := f.formatElement(p, data)
		if err != nil {
			return "", err
		}
		elems = append(elems, s)
		data = data[n:]
	}

	switch len(elems) {
	case 0:
		return "[]", nil
	case 1:
		return elems[0], nil
	default:
		return "[" + strings.Join(elems, ", ") + "]", nil
	}
}

func (f *Formatter) formatElement(p bacnet.PropertyID, data []byte) (string, int, error) {
	if p == bacnet.PropEventTimeStamps {
		ts, n, err := encoding.DecodeTimeStamp(data)
		if err == nil {
			return formatTimeStamp(ts), n, nil
		}
		// Index 0 reads the count as a plain unsigned.
	}

	v, n, err := encoding.DecodeApplication(data)
	if err != nil {
		return "", 0, err
	}
	return f.FormatValue(p, v), n, nil
}

// FormatValue formats one decoded value of property p. Enumerations of
// known properties are shown by name.
func (f *Formatter) FormatValue(p bacnet.PropertyID, v encoding.Value) string {
	switch v.Tag {
	case encoding.TagNull:
		return "null"
	case encoding.TagBoolean:
		return strconv.FormatBool(v.Boolean)
	case encoding.TagUnsignedInt:
		return strconv.FormatUint(uint64(v.Unsigned), 10)
	case encoding.TagSignedInt:
		return strconv.FormatInt(int64(v.Signed), 10)
	case encoding.TagReal:
		return strconv.FormatFloat(float64(v.Real), 'f', 2, 32)
	case encoding.TagDouble:
		return strconv.FormatFloat(v.Double, 'f', 2, 64)
	case encoding.TagOctetString:
		return fmt.Sprintf("0x%x", v.OctetString)
	case encoding.TagCharacterString:
		return strconv.Quote(v.CharacterString.Value)
	case encoding.TagBitString:
		return formatBits(p, v.BitString)
	case encoding.TagEnumerated:
		return formatEnumerated(p, v.Enumerated)
	case encoding.TagObjectID:
		return v.ObjectID.String()
	case encoding.TagDate:
		return fmt.Sprintf("%04d-%02d-%02d", v.Date.Year, v.Date.Month, v.Date.Day)
	case encoding.TagTime:
		return fmt.Sprintf("%02d:%02d:%02d.%02d", v.Time.Hour, v.Time.Minute, v.Time.Second, v.Time.Hundredths)
	default:
		return fmt.Sprintf("<%s>", v.Tag)
	}
}

func formatEnumerated(p bacnet.PropertyID, v uint32) string {
	switch p {
	case bacnet.PropEventState:
		return bacnet.EventState(v).String()
	case bacnet.PropNotifyType:
		return bacnet.NotifyType(v).String()
	case bacnet.PropObjectType:
		return bacnet.ObjectType(v).String()
	default:
		return strconv.FormatUint(uint64(v), 10)
	}
}

func formatBits(p bacnet.PropertyID, b encoding.BitString) string {
	if p == bacnet.PropStatusFlags && b.Len() == 4 {
		return bacnet.StatusFlags{
			InAlarm:      b.Bit(0),
			Fault:        b.Bit(1),
			Overridden:   b.Bit(2),
			OutOfService: b.Bit(3),
		}.String()
	}
	var sb strings.Builder
	sb.WriteString("{")
	for i, set := range b.Bits() {
		if i > 0 {
			sb.WriteString(",")
		}
		if set {
			sb.WriteString("T")
		} else {
			sb.WriteString("F")
		}
	}
	sb.WriteString("}")
	return sb.String()
}

func formatTimeStamp(ts bacnet.TimeStamp) string {
	switch ts.Tag {
	case bacnet.TimeStampDateTime:
		return ts.DateTime.String()
	case bacnet.TimeStampSequence:
		return "#" + strconv.FormatUint(uint64(ts.SequenceNumber), 10)
	default:
		return fmt.Sprintf("%02d:%02d:%02d.%02d", ts.Time.Hour, ts.Time.Minute, ts.Time.Second, ts.Time.Hundredths)
	}
}

// FormatError formats a property error for display.
func (f *Formatter) FormatError(err error) string {
	return "error: " + err.Error()
}
