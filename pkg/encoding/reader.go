package encoding

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/bacstack/msv-go/pkg/bacnet"
)

// DecodeApplication decodes the application-tagged value at the start of
// data. It returns the value and the number of bytes consumed.
func DecodeApplication(data []byte) (Value, int, error) {
	h, n, err := decodeHeader(data)
	if err != nil {
		return Value{}, 0, err
	}
	if h.context || h.opening || h.closing {
		return Value{}, 0, ErrNotApplicationTag
	}

	v := Value{Tag: ApplicationTag(h.number)}

	// Boolean carries its value in the header.
	if v.Tag == TagBoolean {
		if h.lvt > 1 {
			return Value{}, 0, fmt.Errorf("%w: boolean %d", ErrInvalidLength, h.lvt)
		}
		v.Boolean = h.lvt == 1
		return v, n, nil
	}

	if uint64(len(data)-n) < uint64(h.lvt) {
		return Value{}, 0, ErrTruncated
	}
	content := data[n : n+int(h.lvt)]
	n += int(h.lvt)

	switch v.Tag {
	case TagNull:
		if len(content) != 0 {
			return Value{}, 0, fmt.Errorf("%w: null with %d octets", ErrInvalidLength, len(content))
		}
	case TagUnsignedInt:
		v.Unsigned, err = decodeUnsigned(content)
	case TagEnumerated:
		v.Enumerated, err = decodeUnsigned(content)
	case TagSignedInt:
		v.Signed, err = decodeSigned(content)
	case TagReal:
		if len(content) != 4 {
			return Value{}, 0, fmt.Errorf("%w: real with %d octets", ErrInvalidLength, len(content))
		}
		v.Real = math.Float32frombits(binary.BigEndian.Uint32(content))
	case TagDouble:
		if len(content) != 8 {
			return Value{}, 0, fmt.Errorf("%w: double with %d octets", ErrInvalidLength, len(content))
		}
		v.Double = math.Float64frombits(binary.BigEndian.Uint64(content))
	case TagOctetString:
		v.OctetString = append([]byte(nil), content...)
	case TagCharacterString:
		if len(content) == 0 {
			return Value{}, 0, fmt.Errorf("%w: character string without charset", ErrInvalidLength)
		}
		v.CharacterString = CharacterString{Set: CharacterSet(content[0]), Value: string(content[1:])}
	case TagBitString:
		v.BitString, err = decodeBitString(content)
	case TagDate:
		if len(content) != 4 {
			return Value{}, 0, fmt.Errorf("%w: date with %d octets", ErrInvalidLength, len(content))
		}
		v.Date = bacnet.Date{Year: 1900 + uint16(content[0]), Month: content[1], Day: content[2], Weekday: content[3]}
	case TagTime:
		if len(content) != 4 {
			return Value{}, 0, fmt.Errorf("%w: time with %d octets", ErrInvalidLength, len(content))
		}
		v.Time = bacnet.Time{Hour: content[0], Minute: content[1], Second: content[2], Hundredths: content[3]}
	case TagObjectID:
		if len(content) != 4 {
			return Value{}, 0, fmt.Errorf("%w: object id with %d octets", ErrInvalidLength, len(content))
		}
		v.ObjectID = bacnet.ObjectIDFromUint32(binary.BigEndian.Uint32(content))
	default:
		return Value{}, 0, fmt.Errorf("%w: %d", ErrUnsupportedTag, h.number)
	}
	if err != nil {
		return Value{}, 0, err
	}
	return v, n, nil
}

// DecodeDateTimeStamp decodes a datetime-choice BACnetTimeStamp: an opening
// context tag 2, a date, a time, and the closing context tag 2.
func DecodeDateTimeStamp(data []byte) (bacnet.DateTime, int, error) {
	var dt bacnet.DateTime

	h, n, err := decodeHeader(data)
	if err != nil {
		return dt, 0, err
	}
	if !h.opening || h.number != uint8(bacnet.TimeStampDateTime) {
		return dt, 0, ErrUnexpectedTag
	}

	date, m, err := DecodeApplication(data[n:])
	if err != nil {
		return dt, 0, err
	}
	if date.Tag != TagDate {
		return dt, 0, fmt.Errorf("%w: got %s, want date", ErrUnexpectedTag, date.Tag)
	}
	n += m

	tod, m, err := DecodeApplication(data[n:])
	if err != nil {
		return dt, 0, err
	}
	if tod.Tag != TagTime {
		return dt, 0, fmt.Errorf("%w: got %s, want time", ErrUnexpectedTag, tod.Tag)
	}
	n += m

	h, m, err = decodeHeader(data[n:])
	if err != nil {
		return dt, 0, err
	}
	if !h.closing || h.number != uint8(bacnet.TimeStampDateTime) {
		return dt, 0, ErrInvalidContextTags
	}
	n += m

	dt.Date = date.Date
	dt.Time = tod.Time
	return dt, n, nil
}

// DecodeTimeStamp decodes any BACnetTimeStamp choice.
func DecodeTimeStamp(data []byte) (bacnet.TimeStamp, int, error) {
	h, n, err := decodeHeader(data)
	if err != nil {
		return bacnet.TimeStamp{}, 0, err
	}
	if !h.context {
		return bacnet.TimeStamp{}, 0, ErrUnexpectedTag
	}

	switch bacnet.TimeStampTag(h.number) {
	case bacnet.TimeStampTime:
		if h.opening || h.closing || h.lvt != 4 {
			return bacnet.TimeStamp{}, 0, ErrInvalidLength
		}
		if len(data) < n+4 {
			return bacnet.TimeStamp{}, 0, ErrTruncated
		}
		c := data[n : n+4]
		return bacnet.TimeStamp{
			Tag:  bacnet.TimeStampTime,
			Time: bacnet.Time{Hour: c[0], Minute: c[1], Second: c[2], Hundredths: c[3]},
		}, n + 4, nil
	case bacnet.TimeStampSequence:
		if h.opening || h.closing {
			return bacnet.TimeStamp{}, 0, ErrUnexpectedTag
		}
		if uint64(len(data)-n) < uint64(h.lvt) {
			return bacnet.TimeStamp{}, 0, ErrTruncated
		}
		seq, err := decodeUnsigned(data[n : n+int(h.lvt)])
		if err != nil {
			return bacnet.TimeStamp{}, 0, err
		}
		return bacnet.TimeStamp{Tag: bacnet.TimeStampSequence, SequenceNumber: seq}, n + int(h.lvt), nil
	case bacnet.TimeStampDateTime:
		dt, m, err := DecodeDateTimeStamp(data)
		if err != nil {
			return bacnet.TimeStamp{}, 0, err
		}
		return bacnet.DateTimeStamp(dt), m, nil
	}
	return bacnet.TimeStamp{}, 0, fmt.Errorf("%w: timestamp choice %d", ErrUnexpectedTag, h.number)
}

func decodeUnsigned(content []byte) (uint32, error) {
	switch {
	case len(content) == 0:
		return 0, fmt.Errorf("%w: empty unsigned", ErrInvalidLength)
	case len(content) > 4:
		return 0, fmt.Errorf("%w: %d octets", ErrValueTooLarge, len(content))
	}
	var v uint32
	for _, b := range content {
		v = v<<8 | uint32(b)
	}
	return v, nil
}

func decodeSigned(content []byte) (int32, error) {
	switch {
	case len(content) == 0:
		return 0, fmt.Errorf("%w: empty signed", ErrInvalidLength)
	case len(content) > 4:
		return 0, fmt.Errorf("%w: %d octets", ErrValueTooLarge, len(content))
	}
	var v int32
	if content[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range content {
		v = v<<8 | int32(b)
	}
	return v, nil
}

func decodeBitString(content []byte) (BitString, error) {
	if len(content) == 0 {
		return BitString{}, fmt.Errorf("%w: missing unused-bits octet", ErrInvalidBitString)
	}
	unused := int(content[0])
	octets := content[1:]
	if unused > 7 || (len(octets) == 0 && unused != 0) {
		return BitString{}, fmt.Errorf("%w: %d unused bits", ErrInvalidBitString, unused)
	}
	n := len(octets)*8 - unused
	bits := make([]bool, n)
	for i := 0; i < n; i++ {
		bits[i] = octets[i/8]&(0x80>>(i%8)) != 0
	}
	return BitString{bits: bits}, nil
}
