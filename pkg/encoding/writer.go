package encoding

import (
	"encoding/binary"
	"math"

	"github.com/bacstack/msv-go/pkg/bacnet"
)

// AppendNull appends an application NULL.
func AppendNull(dst []byte) []byte {
	return appendHeader(dst, uint8(TagNull), false, 0)
}

// AppendBoolean appends an application BOOLEAN. The value is carried in the
// tag header.
func AppendBoolean(dst []byte, v bool) []byte {
	var lvt uint32
	if v {
		lvt = 1
	}
	return appendHeader(dst, uint8(TagBoolean), false, lvt)
}

// AppendUnsigned appends an application Unsigned using the fewest octets.
func AppendUnsigned(dst []byte, v uint32) []byte {
	n := unsignedLen(v)
	dst = appendHeader(dst, uint8(TagUnsignedInt), false, uint32(n))
	return appendBigEndian(dst, v, n)
}

// AppendSigned appends an application Signed using the fewest octets.
func AppendSigned(dst []byte, v int32) []byte {
	n := signedLen(v)
	dst = appendHeader(dst, uint8(TagSignedInt), false, uint32(n))
	return appendBigEndian(dst, uint32(v), n)
}

// AppendReal appends an application REAL.
func AppendReal(dst []byte, v float32) []byte {
	dst = appendHeader(dst, uint8(TagReal), false, 4)
	return binary.BigEndian.AppendUint32(dst, math.Float32bits(v))
}

// AppendDouble appends an application Double.
func AppendDouble(dst []byte, v float64) []byte {
	dst = appendHeader(dst, uint8(TagDouble), false, 8)
	return binary.BigEndian.AppendUint64(dst, math.Float64bits(v))
}

// AppendOctetString appends an application OCTET STRING.
func AppendOctetString(dst []byte, v []byte) []byte {
	dst = appendHeader(dst, uint8(TagOctetString), false, uint32(len(v)))
	return append(dst, v...)
}

// AppendCharacterString appends an application CharacterString.
func AppendCharacterString(dst []byte, v CharacterString) []byte {
	dst = appendHeader(dst, uint8(TagCharacterString), false, uint32(len(v.Value)+1))
	dst = append(dst, byte(v.Set))
	return append(dst, v.Value...)
}

// AppendBitString appends an application BIT STRING.
func AppendBitString(dst []byte, v BitString) []byte {
	octets := (v.Len() + 7) / 8
	unused := octets*8 - v.Len()
	dst = appendHeader(dst, uint8(TagBitString), false, uint32(octets+1))
	dst = append(dst, byte(unused))
	start := len(dst)
	dst = append(dst, make([]byte, octets)...)
	for i, set := range v.bits {
		if set {
			dst[start+i/8] |= 0x80 >> (i % 8)
		}
	}
	return dst
}

// AppendEnumerated appends an application ENUMERATED.
func AppendEnumerated(dst []byte, v uint32) []byte {
	n := unsignedLen(v)
	dst = appendHeader(dst, uint8(TagEnumerated), false, uint32(n))
	return appendBigEndian(dst, v, n)
}

// AppendDate appends an application Date. Years outside 1900..2155 encode
// as the wildcard year.
func AppendDate(dst []byte, v bacnet.Date) []byte {
	year := bacnet.Wildcard
	if v.Year >= 1900 && v.Year <= bacnet.WildcardYear {
		year = uint8(v.Year - 1900)
	}
	dst = appendHeader(dst, uint8(TagDate), false, 4)
	return append(dst, year, v.Month, v.Day, v.Weekday)
}

// AppendTime appends an application Time.
func AppendTime(dst []byte, v bacnet.Time) []byte {
	dst = appendHeader(dst, uint8(TagTime), false, 4)
	return append(dst, v.Hour, v.Minute, v.Second, v.Hundredths)
}

// AppendObjectID appends an application BACnetObjectIdentifier. The
// instance is truncated to 22 bits.
func AppendObjectID(dst []byte, v bacnet.ObjectID) []byte {
	dst = appendHeader(dst, uint8(TagObjectID), false, 4)
	return binary.BigEndian.AppendUint32(dst, uint32(v.Type)<<22|v.Instance&bacnet.MaxInstance)
}

// AppendDateTime appends a date followed by a time.
func AppendDateTime(dst []byte, v bacnet.DateTime) []byte {
	dst = AppendDate(dst, v.Date)
	return AppendTime(dst, v.Time)
}

// AppendTimeStamp appends a BACnetTimeStamp choice.
func AppendTimeStamp(dst []byte, v bacnet.TimeStamp) []byte {
	switch v.Tag {
	case bacnet.TimeStampTime:
		dst = appendHeader(dst, uint8(bacnet.TimeStampTime), true, 4)
		return append(dst, v.Time.Hour, v.Time.Minute, v.Time.Second, v.Time.Hundredths)
	case bacnet.TimeStampSequence:
		n := unsignedLen(v.SequenceNumber)
		dst = appendHeader(dst, uint8(bacnet.TimeStampSequence), true, uint32(n))
		return appendBigEndian(dst, v.SequenceNumber, n)
	default:
		dst = AppendOpeningTag(dst, uint8(bacnet.TimeStampDateTime))
		dst = AppendDateTime(dst, v.DateTime)
		return AppendClosingTag(dst, uint8(bacnet.TimeStampDateTime))
	}
}

// AppendValue appends v according to its tag.
func AppendValue(dst []byte, v Value) ([]byte, error) {
	switch v.Tag {
	case TagNull:
		return AppendNull(dst), nil
	case TagBoolean:
		return AppendBoolean(dst, v.Boolean), nil
	case TagUnsignedInt:
		return AppendUnsigned(dst, v.Unsigned), nil
	case TagSignedInt:
		return AppendSigned(dst, v.Signed), nil
	case TagReal:
		return AppendReal(dst, v.Real), nil
	case TagDouble:
		return AppendDouble(dst, v.Double), nil
	case TagOctetString:
		return AppendOctetString(dst, v.OctetString), nil
	case TagCharacterString:
		return AppendCharacterString(dst, v.CharacterString), nil
	case TagBitString:
		return AppendBitString(dst, v.BitString), nil
	case TagEnumerated:
		return AppendEnumerated(dst, v.Enumerated), nil
	case TagDate:
		return AppendDate(dst, v.Date), nil
	case TagTime:
		return AppendTime(dst, v.Time), nil
	case TagObjectID:
		return AppendObjectID(dst, v.ObjectID), nil
	}
	return dst, ErrUnsupportedTag
}

func unsignedLen(v uint32) int {
	switch {
	case v < 1<<8:
		return 1
	case v < 1<<16:
		return 2
	case v < 1<<24:
		return 3
	}
	return 4
}

func signedLen(v int32) int {
	switch {
	case v >= -128 && v < 128:
		return 1
	case v >= -32768 && v < 32768:
		return 2
	case v >= -8388608 && v < 8388608:
		return 3
	}
	return 4
}

func appendBigEndian(dst []byte, v uint32, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}
