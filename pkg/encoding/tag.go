package encoding

import (
	"encoding/binary"
	"fmt"
)

// ApplicationTag identifies a primitive application data type.
type ApplicationTag uint8

const (
	TagNull            ApplicationTag = 0
	TagBoolean         ApplicationTag = 1
	TagUnsignedInt     ApplicationTag = 2
	TagSignedInt       ApplicationTag = 3
	TagReal            ApplicationTag = 4
	TagDouble          ApplicationTag = 5
	TagOctetString     ApplicationTag = 6
	TagCharacterString ApplicationTag = 7
	TagBitString       ApplicationTag = 8
	TagEnumerated      ApplicationTag = 9
	TagDate            ApplicationTag = 10
	TagTime            ApplicationTag = 11
	TagObjectID        ApplicationTag = 12
)

// String returns the tag name.
func (t ApplicationTag) String() string {
	names := []string{
		"null", "boolean", "unsigned", "signed", "real", "double",
		"octet-string", "character-string", "bit-string", "enumerated",
		"date", "time", "object-id",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("tag-%d", uint8(t))
}

// Tag header bits.
const (
	classContext = 0x08
	lvtExtended  = 5
	lvtOpening   = 6
	lvtClosing   = 7
	extendedTag  = 0x0F
)

// header is a decoded tag header.
type header struct {
	number  uint8
	context bool
	opening bool
	closing bool
	// lvt is the content length, or the boolean value for an
	// application-tagged boolean.
	lvt uint32
}

// appendHeader appends a tag header for a tag of the given number, class and
// content length.
func appendHeader(dst []byte, number uint8, context bool, length uint32) []byte {
	var b byte
	if context {
		b |= classContext
	}
	if number < extendedTag {
		b |= number << 4
	} else {
		b |= extendedTag << 4
	}
	if length <= 4 {
		b |= byte(length)
	} else {
		b |= lvtExtended
	}
	dst = append(dst, b)
	if number >= extendedTag {
		dst = append(dst, number)
	}
	if length > 4 {
		switch {
		case length <= 253:
			dst = append(dst, byte(length))
		case length <= 0xFFFF:
			dst = append(dst, 254)
			dst = binary.BigEndian.AppendUint16(dst, uint16(length))
		default:
			dst = append(dst, 255)
			dst = binary.BigEndian.AppendUint32(dst, length)
		}
	}
	return dst
}

// AppendOpeningTag appends a context opening tag.
func AppendOpeningTag(dst []byte, number uint8) []byte {
	return appendPairedTag(dst, number, lvtOpening)
}

// AppendClosingTag appends a context closing tag.
func AppendClosingTag(dst []byte, number uint8) []byte {
	return appendPairedTag(dst, number, lvtClosing)
}

func appendPairedTag(dst []byte, number uint8, lvt byte) []byte {
	if number < extendedTag {
		return append(dst, number<<4|classContext|lvt)
	}
	return append(dst, extendedTag<<4|classContext|lvt, number)
}

// decodeHeader decodes the tag header at the start of data and returns it
// with the number of header bytes.
func decodeHeader(data []byte) (header, int, error) {
	if len(data) == 0 {
		return header{}, 0, ErrTruncated
	}
	b := data[0]
	n := 1
	h := header{
		number:  b >> 4,
		context: b&classContext != 0,
	}
	if h.number == extendedTag {
		if len(data) < 2 {
			return header{}, 0, ErrTruncated
		}
		h.number = data[1]
		n++
	}

	lvt := b & 0x07
	switch {
	case h.context && lvt == lvtOpening:
		h.opening = true
		return h, n, nil
	case h.context && lvt == lvtClosing:
		h.closing = true
		return h, n, nil
	case lvt == lvtExtended:
		if len(data) < n+1 {
			return header{}, 0, ErrTruncated
		}
		ext := data[n]
		n++
		switch ext {
		case 254:
			if len(data) < n+2 {
				return header{}, 0, ErrTruncated
			}
			h.lvt = uint32(binary.BigEndian.Uint16(data[n:]))
			n += 2
		case 255:
			if len(data) < n+4 {
				return header{}, 0, ErrTruncated
			}
			h.lvt = binary.BigEndian.Uint32(data[n:])
			n += 4
		default:
			h.lvt = uint32(ext)
		}
	default:
		h.lvt = uint32(lvt)
	}
	return h, n, nil
}
