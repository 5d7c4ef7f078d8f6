package encoding

import (
	"github.com/bacstack/msv-go/pkg/bacnet"
)

// CharacterSet identifies the encoding of a character string.
type CharacterSet uint8

const (
	CharacterSetUTF8     CharacterSet = 0
	CharacterSetDBCS     CharacterSet = 1
	CharacterSetJISX0208 CharacterSet = 2
	CharacterSetUCS4     CharacterSet = 3
	CharacterSetUCS2     CharacterSet = 4
	CharacterSetISO88591 CharacterSet = 5
)

// CharacterString is a string with its declared character set.
type CharacterString struct {
	Set   CharacterSet
	Value string
}

// UTF8String returns a UTF-8 character string.
func UTF8String(s string) CharacterString {
	return CharacterString{Set: CharacterSetUTF8, Value: s}
}

// BitString is an ordered sequence of bits. Bit 0 is transmitted first.
type BitString struct {
	bits []bool
}

// NewBitString returns a bit string holding the given bits.
func NewBitString(bits ...bool) BitString {
	return BitString{bits: append([]bool(nil), bits...)}
}

// Len returns the number of bits used.
func (b BitString) Len() int {
	return len(b.bits)
}

// Bit returns bit n, or false if n is out of range.
func (b BitString) Bit(n int) bool {
	if n < 0 || n >= len(b.bits) {
		return false
	}
	return b.bits[n]
}

// Bits returns a copy of the bits.
func (b BitString) Bits() []bool {
	return append([]bool(nil), b.bits...)
}

// Value is a decoded application-tagged primitive. Only the field matching
// Tag is meaningful.
type Value struct {
	Tag ApplicationTag

	Boolean         bool
	Unsigned        uint32
	Signed          int32
	Real            float32
	Double          float64
	OctetString     []byte
	CharacterString CharacterString
	BitString       BitString
	Enumerated      uint32
	Date            bacnet.Date
	Time            bacnet.Time
	ObjectID        bacnet.ObjectID
}
