// Package encoding implements the BACnet application-tagged primitive codec.
//
// Values are encoded with the ASN.1-like tag header used by BACnet APDUs:
//
//	+--------+--------+--------+
//	| tag(4) | c(1)   | lvt(3) |   [ext tag] [ext length] content...
//	+--------+--------+--------+
//
// where c selects application (0) or context (1) class and lvt is the content
// length (0-4), 5 for an extended length, or 6/7 for opening/closing tags.
//
// # Writing
//
// Encoders are append-style functions that extend a byte slice:
//
//	b := encoding.AppendUnsigned(nil, 3)
//	b = encoding.AppendCharacterString(b, encoding.UTF8String("DOWN"))
//
// Buffer is a fixed-capacity destination. Its Write is all-or-nothing: an
// element that does not fit in the remaining capacity is rejected with
// ErrNoSpace and nothing is written.
//
// # Reading
//
// DecodeApplication decodes one application-tagged value and reports how many
// bytes it consumed.
package encoding
