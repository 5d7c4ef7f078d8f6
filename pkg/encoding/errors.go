package encoding

import "errors"

// Codec errors.
var (
	ErrNoSpace            = errors.New("encoding: buffer capacity exceeded")
	ErrTruncated          = errors.New("encoding: truncated data")
	ErrNotApplicationTag  = errors.New("encoding: not an application tag")
	ErrUnexpectedTag      = errors.New("encoding: unexpected tag")
	ErrInvalidLength      = errors.New("encoding: invalid length for tag")
	ErrValueTooLarge      = errors.New("encoding: value too large")
	ErrUnsupportedTag     = errors.New("encoding: unsupported application tag")
	ErrInvalidBitString   = errors.New("encoding: invalid bit string")
	ErrInvalidContextTags = errors.New("encoding: unbalanced context tags")
)
