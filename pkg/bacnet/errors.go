package bacnet

import "fmt"

// ErrorClass is the class half of a BACnet error.
type ErrorClass uint8

const (
	ErrorClassDevice    ErrorClass = 0
	ErrorClassObject    ErrorClass = 1
	ErrorClassProperty  ErrorClass = 2
	ErrorClassResources ErrorClass = 3
	ErrorClassSecurity  ErrorClass = 4
	ErrorClassServices  ErrorClass = 5
)

// String returns the error class name.
func (c ErrorClass) String() string {
	switch c {
	case ErrorClassDevice:
		return "DEVICE"
	case ErrorClassObject:
		return "OBJECT"
	case ErrorClassProperty:
		return "PROPERTY"
	case ErrorClassResources:
		return "RESOURCES"
	case ErrorClassSecurity:
		return "SECURITY"
	case ErrorClassServices:
		return "SERVICES"
	default:
		return "UNKNOWN"
	}
}

// ErrorCode is the code half of a BACnet error.
type ErrorCode uint16

const (
	ErrorCodeOther                    ErrorCode = 0
	ErrorCodeInvalidDataType          ErrorCode = 9
	ErrorCodeInvalidTimeStamp         ErrorCode = 14
	ErrorCodeNoSpaceForObject         ErrorCode = 18
	ErrorCodeNoSpaceToWriteProperty   ErrorCode = 20
	ErrorCodeUnknownObject            ErrorCode = 31
	ErrorCodeUnknownProperty          ErrorCode = 32
	ErrorCodeValueOutOfRange          ErrorCode = 37
	ErrorCodeWriteAccessDenied        ErrorCode = 40
	ErrorCodeCharacterSetNotSupported ErrorCode = 41
	ErrorCodeInvalidArrayIndex        ErrorCode = 42
	ErrorCodeDuplicateName            ErrorCode = 48
	ErrorCodePropertyIsNotAnArray     ErrorCode = 50
	ErrorCodeInvalidEventState        ErrorCode = 73
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeOther:
		return "OTHER"
	case ErrorCodeInvalidDataType:
		return "INVALID_DATA_TYPE"
	case ErrorCodeInvalidTimeStamp:
		return "INVALID_TIME_STAMP"
	case ErrorCodeNoSpaceForObject:
		return "NO_SPACE_FOR_OBJECT"
	case ErrorCodeNoSpaceToWriteProperty:
		return "NO_SPACE_TO_WRITE_PROPERTY"
	case ErrorCodeUnknownObject:
		return "UNKNOWN_OBJECT"
	case ErrorCodeUnknownProperty:
		return "UNKNOWN_PROPERTY"
	case ErrorCodeValueOutOfRange:
		return "VALUE_OUT_OF_RANGE"
	case ErrorCodeWriteAccessDenied:
		return "WRITE_ACCESS_DENIED"
	case ErrorCodeCharacterSetNotSupported:
		return "CHARACTER_SET_NOT_SUPPORTED"
	case ErrorCodeInvalidArrayIndex:
		return "INVALID_ARRAY_INDEX"
	case ErrorCodeDuplicateName:
		return "DUPLICATE_NAME"
	case ErrorCodePropertyIsNotAnArray:
		return "PROPERTY_IS_NOT_AN_ARRAY"
	case ErrorCodeInvalidEventState:
		return "INVALID_EVENT_STATE"
	default:
		return fmt.Sprintf("ERROR_CODE_%d", uint16(c))
	}
}

// Error is a BACnet (class, code) error pair.
type Error struct {
	Class ErrorClass
	Code  ErrorCode
}

// NewError returns an *Error for the given class and code.
func NewError(class ErrorClass, code ErrorCode) *Error {
	return &Error{Class: class, Code: code}
}

// PropertyError returns an error of class PROPERTY.
func PropertyError(code ErrorCode) *Error {
	return &Error{Class: ErrorClassProperty, Code: code}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("bacnet error %s:%s", e.Class, e.Code)
}

// Is matches another *Error with the same class and code, so that
// errors.Is(err, bacnet.PropertyError(bacnet.ErrorCodeUnknownProperty)) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Class == t.Class && e.Code == t.Code
}
