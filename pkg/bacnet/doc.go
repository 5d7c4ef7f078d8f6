// Package bacnet defines the BACnet enumerations and value types shared by the
// Multi-state Value stack.
//
// Only the subset of the standard enumerations that a Multi-state Value object
// produces or consumes is defined here: object types, property identifiers,
// error classes and codes, event states, notify types, event transitions,
// status flags, and the date/time/timestamp types used by intrinsic reporting.
//
// # Errors
//
// Protocol errors are (class, code) pairs carried by *Error. Operations in this
// module always return them as values:
//
//	err := codec.WriteProperty(req)
//	var be *bacnet.Error
//	if errors.As(err, &be) && be.Code == bacnet.ErrorCodeWriteAccessDenied {
//	    // translate into an Error-PDU
//	}
//
// # Array Indexes
//
// ArrayAll is the reserved array index meaning "no index supplied". Index 0
// addresses the element count of an array property; 1..N address elements.
package bacnet
