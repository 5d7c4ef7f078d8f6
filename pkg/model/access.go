package model

import (
	"github.com/bacstack/msv-go/pkg/bacnet"
)

// Access flags for properties.
type Access uint8

const (
	// AccessRead allows reading the property.
	AccessRead Access = 1 << iota

	// AccessWrite allows writing the property.
	AccessWrite

	// AccessAlarm marks a property that exists only with intrinsic reporting.
	AccessAlarm

	// AccessNoWriteRule marks a readable property that has no write handling
	// at all. Writes to it report UNKNOWN_PROPERTY rather than
	// WRITE_ACCESS_DENIED.
	AccessNoWriteRule

	// AccessReadOnly is read only.
	AccessReadOnly = AccessRead

	// AccessReadWrite is read and write.
	AccessReadWrite = AccessRead | AccessWrite
)

// CanRead returns true if reading is allowed.
func (a Access) CanRead() bool { return a&AccessRead != 0 }

// CanWrite returns true if writing is allowed.
func (a Access) CanWrite() bool { return a&AccessWrite != 0 }

// AlarmOnly returns true if the property requires intrinsic reporting.
func (a Access) AlarmOnly() bool { return a&AccessAlarm != 0 }

// HasWriteRule returns false if writes treat the property as unknown.
func (a Access) HasWriteRule() bool { return a&AccessNoWriteRule == 0 }

// String returns the access flags as a string.
func (a Access) String() string {
	var s string
	if a.CanRead() {
		s += "R"
	}
	if a.CanWrite() {
		s += "W"
	}
	if a.AlarmOnly() {
		s += "A"
	}
	if s == "" {
		return "-"
	}
	return s
}

// propertyAccess is the access table of the Multi-state Value object type.
var propertyAccess = map[bacnet.PropertyID]Access{
	bacnet.PropObjectIdentifier:  AccessReadOnly,
	bacnet.PropObjectName:        AccessReadWrite,
	bacnet.PropObjectType:        AccessReadOnly,
	bacnet.PropPresentValue:      AccessReadWrite,
	bacnet.PropStatusFlags:       AccessReadOnly,
	bacnet.PropEventState:        AccessReadOnly,
	bacnet.PropOutOfService:      AccessReadWrite,
	bacnet.PropNumberOfStates:    AccessReadOnly,
	bacnet.PropDescription:       AccessReadWrite,
	bacnet.PropPriorityArray:     AccessReadOnly,
	bacnet.PropRelinquishDefault: AccessReadWrite,
	bacnet.PropStateText:         AccessReadOnly,

	bacnet.PropAlarmValues:       AccessReadOnly | AccessAlarm | AccessNoWriteRule,
	bacnet.PropTimeDelay:         AccessReadWrite | AccessAlarm,
	bacnet.PropNotificationClass: AccessReadWrite | AccessAlarm,
	bacnet.PropEventEnable:       AccessReadWrite | AccessAlarm,
	bacnet.PropAckedTransitions:  AccessReadOnly | AccessAlarm,
	bacnet.PropNotifyType:        AccessReadWrite | AccessAlarm,
	bacnet.PropEventTimeStamps:   AccessReadOnly | AccessAlarm,
}

var (
	requiredProperties = []bacnet.PropertyID{
		bacnet.PropObjectIdentifier,
		bacnet.PropObjectName,
		bacnet.PropObjectType,
		bacnet.PropPresentValue,
		bacnet.PropStatusFlags,
		bacnet.PropEventState,
		bacnet.PropOutOfService,
		bacnet.PropNumberOfStates,
	}

	optionalProperties = []bacnet.PropertyID{
		bacnet.PropDescription,
		bacnet.PropPriorityArray,
		bacnet.PropRelinquishDefault,
		bacnet.PropStateText,
	}

	alarmProperties = []bacnet.PropertyID{
		bacnet.PropAlarmValues,
		bacnet.PropTimeDelay,
		bacnet.PropNotificationClass,
		bacnet.PropEventEnable,
		bacnet.PropAckedTransitions,
		bacnet.PropNotifyType,
		bacnet.PropEventTimeStamps,
	}
)

// PropertyLists is the required/optional/proprietary property triple
// consulted by ReadPropertyMultiple handlers.
type PropertyLists struct {
	Required    []bacnet.PropertyID
	Optional    []bacnet.PropertyID
	Proprietary []bacnet.PropertyID
}

// All returns every listed property in list order.
func (p PropertyLists) All() []bacnet.PropertyID {
	all := make([]bacnet.PropertyID, 0, len(p.Required)+len(p.Optional)+len(p.Proprietary))
	all = append(all, p.Required...)
	all = append(all, p.Optional...)
	return append(all, p.Proprietary...)
}
