package bacnet

import (
	"errors"
	"fmt"
)

const (
	// MaxInstance is the largest valid object instance number.
	MaxInstance = 0x3FFFFF

	instanceBits  = 22
	maxObjectType = 0x3FF
)

// ObjectID identifies an object within a device.
type ObjectID struct {
	Type     ObjectType
	Instance uint32
}

// Encode packs the object id into its 32-bit wire form.
func (o ObjectID) Encode() (uint32, error) {
	if o.Instance > MaxInstance {
		return 0, errors.New("invalid object id: instance too high")
	}
	if o.Type > maxObjectType {
		return 0, errors.New("invalid object id: object type too high")
	}
	return uint32(o.Type)<<instanceBits | o.Instance, nil
}

// ObjectIDFromUint32 unpacks a 32-bit wire object id.
func ObjectIDFromUint32(v uint32) ObjectID {
	return ObjectID{
		Type:     ObjectType(v >> instanceBits),
		Instance: v & MaxInstance,
	}
}

// String returns "type:instance".
func (o ObjectID) String() string {
	return fmt.Sprintf("%s:%d", o.Type, o.Instance)
}
