package property

import (
	"unicode/utf8"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/encoding"
	"github.com/bacstack/msv-go/pkg/model"
	"github.com/bacstack/msv-go/pkg/priority"
)

// writeRule validates v and applies it to r. It must not change r when it
// returns an error.
type writeRule func(c *Codec, req *WriteRequest, r *model.Record, v encoding.Value) error

func writeRules() map[bacnet.PropertyID]writeRule {
	return map[bacnet.PropertyID]writeRule{
		bacnet.PropObjectName:        writeObjectName,
		bacnet.PropDescription:       writeDescription,
		bacnet.PropPresentValue:      writePresentValue,
		bacnet.PropOutOfService:      writeOutOfService,
		bacnet.PropRelinquishDefault: writeRelinquishDefault,
		bacnet.PropTimeDelay:         writeTimeDelay,
		bacnet.PropNotificationClass: writeNotificationClass,
		bacnet.PropEventEnable:       writeEventEnable,
		bacnet.PropNotifyType:        writeNotifyType,
	}
}

func invalidDataType() error {
	return bacnet.PropertyError(bacnet.ErrorCodeInvalidDataType)
}

func valueOutOfRange() error {
	return bacnet.PropertyError(bacnet.ErrorCodeValueOutOfRange)
}

// checkText validates a character string against a text field of max bytes.
func checkText(s encoding.CharacterString, max int) error {
	if len(s.Value) > max {
		return bacnet.PropertyError(bacnet.ErrorCodeNoSpaceToWriteProperty)
	}
	if s.Set != encoding.CharacterSetUTF8 || !utf8.ValidString(s.Value) {
		return bacnet.PropertyError(bacnet.ErrorCodeCharacterSetNotSupported)
	}
	return nil
}

func writeObjectName(c *Codec, req *WriteRequest, r *model.Record, v encoding.Value) error {
	if v.Tag != encoding.TagCharacterString {
		return invalidDataType()
	}
	name := v.CharacterString.Value
	self := c.store.ObjectID(req.Instance)

	if owner, ok := c.nameOwner(name); ok {
		if owner == self {
			return nil
		}
		return bacnet.PropertyError(bacnet.ErrorCodeDuplicateName)
	}
	if err := checkText(v.CharacterString, model.MaxNameLength); err != nil {
		return err
	}
	r.Name = name
	c.persist(req.Instance, "name", name)
	return nil
}

// nameOwner returns the object that already uses name.
func (c *Codec) nameOwner(name string) (bacnet.ObjectID, bool) {
	if c.names != nil {
		return c.names.ObjectNameInUse(name)
	}
	if inst, ok := c.store.LookupName(name); ok {
		return c.store.ObjectID(inst), true
	}
	return bacnet.ObjectID{}, false
}

func writeDescription(c *Codec, req *WriteRequest, r *model.Record, v encoding.Value) error {
	if v.Tag != encoding.TagCharacterString {
		return invalidDataType()
	}
	if err := checkText(v.CharacterString, model.MaxDescriptionLength); err != nil {
		return err
	}
	r.Description = v.CharacterString.Value
	c.persist(req.Instance, "description", r.Description)
	return nil
}

func writePresentValue(_ *Codec, req *WriteRequest, r *model.Record, v encoding.Value) error {
	switch v.Tag {
	case encoding.TagUnsignedInt:
		if err := priority.SetPresentValue(r, v.Unsigned, req.Priority); err != nil {
			return valueOutOfRange()
		}
	case encoding.TagNull:
		if err := priority.Relinquish(r, req.Priority); err != nil {
			return valueOutOfRange()
		}
	default:
		return invalidDataType()
	}
	return nil
}

func writeOutOfService(_ *Codec, _ *WriteRequest, r *model.Record, v encoding.Value) error {
	if v.Tag != encoding.TagBoolean {
		return invalidDataType()
	}
	r.OutOfService = v.Boolean
	return nil
}

func writeRelinquishDefault(_ *Codec, _ *WriteRequest, r *model.Record, v encoding.Value) error {
	if v.Tag != encoding.TagUnsignedInt {
		return invalidDataType()
	}
	r.RelinquishDefault = v.Unsigned
	return nil
}

func writeTimeDelay(_ *Codec, _ *WriteRequest, r *model.Record, v encoding.Value) error {
	if v.Tag != encoding.TagUnsignedInt {
		return invalidDataType()
	}
	r.TimeDelay = v.Unsigned
	r.RemainingTimeDelay = v.Unsigned
	return nil
}

func writeNotificationClass(_ *Codec, _ *WriteRequest, r *model.Record, v encoding.Value) error {
	if v.Tag != encoding.TagUnsignedInt {
		return invalidDataType()
	}
	r.NotificationClass = v.Unsigned
	return nil
}

func writeEventEnable(_ *Codec, _ *WriteRequest, r *model.Record, v encoding.Value) error {
	if v.Tag != encoding.TagBitString {
		return invalidDataType()
	}
	if v.BitString.Len() != bacnet.TransitionCount {
		return valueOutOfRange()
	}
	var e bacnet.EventEnable
	for t := bacnet.Transition(0); t < bacnet.Transition(bacnet.TransitionCount); t++ {
		if v.BitString.Bit(int(t)) {
			e |= 1 << t
		}
	}
	r.EventEnable = e
	return nil
}

func writeNotifyType(_ *Codec, _ *WriteRequest, r *model.Record, v encoding.Value) error {
	if v.Tag != encoding.TagEnumerated {
		return invalidDataType()
	}
	if v.Enumerated > uint32(bacnet.NotifyEvent) {
		return valueOutOfRange()
	}
	r.NotifyType = bacnet.NotifyType(v.Enumerated)
	return nil
}
