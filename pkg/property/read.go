package property

import (
	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/encoding"
	"github.com/bacstack/msv-go/pkg/model"
	"github.com/bacstack/msv-go/pkg/priority"
)

// readRule encodes one property. Scalar properties set scalar; arrays set
// count and element (1-based).
type readRule struct {
	scalar  func(c *Codec, instance uint32, r *model.Record) []byte
	count   func(r *model.Record) uint32
	element func(r *model.Record, n uint32) []byte
}

func (rr readRule) isArray() bool {
	return rr.element != nil
}

func readRules() map[bacnet.PropertyID]readRule {
	return map[bacnet.PropertyID]readRule{
		bacnet.PropObjectIdentifier: {scalar: func(c *Codec, inst uint32, _ *model.Record) []byte {
			return encoding.AppendObjectID(nil, c.store.ObjectID(inst))
		}},
		bacnet.PropObjectName: {scalar: func(_ *Codec, _ uint32, r *model.Record) []byte {
			return encoding.AppendCharacterString(nil, encoding.UTF8String(r.Name))
		}},
		bacnet.PropDescription: {scalar: func(_ *Codec, _ uint32, r *model.Record) []byte {
			return encoding.AppendCharacterString(nil, encoding.UTF8String(r.Description))
		}},
		bacnet.PropObjectType: {scalar: func(*Codec, uint32, *model.Record) []byte {
			return encoding.AppendEnumerated(nil, uint32(bacnet.ObjectMultiStateValue))
		}},
		bacnet.PropPresentValue: {scalar: func(_ *Codec, _ uint32, r *model.Record) []byte {
			return encoding.AppendUnsigned(nil, priority.PresentValue(r))
		}},
		bacnet.PropStatusFlags: {scalar: func(c *Codec, _ uint32, r *model.Record) []byte {
			flags := r.StatusFlags(c.store.IntrinsicReporting())
			return encoding.AppendBitString(nil, encoding.NewBitString(flags.Bits()...))
		}},
		bacnet.PropEventState: {scalar: func(c *Codec, _ uint32, r *model.Record) []byte {
			state := bacnet.EventStateNormal
			if c.store.IntrinsicReporting() {
				state = r.EventState
			}
			return encoding.AppendEnumerated(nil, uint32(state))
		}},
		bacnet.PropOutOfService: {scalar: func(_ *Codec, _ uint32, r *model.Record) []byte {
			return encoding.AppendBoolean(nil, r.OutOfService)
		}},
		bacnet.PropRelinquishDefault: {scalar: func(_ *Codec, _ uint32, r *model.Record) []byte {
			return encoding.AppendUnsigned(nil, r.RelinquishDefault)
		}},
		bacnet.PropNumberOfStates: {scalar: func(_ *Codec, _ uint32, r *model.Record) []byte {
			return encoding.AppendUnsigned(nil, r.NumberOfStates)
		}},
		bacnet.PropPriorityArray: {
			count: func(*model.Record) uint32 { return bacnet.MaxPriority },
			element: func(r *model.Record, n uint32) []byte {
				v, ok := priority.Slot(r, uint8(n))
				if !ok {
					return encoding.AppendNull(nil)
				}
				return encoding.AppendUnsigned(nil, uint32(v))
			},
		},
		bacnet.PropStateText: {
			count: func(r *model.Record) uint32 { return r.NumberOfStates },
			element: func(r *model.Record, n uint32) []byte {
				return encoding.AppendCharacterString(nil, encoding.UTF8String(r.StateText[n-1]))
			},
		},

		bacnet.PropAlarmValues: {scalar: func(_ *Codec, _ uint32, r *model.Record) []byte {
			var b []byte
			for _, v := range r.AlarmValues {
				b = encoding.AppendUnsigned(b, v)
			}
			return b
		}},
		bacnet.PropTimeDelay: {scalar: func(_ *Codec, _ uint32, r *model.Record) []byte {
			return encoding.AppendUnsigned(nil, r.TimeDelay)
		}},
		bacnet.PropNotificationClass: {scalar: func(_ *Codec, _ uint32, r *model.Record) []byte {
			return encoding.AppendUnsigned(nil, r.NotificationClass)
		}},
		bacnet.PropEventEnable: {scalar: func(_ *Codec, _ uint32, r *model.Record) []byte {
			return encoding.AppendBitString(nil, encoding.NewBitString(
				r.EventEnable.Has(bacnet.TransitionToOffnormal),
				r.EventEnable.Has(bacnet.TransitionToFault),
				r.EventEnable.Has(bacnet.TransitionToNormal),
			))
		}},
		bacnet.PropAckedTransitions: {scalar: func(_ *Codec, _ uint32, r *model.Record) []byte {
			return encoding.AppendBitString(nil, encoding.NewBitString(r.AckedTransitionBits()...))
		}},
		bacnet.PropNotifyType: {scalar: func(_ *Codec, _ uint32, r *model.Record) []byte {
			return encoding.AppendEnumerated(nil, uint32(r.NotifyType))
		}},
		bacnet.PropEventTimeStamps: {
			count: func(*model.Record) uint32 { return bacnet.TransitionCount },
			element: func(r *model.Record, n uint32) []byte {
				return encoding.AppendTimeStamp(nil, bacnet.DateTimeStamp(r.EventTimeStamps[n-1]))
			},
		},
	}
}
