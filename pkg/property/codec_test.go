package property

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/config"
	"github.com/bacstack/msv-go/pkg/encoding"
	"github.com/bacstack/msv-go/pkg/log"
	"github.com/bacstack/msv-go/pkg/metrics"
	"github.com/bacstack/msv-go/pkg/model"
	"github.com/bacstack/msv-go/pkg/property/mocks"
)

type recordingLogger struct {
	events []log.Event
}

func (l *recordingLogger) Log(e log.Event) {
	l.events = append(l.events, e)
}

func newTestCodec(t *testing.T, opts ...Option) *Codec {
	t.Helper()
	store := model.NewStore(4, model.WithIntrinsicReporting())
	for i := 0; i < store.Count(); i++ {
		r := store.Record(model.Index(i))
		r.Name = "MV" + string(rune('0'+i))
	}
	require.NoError(t, store.Record(0).SetStates([]string{"Off", "On", "Auto"}))
	return NewCodec(store, opts...)
}

func read(t *testing.T, c *Codec, instance uint32, p bacnet.PropertyID, index uint32) []byte {
	t.Helper()
	out := encoding.NewBuffer(480)
	require.NoError(t, c.ReadProperty(&ReadRequest{Instance: instance, Property: p, ArrayIndex: index}, out))
	return out.Bytes()
}

func readValue(t *testing.T, c *Codec, instance uint32, p bacnet.PropertyID) encoding.Value {
	t.Helper()
	data := read(t, c, instance, p, bacnet.ArrayAll)
	v, n, err := encoding.DecodeApplication(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	return v
}

func write(c *Codec, instance uint32, p bacnet.PropertyID, prio uint8, value []byte) error {
	return c.WriteProperty(&WriteRequest{
		Instance:   instance,
		Property:   p,
		ArrayIndex: bacnet.ArrayAll,
		Priority:   prio,
		Value:      value,
	})
}

func TestReadScalars(t *testing.T) {
	c := newTestCodec(t)

	assert.Equal(t, encoding.AppendObjectID(nil, bacnet.ObjectID{Type: bacnet.ObjectMultiStateValue, Instance: 2}),
		read(t, c, 2, bacnet.PropObjectIdentifier, bacnet.ArrayAll))
	assert.Equal(t, []byte{0x91, 0x13}, read(t, c, 0, bacnet.PropObjectType, bacnet.ArrayAll))
	assert.Equal(t, []byte{0x21, 0x01}, read(t, c, 0, bacnet.PropPresentValue, bacnet.ArrayAll))
	assert.Equal(t, []byte{0x21, 0x03}, read(t, c, 0, bacnet.PropNumberOfStates, bacnet.ArrayAll))
	assert.Equal(t, []byte{0x10}, read(t, c, 0, bacnet.PropOutOfService, bacnet.ArrayAll))
	assert.Equal(t, []byte{0x91, 0x00}, read(t, c, 0, bacnet.PropEventState, bacnet.ArrayAll))
	assert.Equal(t, []byte{0x91, 0x00}, read(t, c, 0, bacnet.PropNotifyType, bacnet.ArrayAll))

	name := readValue(t, c, 1, bacnet.PropObjectName)
	assert.Equal(t, encoding.TagCharacterString, name.Tag)
	assert.Equal(t, "MV1", name.CharacterString.Value)

	flags := readValue(t, c, 0, bacnet.PropStatusFlags)
	assert.Equal(t, []bool{false, false, false, false}, flags.BitString.Bits())

	enable := readValue(t, c, 0, bacnet.PropEventEnable)
	assert.Equal(t, []bool{true, true, true}, enable.BitString.Bits())

	acked := readValue(t, c, 0, bacnet.PropAckedTransitions)
	assert.Equal(t, []bool{true, true, true}, acked.BitString.Bits())
}

func TestReadAlarmValues(t *testing.T) {
	c := newTestCodec(t)
	c.Store().Record(0).AlarmValues = []uint32{2, 3}

	assert.Equal(t, []byte{0x21, 0x02, 0x21, 0x03}, read(t, c, 0, bacnet.PropAlarmValues, bacnet.ArrayAll))
	assert.Empty(t, read(t, c, 1, bacnet.PropAlarmValues, bacnet.ArrayAll))
}

func TestReadArrays(t *testing.T) {
	c := newTestCodec(t)
	require.NoError(t, write(c, 0, bacnet.PropPresentValue, 8, encoding.AppendUnsigned(nil, 2)))

	t.Run("count", func(t *testing.T) {
		assert.Equal(t, []byte{0x21, 0x10}, read(t, c, 0, bacnet.PropPriorityArray, 0))
		assert.Equal(t, []byte{0x21, 0x03}, read(t, c, 0, bacnet.PropStateText, 0))
		assert.Equal(t, []byte{0x21, 0x03}, read(t, c, 0, bacnet.PropEventTimeStamps, 0))
	})

	t.Run("element", func(t *testing.T) {
		assert.Equal(t, []byte{0x00}, read(t, c, 0, bacnet.PropPriorityArray, 1))
		assert.Equal(t, []byte{0x21, 0x02}, read(t, c, 0, bacnet.PropPriorityArray, 8))

		v, _, err := encoding.DecodeApplication(read(t, c, 0, bacnet.PropStateText, 2))
		require.NoError(t, err)
		assert.Equal(t, "On", v.CharacterString.Value)

		ts, _, err := encoding.DecodeTimeStamp(read(t, c, 0, bacnet.PropEventTimeStamps, 1))
		require.NoError(t, err)
		assert.True(t, ts.DateTime.IsWildcard())
	})

	t.Run("all", func(t *testing.T) {
		data := read(t, c, 0, bacnet.PropPriorityArray, bacnet.ArrayAll)
		// 15 NULLs plus one two-byte unsigned.
		assert.Len(t, data, 17)

		texts := read(t, c, 0, bacnet.PropStateText, bacnet.ArrayAll)
		var got []string
		for len(texts) > 0 {
			v, n, err := encoding.DecodeApplication(texts)
			require.NoError(t, err)
			got = append(got, v.CharacterString.Value)
			texts = texts[n:]
		}
		assert.Equal(t, []string{"Off", "On", "Auto"}, got)
	})

	t.Run("index past end", func(t *testing.T) {
		out := encoding.NewBuffer(64)
		err := c.ReadProperty(&ReadRequest{Instance: 0, Property: bacnet.PropPriorityArray, ArrayIndex: 17}, out)
		assert.ErrorIs(t, err, bacnet.PropertyError(bacnet.ErrorCodeInvalidArrayIndex))

		err = c.ReadProperty(&ReadRequest{Instance: 0, Property: bacnet.PropStateText, ArrayIndex: 4}, out)
		assert.ErrorIs(t, err, bacnet.PropertyError(bacnet.ErrorCodeInvalidArrayIndex))
		assert.Zero(t, out.Len())
	})
}

func TestReadAllOverflowKeepsPartialOutput(t *testing.T) {
	c := newTestCodec(t)
	out := encoding.NewBuffer(5)

	err := c.ReadProperty(&ReadRequest{Instance: 0, Property: bacnet.PropPriorityArray, ArrayIndex: bacnet.ArrayAll}, out)

	var berr *bacnet.Error
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, bacnet.ErrorClassServices, berr.Class)
	assert.Equal(t, bacnet.ErrorCodeNoSpaceForObject, berr.Code)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, out.Bytes())
}

func TestReadScalarOverflow(t *testing.T) {
	c := newTestCodec(t)
	out := encoding.NewBuffer(1)

	err := c.ReadProperty(&ReadRequest{Instance: 0, Property: bacnet.PropPresentValue, ArrayIndex: bacnet.ArrayAll}, out)
	assert.ErrorIs(t, err, bacnet.NewError(bacnet.ErrorClassServices, bacnet.ErrorCodeNoSpaceForObject))
	assert.Zero(t, out.Len())
}

func TestReadErrors(t *testing.T) {
	c := newTestCodec(t)
	plain := NewCodec(model.NewStore(2))

	tests := []struct {
		name  string
		codec *Codec
		req   ReadRequest
		want  error
	}{
		{
			name:  "unknown object",
			codec: c,
			req:   ReadRequest{Instance: 4, Property: bacnet.PropPresentValue, ArrayIndex: bacnet.ArrayAll},
			want:  bacnet.NewError(bacnet.ErrorClassObject, bacnet.ErrorCodeUnknownObject),
		},
		{
			name:  "unknown property",
			codec: c,
			req:   ReadRequest{Instance: 0, Property: bacnet.PropertyID(9999), ArrayIndex: bacnet.ArrayAll},
			want:  bacnet.PropertyError(bacnet.ErrorCodeUnknownProperty),
		},
		{
			name:  "index on scalar",
			codec: c,
			req:   ReadRequest{Instance: 0, Property: bacnet.PropPresentValue, ArrayIndex: 1},
			want:  bacnet.PropertyError(bacnet.ErrorCodePropertyIsNotAnArray),
		},
		{
			name:  "alarm property without intrinsic reporting",
			codec: plain,
			req:   ReadRequest{Instance: 0, Property: bacnet.PropTimeDelay, ArrayIndex: bacnet.ArrayAll},
			want:  bacnet.PropertyError(bacnet.ErrorCodeUnknownProperty),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.codec.ReadProperty(&tt.req, encoding.NewBuffer(64))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadWithoutIntrinsicReporting(t *testing.T) {
	c := NewCodec(model.NewStore(1))
	r := c.Store().Record(0)
	r.EventState = bacnet.EventStateFault

	assert.Equal(t, []byte{0x91, 0x00}, read(t, c, 0, bacnet.PropEventState, bacnet.ArrayAll))
	flags := readValue(t, c, 0, bacnet.PropStatusFlags)
	assert.False(t, flags.BitString.Bit(int(bacnet.StatusFlagInAlarm)))
}

func TestEveryListedPropertyHasRules(t *testing.T) {
	c := newTestCodec(t)
	for _, p := range c.Store().PropertyLists().All() {
		_, ok := c.readers[p]
		assert.True(t, ok, "no read rule for %s", p)

		access, ok := c.Store().Access(p)
		require.True(t, ok, "no access entry for %s", p)
		_, ok = c.writers[p]
		assert.Equal(t, access.CanWrite(), ok, "write rule mismatch for %s", p)

		out := encoding.NewBuffer(480)
		assert.NoError(t, c.ReadProperty(&ReadRequest{Instance: 0, Property: p, ArrayIndex: bacnet.ArrayAll}, out), "read %s", p)
	}
}

func TestWritePresentValue(t *testing.T) {
	c := newTestCodec(t)
	r := c.Store().Record(0)

	require.NoError(t, write(c, 0, bacnet.PropPresentValue, 8, encoding.AppendUnsigned(nil, 2)))
	assert.Equal(t, uint8(2), r.PriorityArray[7])
	assert.Equal(t, []byte{0x21, 0x02}, read(t, c, 0, bacnet.PropPresentValue, bacnet.ArrayAll))

	require.NoError(t, write(c, 0, bacnet.PropPresentValue, 4, encoding.AppendUnsigned(nil, 3)))
	assert.Equal(t, []byte{0x21, 0x03}, read(t, c, 0, bacnet.PropPresentValue, bacnet.ArrayAll))

	require.NoError(t, write(c, 0, bacnet.PropPresentValue, 4, encoding.AppendNull(nil)))
	assert.Equal(t, model.StateNull, r.PriorityArray[3])
	assert.Equal(t, []byte{0x21, 0x02}, read(t, c, 0, bacnet.PropPresentValue, bacnet.ArrayAll))

	require.NoError(t, write(c, 0, bacnet.PropPresentValue, 8, encoding.AppendNull(nil)))
	assert.Equal(t, []byte{0x21, 0x01}, read(t, c, 0, bacnet.PropPresentValue, bacnet.ArrayAll))
}

func TestWriteUpdatesFields(t *testing.T) {
	c := newTestCodec(t)
	r := c.Store().Record(1)

	require.NoError(t, write(c, 1, bacnet.PropOutOfService, 16, encoding.AppendBoolean(nil, true)))
	assert.True(t, r.OutOfService)

	require.NoError(t, write(c, 1, bacnet.PropRelinquishDefault, 16, encoding.AppendUnsigned(nil, 1)))
	assert.Equal(t, uint32(1), r.RelinquishDefault)

	r.RemainingTimeDelay = 0
	require.NoError(t, write(c, 1, bacnet.PropTimeDelay, 16, encoding.AppendUnsigned(nil, 30)))
	assert.Equal(t, uint32(30), r.TimeDelay)
	assert.Equal(t, uint32(30), r.RemainingTimeDelay)

	require.NoError(t, write(c, 1, bacnet.PropNotificationClass, 16, encoding.AppendUnsigned(nil, 5)))
	assert.Equal(t, uint32(5), r.NotificationClass)

	require.NoError(t, write(c, 1, bacnet.PropEventEnable, 16, encoding.AppendBitString(nil, encoding.NewBitString(true, false, true))))
	assert.Equal(t, bacnet.EventEnableToOffnormal|bacnet.EventEnableToNormal, r.EventEnable)

	require.NoError(t, write(c, 1, bacnet.PropNotifyType, 16, encoding.AppendEnumerated(nil, 1)))
	assert.Equal(t, bacnet.NotifyEvent, r.NotifyType)

	require.NoError(t, write(c, 1, bacnet.PropDescription, 16, encoding.AppendCharacterString(nil, encoding.UTF8String("Pump mode"))))
	assert.Equal(t, "Pump mode", r.Description)
}

func TestWriteErrorsLeaveRecordUnchanged(t *testing.T) {
	tooLong := strings.Repeat("x", model.MaxNameLength+1)

	tests := []struct {
		name  string
		prop  bacnet.PropertyID
		prio  uint8
		index uint32
		value []byte
		want  error
	}{
		{
			name:  "read-only property",
			prop:  bacnet.PropNumberOfStates,
			value: encoding.AppendUnsigned(nil, 2),
			want:  bacnet.PropertyError(bacnet.ErrorCodeWriteAccessDenied),
		},
		{
			name:  "read-only property with garbage value",
			prop:  bacnet.PropStatusFlags,
			value: []byte{0xFF},
			want:  bacnet.PropertyError(bacnet.ErrorCodeWriteAccessDenied),
		},
		{
			name:  "unknown property",
			prop:  bacnet.PropertyID(512),
			value: encoding.AppendUnsigned(nil, 2),
			want:  bacnet.PropertyError(bacnet.ErrorCodeUnknownProperty),
		},
		{
			name:  "array index on writable property",
			prop:  bacnet.PropPresentValue,
			index: 1,
			value: encoding.AppendUnsigned(nil, 2),
			want:  bacnet.PropertyError(bacnet.ErrorCodePropertyIsNotAnArray),
		},
		{
			name:  "undecodable value",
			prop:  bacnet.PropPresentValue,
			value: []byte{0x21},
			want:  bacnet.PropertyError(bacnet.ErrorCodeValueOutOfRange),
		},
		{
			name:  "trailing data",
			prop:  bacnet.PropPresentValue,
			value: append(encoding.AppendUnsigned(nil, 2), 0x00),
			want:  bacnet.PropertyError(bacnet.ErrorCodeValueOutOfRange),
		},
		{
			name:  "present value wrong type",
			prop:  bacnet.PropPresentValue,
			value: encoding.AppendBoolean(nil, true),
			want:  bacnet.PropertyError(bacnet.ErrorCodeInvalidDataType),
		},
		{
			name:  "present value zero",
			prop:  bacnet.PropPresentValue,
			value: encoding.AppendUnsigned(nil, 0),
			want:  bacnet.PropertyError(bacnet.ErrorCodeValueOutOfRange),
		},
		{
			name:  "present value above number of states",
			prop:  bacnet.PropPresentValue,
			value: encoding.AppendUnsigned(nil, 4),
			want:  bacnet.PropertyError(bacnet.ErrorCodeValueOutOfRange),
		},
		{
			name:  "present value invalid priority",
			prop:  bacnet.PropPresentValue,
			prio:  17,
			value: encoding.AppendUnsigned(nil, 2),
			want:  bacnet.PropertyError(bacnet.ErrorCodeValueOutOfRange),
		},
		{
			name:  "out of service wrong type",
			prop:  bacnet.PropOutOfService,
			value: encoding.AppendUnsigned(nil, 1),
			want:  bacnet.PropertyError(bacnet.ErrorCodeInvalidDataType),
		},
		{
			name:  "event enable wrong width",
			prop:  bacnet.PropEventEnable,
			value: encoding.AppendBitString(nil, encoding.NewBitString(true, true)),
			want:  bacnet.PropertyError(bacnet.ErrorCodeValueOutOfRange),
		},
		{
			name:  "notify type out of range",
			prop:  bacnet.PropNotifyType,
			value: encoding.AppendEnumerated(nil, 2),
			want:  bacnet.PropertyError(bacnet.ErrorCodeValueOutOfRange),
		},
		{
			name:  "name too long",
			prop:  bacnet.PropObjectName,
			value: encoding.AppendCharacterString(nil, encoding.UTF8String(tooLong)),
			want:  bacnet.PropertyError(bacnet.ErrorCodeNoSpaceToWriteProperty),
		},
		{
			name:  "name wrong character set",
			prop:  bacnet.PropObjectName,
			value: encoding.AppendCharacterString(nil, encoding.CharacterString{Set: encoding.CharacterSetISO88591, Value: "Pump"}),
			want:  bacnet.PropertyError(bacnet.ErrorCodeCharacterSetNotSupported),
		},
		{
			name:  "description invalid utf8",
			prop:  bacnet.PropDescription,
			value: encoding.AppendCharacterString(nil, encoding.UTF8String("\xff\xfe")),
			want:  bacnet.PropertyError(bacnet.ErrorCodeCharacterSetNotSupported),
		},
		{
			name:  "duplicate name",
			prop:  bacnet.PropObjectName,
			value: encoding.AppendCharacterString(nil, encoding.UTF8String("MV2")),
			want:  bacnet.PropertyError(bacnet.ErrorCodeDuplicateName),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCodec(t)
			r := c.Store().Record(0)
			before := r.Clone()

			index := tt.index
			if index == 0 {
				index = bacnet.ArrayAll
			}
			prio := tt.prio
			if prio == 0 {
				prio = 16
			}
			err := c.WriteProperty(&WriteRequest{
				Instance:   0,
				Property:   tt.prop,
				ArrayIndex: index,
				Priority:   prio,
				Value:      tt.value,
			})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, r.Clone())
		})
	}
}

func TestWriteUnknownObject(t *testing.T) {
	c := newTestCodec(t)
	err := write(c, 99, bacnet.PropPresentValue, 16, encoding.AppendUnsigned(nil, 1))
	assert.ErrorIs(t, err, bacnet.NewError(bacnet.ErrorClassObject, bacnet.ErrorCodeUnknownObject))
}

func TestWriteAlarmPropertyWithoutIntrinsicReporting(t *testing.T) {
	c := NewCodec(model.NewStore(1))
	err := write(c, 0, bacnet.PropTimeDelay, 16, encoding.AppendUnsigned(nil, 5))
	assert.ErrorIs(t, err, bacnet.PropertyError(bacnet.ErrorCodeUnknownProperty))
}

func TestWriteObjectNameSameObjectIsNoop(t *testing.T) {
	names := mocks.NewMockNameDirectory(t)
	cfg := mocks.NewMockConfigWriter(t)
	c := newTestCodec(t, WithNameDirectory(names), WithConfig(cfg))

	self := bacnet.ObjectID{Type: bacnet.ObjectMultiStateValue, Instance: 0}
	names.EXPECT().ObjectNameInUse("MV0").Return(self, true).Once()

	require.NoError(t, write(c, 0, bacnet.PropObjectName, 16, encoding.AppendCharacterString(nil, encoding.UTF8String("MV0"))))
	assert.Equal(t, "MV0", c.Store().Record(0).Name)
}

func TestWriteObjectNameDuplicateInDevice(t *testing.T) {
	names := mocks.NewMockNameDirectory(t)
	c := newTestCodec(t, WithNameDirectory(names))

	device := bacnet.ObjectID{Type: bacnet.ObjectType(8), Instance: 1234}
	names.EXPECT().ObjectNameInUse("Controller").Return(device, true).Once()

	err := write(c, 0, bacnet.PropObjectName, 16, encoding.AppendCharacterString(nil, encoding.UTF8String("Controller")))
	assert.ErrorIs(t, err, bacnet.PropertyError(bacnet.ErrorCodeDuplicateName))
	assert.Equal(t, "MV0", c.Store().Record(0).Name)
}

func TestWriteObjectNamePersists(t *testing.T) {
	names := mocks.NewMockNameDirectory(t)
	cfg := mocks.NewMockConfigWriter(t)
	c := newTestCodec(t, WithNameDirectory(names), WithConfig(cfg))

	names.EXPECT().ObjectNameInUse("Boiler mode").Return(bacnet.ObjectID{}, false).Once()
	cfg.EXPECT().AddSection("2").Return().Once()
	cfg.EXPECT().SetOption("2", "name", "Boiler mode").Return(nil).Once()
	cfg.EXPECT().Commit().Return(nil).Once()

	require.NoError(t, write(c, 2, bacnet.PropObjectName, 16, encoding.AppendCharacterString(nil, encoding.UTF8String("Boiler mode"))))
	assert.Equal(t, "Boiler mode", c.Store().Record(2).Name)
}

func TestWriteDescriptionCommitFailureStillSucceeds(t *testing.T) {
	cfg := mocks.NewMockConfigWriter(t)
	c := newTestCodec(t, WithConfig(cfg))

	cfg.EXPECT().AddSection("1").Return().Once()
	cfg.EXPECT().SetOption("1", "description", "Fan stage").Return(nil).Once()
	cfg.EXPECT().Commit().Return(errors.New("read-only filesystem")).Once()

	require.NoError(t, write(c, 1, bacnet.PropDescription, 16, encoding.AppendCharacterString(nil, encoding.UTF8String("Fan stage"))))
	assert.Equal(t, "Fan stage", c.Store().Record(1).Description)
}

func TestWriteSetOptionFailureSkipsCommit(t *testing.T) {
	cfg := mocks.NewMockConfigWriter(t)
	c := newTestCodec(t, WithConfig(cfg))

	cfg.EXPECT().AddSection("1").Return().Once()
	cfg.EXPECT().SetOption("1", "description", "Fan stage").Return(errors.New("no section")).Once()

	require.NoError(t, write(c, 1, bacnet.PropDescription, 16, encoding.AppendCharacterString(nil, encoding.UTF8String("Fan stage"))))
	cfg.AssertNotCalled(t, "Commit")
}

func TestWriteLogsEvent(t *testing.T) {
	events := &recordingLogger{}
	c := newTestCodec(t, WithEventLogger(events))

	require.NoError(t, write(c, 0, bacnet.PropPresentValue, 8, encoding.AppendUnsigned(nil, 2)))
	require.Error(t, write(c, 0, bacnet.PropNumberOfStates, 16, encoding.AppendUnsigned(nil, 2)))

	require.Len(t, events.events, 2)
	first := events.events[0]
	assert.Equal(t, log.SourceCodec, first.Source)
	assert.Equal(t, log.CategoryWrite, first.Category)
	require.NotNil(t, first.Write)
	assert.Equal(t, "ok", first.Write.Status)
	assert.Equal(t, uint8(8), first.Write.Priority)
	assert.Nil(t, first.Write.ArrayIndex)

	assert.Equal(t, "WRITE_ACCESS_DENIED", events.events[1].Write.Status)
}

func TestWriteReadOnlyPropertiesDenied(t *testing.T) {
	readOnly := []bacnet.PropertyID{
		bacnet.PropObjectIdentifier,
		bacnet.PropObjectType,
		bacnet.PropStatusFlags,
		bacnet.PropEventState,
		bacnet.PropNumberOfStates,
		bacnet.PropPriorityArray,
		bacnet.PropStateText,
		bacnet.PropAckedTransitions,
		bacnet.PropEventTimeStamps,
	}
	values := map[string][]byte{
		"unsigned":  encoding.AppendUnsigned(nil, 2),
		"null":      encoding.AppendNull(nil),
		"character": encoding.AppendCharacterString(nil, encoding.UTF8String("Auto")),
	}
	for _, p := range readOnly {
		for kind, value := range values {
			for _, index := range []uint32{bacnet.ArrayAll, 1} {
				name := p.String() + "/" + kind
				if index != bacnet.ArrayAll {
					name += "/indexed"
				}
				t.Run(name, func(t *testing.T) {
					c := newTestCodec(t)
					require.NoError(t, write(c, 0, bacnet.PropPresentValue, 8, encoding.AppendUnsigned(nil, 3)))
					r := c.Store().Record(0)
					before := r.Clone()
					encoded := read(t, c, 0, p, bacnet.ArrayAll)

					err := c.WriteProperty(&WriteRequest{
						Instance:   0,
						Property:   p,
						ArrayIndex: index,
						Priority:   8,
						Value:      value,
					})
					assert.ErrorIs(t, err, bacnet.PropertyError(bacnet.ErrorCodeWriteAccessDenied))
					assert.Equal(t, before, r.Clone())
					assert.Equal(t, encoded, read(t, c, 0, p, bacnet.ArrayAll))
				})
			}
		}
	}
}

func TestWriteAlarmValuesIsUnknownProperty(t *testing.T) {
	c := newTestCodec(t)
	r := c.Store().Record(0)
	r.AlarmValues = []uint32{2}
	before := r.Clone()

	err := write(c, 0, bacnet.PropAlarmValues, 16, encoding.AppendUnsigned(nil, 3))
	assert.ErrorIs(t, err, bacnet.PropertyError(bacnet.ErrorCodeUnknownProperty))
	assert.Equal(t, before, r.Clone())
}

func TestWriteObjectNameAddsMissingSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("device:\n  capacity: 4\n"), 0o644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.False(t, cfg.HasSection("3"))

	c := newTestCodec(t, WithConfig(cfg))
	require.NoError(t, write(c, 3, bacnet.PropObjectName, 16, encoding.AppendCharacterString(nil, encoding.UTF8String("Chiller"))))
	require.NoError(t, write(c, 3, bacnet.PropDescription, 16, encoding.AppendCharacterString(nil, encoding.UTF8String("Sequence"))))

	reloaded, err := config.Load(path)
	require.NoError(t, err)
	name, ok := reloaded.GetOption("3", "name")
	assert.True(t, ok)
	assert.Equal(t, "Chiller", name)
	desc, _ := reloaded.GetOption("3", "description")
	assert.Equal(t, "Sequence", desc)
}

func TestMetricsUnknownPropertiesShareSeries(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	c := newTestCodec(t, WithMetrics(m))

	for p := bacnet.PropertyID(5000); p < 5500; p++ {
		out := encoding.NewBuffer(480)
		err := c.ReadProperty(&ReadRequest{Instance: 0, Property: p, ArrayIndex: bacnet.ArrayAll}, out)
		require.Error(t, err)
	}
	read(t, c, 0, bacnet.PropPresentValue, bacnet.ArrayAll)

	assert.Equal(t, 2, testutil.CollectAndCount(m.PropertyReads))
	assert.Equal(t, 500.0, testutil.ToFloat64(m.PropertyReads.WithLabelValues(metrics.UnknownProperty, "UNKNOWN_PROPERTY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PropertyReads.WithLabelValues("present-value", "ok")))
}
