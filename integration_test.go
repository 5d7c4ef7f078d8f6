package msv_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bacstack/msv-go/pkg/alarm"
	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/config"
	"github.com/bacstack/msv-go/pkg/encoding"
	"github.com/bacstack/msv-go/pkg/inspect"
	"github.com/bacstack/msv-go/pkg/log"
	"github.com/bacstack/msv-go/pkg/metrics"
	"github.com/bacstack/msv-go/pkg/notification"
	"github.com/bacstack/msv-go/pkg/property"
	"github.com/bacstack/msv-go/pkg/service"
)

const deviceConfig = `
device:
  instance: 260001
  name: boiler-room
  capacity: 2
  intrinsic_reporting: true
default:
  state: [Off, On, Fault]
  alarmstate: [Fault]
"0":
  name: Boiler pump
  value: 2
  time_delay: 2
  notification_class: 3
"1":
  name: Mixing valve
notification-class-3:
  priority: [40, 50, 60]
  ack_required: [false, true, false]
`

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testDevice struct {
	host       *service.Host
	deliveries []notification.Delivery
}

func newTestDevice(t *testing.T, configPath string, clock *fakeClock, events log.Logger, m *metrics.Metrics) *testDevice {
	t.Helper()

	store, err := config.Load(configPath)
	require.NoError(t, err)
	settings, err := store.Device()
	require.NoError(t, err)
	settings.StateFile = filepath.Join(filepath.Dir(configPath), "state.json")

	cfg := service.DeviceConfigFromSettings(settings, store)
	cfg.Clock = clock.Now
	cfg.EventLogger = events
	cfg.Metrics = m

	host, err := service.NewHost(cfg)
	require.NoError(t, err)

	d := &testDevice{host: host}
	host.Router().OnNotification(func(del notification.Delivery) {
		d.deliveries = append(d.deliveries, del)
	})
	return d
}

func (d *testDevice) read(t *testing.T, instance uint32, p bacnet.PropertyID, index uint32) encoding.Value {
	t.Helper()
	out := encoding.NewBuffer(inspect.DefaultBufferSize)
	require.NoError(t, d.host.ReadProperty(&property.ReadRequest{Instance: instance, Property: p, ArrayIndex: index}, out))
	v, _, err := encoding.DecodeApplication(out.Bytes())
	require.NoError(t, err)
	return v
}

func (d *testDevice) write(instance uint32, p bacnet.PropertyID, prio uint8, value []byte) error {
	return d.host.WriteProperty(&property.WriteRequest{
		Instance:   instance,
		Property:   p,
		ArrayIndex: bacnet.ArrayAll,
		Priority:   prio,
		Value:      value,
	})
}

// TestE2E_AlarmLifecycle drives one object through an alarm, its
// acknowledgment and a restart, and checks the event log, the metrics and
// the persisted configuration along the way.
func TestE2E_AlarmLifecycle(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "device.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(deviceConfig), 0o600))

	logPath := filepath.Join(dir, "events.cbor")
	events, err := log.NewFileLogger(logPath)
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	clock := &fakeClock{now: time.Date(2026, 3, 2, 6, 30, 0, 0, time.UTC)}
	dev := newTestDevice(t, configPath, clock, events, m)

	// Configured state.
	assert.Equal(t, uint32(2), dev.read(t, 0, bacnet.PropPresentValue, bacnet.ArrayAll).Unsigned)
	assert.Equal(t, "Boiler pump", dev.read(t, 0, bacnet.PropObjectName, bacnet.ArrayAll).CharacterString.Value)
	assert.Equal(t, "Fault", dev.read(t, 0, bacnet.PropStateText, 3).CharacterString.Value)

	// Rename through the codec; the name is written back to the file.
	require.NoError(t, dev.write(0, bacnet.PropObjectName, 16,
		encoding.AppendCharacterString(nil, encoding.UTF8String("Boiler pump 1"))))
	err = dev.write(1, bacnet.PropObjectName, 16,
		encoding.AppendCharacterString(nil, encoding.UTF8String("Boiler pump 1")))
	assert.ErrorIs(t, err, bacnet.PropertyError(bacnet.ErrorCodeDuplicateName))

	// Command the alarm value. A time delay of 2 holds the transition for
	// one tick.
	require.NoError(t, dev.write(0, bacnet.PropPresentValue, 5, encoding.AppendUnsigned(nil, 3)))
	assert.Empty(t, dev.host.Tick())
	clock.Advance(time.Second)
	reported := dev.host.Tick()
	require.Len(t, reported, 1)
	assert.Equal(t, bacnet.EventStateFault, reported[0].ToState)
	assert.Equal(t, uint8(50), reported[0].Priority)
	assert.True(t, reported[0].AckRequired)
	require.Len(t, dev.deliveries, 1)
	assert.NotEmpty(t, dev.deliveries[0].ID)

	alarms := dev.host.AlarmSummary()
	require.Len(t, alarms, 1)
	assert.Equal(t, [bacnet.TransitionCount]bool{true, false, true}, alarms[0].AcknowledgedTransitions)

	// Acknowledge and observe the ack notification.
	clock.Advance(time.Minute)
	require.NoError(t, dev.host.AcknowledgeAlarm(&alarm.AckRequest{
		Object:     bacnet.ObjectID{Type: bacnet.ObjectMultiStateValue, Instance: 0},
		EventState: bacnet.EventStateNormal,
		TimeStamp:  bacnet.DateTimeStamp(dev.host.Device().DateTime()),
		Source:     "operator",
	}))
	reported = dev.host.Tick()
	require.Len(t, reported, 1)
	assert.Equal(t, bacnet.NotifyAckNotification, reported[0].NotifyType)

	// Run saves the runtime state when it stops.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, dev.host.Run(ctx))
	require.NoError(t, events.Close())

	// Restart from the same files.
	restarted := newTestDevice(t, configPath, clock, nil, nil)
	assert.Equal(t, "Boiler pump 1", restarted.read(t, 0, bacnet.PropObjectName, bacnet.ArrayAll).CharacterString.Value)
	assert.Equal(t, uint32(3), restarted.read(t, 0, bacnet.PropPresentValue, bacnet.ArrayAll).Unsigned)
	assert.Equal(t, uint32(bacnet.EventStateFault), restarted.read(t, 0, bacnet.PropEventState, bacnet.ArrayAll).Enumerated)
	assert.Empty(t, restarted.host.Tick())

	info := restarted.host.EventInformation()
	require.Len(t, info, 1)
	assert.Equal(t, [bacnet.TransitionCount]bool{true, true, true}, info[0].AcknowledgedTransitions)
	assert.Equal(t, [bacnet.TransitionCount]uint8{40, 50, 60}, info[0].EventPriorities)

	// Event log.
	reader, err := log.NewReader(logPath)
	require.NoError(t, err)
	defer reader.Close()
	logged, err := reader.ReadAll()
	require.NoError(t, err)

	counts := map[log.Category]int{}
	for _, ev := range logged {
		counts[ev.Category]++
		if ev.Category == log.CategoryState {
			assert.Equal(t, bacnet.EventStateFault, ev.StateChange.NewState)
		}
	}
	assert.Equal(t, 1, counts[log.CategoryState])
	assert.Equal(t, 1, counts[log.CategoryAck])
	assert.Equal(t, 3, counts[log.CategoryWrite])

	// Metrics.
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `msv_event_transitions_total{to_state="FAULT"} 1`)
	assert.Contains(t, string(body), `msv_alarm_acks_total{result="ok"} 1`)
	assert.Contains(t, string(body), `msv_property_writes_total{property="object-name",result="DUPLICATE_NAME"} 1`)
	assert.Contains(t, string(body), "msv_objects_in_alarm 1")
}

// TestE2E_WithoutReporting checks that a device without intrinsic reporting
// exposes only the base properties and never leaves NORMAL.
func TestE2E_WithoutReporting(t *testing.T) {
	host, err := service.NewHost(service.DefaultDeviceConfig())
	require.NoError(t, err)

	out := encoding.NewBuffer(inspect.DefaultBufferSize)
	err = host.ReadProperty(&property.ReadRequest{Instance: 0, Property: bacnet.PropTimeDelay, ArrayIndex: bacnet.ArrayAll}, out)
	assert.ErrorIs(t, err, bacnet.PropertyError(bacnet.ErrorCodeUnknownProperty))

	assert.Empty(t, host.Tick())
	assert.Empty(t, host.EventInformation())
	assert.Len(t, host.Objects(), 8)
	for _, o := range host.Objects() {
		assert.Equal(t, bacnet.EventStateNormal, o.EventState)
	}
}
