package interactive

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bacstack/msv-go/pkg/config"
	"github.com/bacstack/msv-go/pkg/inspect"
	"github.com/bacstack/msv-go/pkg/service"
)

const shellConfig = `
device:
  instance: 17
  name: shell
  capacity: 1
  intrinsic_reporting: true
default:
  state: [Off, Alarm, Auto]
  alarmstate: [Alarm]
"0":
  name: Pump
  time_delay: 0
  notification_class: 1
notification-class-1:
  priority: [10, 20, 30]
  ack_required: [true, true, true]
`

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()

	store, err := config.Parse([]byte(shellConfig))
	require.NoError(t, err)
	settings, err := store.Device()
	require.NoError(t, err)

	cfg := service.DeviceConfigFromSettings(settings, store)
	cfg.Clock = func() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC) }
	host, err := service.NewHost(cfg)
	require.NoError(t, err)

	var out bytes.Buffer
	s := &Shell{out: &out, formatter: inspect.NewFormatter()}
	s.Attach(host)
	return s, &out
}

func TestShellReadWrite(t *testing.T) {
	s, out := newTestShell(t)

	require.True(t, s.Exec("write 0/present-value 3 8"))
	assert.Contains(t, out.String(), "OK")

	out.Reset()
	s.Exec("read 0/present-value")
	assert.Equal(t, "0/present-value = 3\n", out.String())

	out.Reset()
	s.Exec("read 0/priority-array/8")
	assert.Equal(t, "0/priority-array/8 = 3\n", out.String())

	out.Reset()
	s.Exec("write 0/present-value 4")
	assert.Contains(t, out.String(), "Write failed")

	out.Reset()
	s.Exec("write 0/present-value 2 17")
	assert.Contains(t, out.String(), "Priority must be 1-16")
}

func TestShellList(t *testing.T) {
	s, out := newTestShell(t)

	s.Exec("list")
	assert.Contains(t, out.String(), "Pump")
	assert.Contains(t, out.String(), "1 (Off)")
	assert.Contains(t, out.String(), "NORMAL")
}

func TestShellAlarmFlow(t *testing.T) {
	s, out := newTestShell(t)

	s.Exec("alarms")
	assert.Contains(t, out.String(), "No active alarms")

	s.Exec("write 0/present-value 2 8")
	out.Reset()
	s.Exec("tick")
	assert.Contains(t, out.String(), "[ALARM]")
	assert.Contains(t, out.String(), "NORMAL -> FAULT priority 20 ack-required")

	out.Reset()
	s.Exec("alarms")
	assert.Contains(t, out.String(), "FAULT acked {T,F,T}")

	out.Reset()
	s.Exec("events")
	assert.Contains(t, out.String(), "FAULT (ALARM)")
	assert.Contains(t, out.String(), "priorities:     [10 20 30]")

	out.Reset()
	s.Exec("ack 0 normal")
	assert.Equal(t, "OK\n", out.String())

	out.Reset()
	s.Exec("ack 0 normal")
	assert.Contains(t, out.String(), "Ack failed")

	out.Reset()
	s.Exec("tick")
	assert.Contains(t, out.String(), "[ACK_NOTIFICATION]")
}

func TestShellUsage(t *testing.T) {
	s, out := newTestShell(t)

	tests := []struct {
		line string
		want string
	}{
		{"read", "Usage: read <path>"},
		{"write 0/present-value", "Usage: write <path> <value> [priority]"},
		{"ack 0", "Usage: ack <instance> <state>"},
		{"ack x normal", "Invalid instance"},
		{"ack 0 alarm", "Invalid state"},
		{"read 0//x", "Invalid path"},
		{"inspect 9", "Error:"},
		{"bogus", "Unknown command: bogus"},
	}
	for _, tt := range tests {
		out.Reset()
		assert.True(t, s.Exec(tt.line), tt.line)
		assert.Contains(t, out.String(), tt.want, tt.line)
	}

	assert.False(t, s.Exec("quit"))
	assert.True(t, s.Exec("   "))
}

func TestShellInspect(t *testing.T) {
	s, out := newTestShell(t)

	s.Exec("inspect 0")
	assert.Contains(t, out.String(), `object-name: "Pump"`)
	assert.Contains(t, out.String(), "event-state: NORMAL")

	out.Reset()
	s.Exec("inspect 0/object-name")
	assert.Equal(t, "0/object-name = \"Pump\"\n", out.String())
}
