package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bacstack/msv-go/pkg/bacnet"
)

// counterValue returns the value of the series of family name whose labels
// include all of want.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	series:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue series
				}
			}
			if m.GetCounter() != nil {
				return m.GetCounter().GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "WRITE_ACCESS_DENIED", Result(bacnet.PropertyError(bacnet.ErrorCodeWriteAccessDenied)))
	assert.Equal(t, "error", Result(errors.New("boom")))
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.PropertyRead(bacnet.PropPresentValue, true, nil)
	m.PropertyRead(bacnet.PropPresentValue, true, nil)
	m.PropertyWrite(bacnet.PropObjectType, true, bacnet.PropertyError(bacnet.ErrorCodeWriteAccessDenied))
	m.Tick()
	m.Transition(bacnet.EventStateFault)
	m.AlarmAck(nil)
	m.Notification(bacnet.NotifyAckNotification)
	m.SetObjectsInAlarm(3)

	assert.Equal(t, 2.0, counterValue(t, reg, "msv_property_reads_total",
		map[string]string{"property": "present-value", "result": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "msv_property_writes_total",
		map[string]string{"property": "object-type", "result": "WRITE_ACCESS_DENIED"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "msv_ticks_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "msv_event_transitions_total",
		map[string]string{"to_state": "FAULT"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "msv_alarm_acks_total",
		map[string]string{"result": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "msv_notifications_total",
		map[string]string{"notify_type": bacnet.NotifyAckNotification.String()}))
	assert.Equal(t, 3.0, counterValue(t, reg, "msv_objects_in_alarm", nil))
}

func TestUnlistedPropertiesShareLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	for p := bacnet.PropertyID(5000); p < 5100; p++ {
		m.PropertyRead(p, false, bacnet.PropertyError(bacnet.ErrorCodeUnknownProperty))
	}
	m.PropertyWrite(bacnet.PropertyID(7777), false, nil)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "msv_property_reads_total" {
			assert.Len(t, mf.GetMetric(), 1)
		}
	}
	assert.Equal(t, 100.0, counterValue(t, reg, "msv_property_reads_total",
		map[string]string{"property": UnknownProperty, "result": "UNKNOWN_PROPERTY"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "msv_property_writes_total",
		map[string]string{"property": UnknownProperty}))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.PropertyRead(bacnet.PropPresentValue, true, nil)
	m.PropertyWrite(bacnet.PropPresentValue, true, nil)
	m.Tick()
	m.Transition(bacnet.EventStateNormal)
	m.AlarmAck(nil)
	m.Notification(bacnet.NotifyAlarm)
	m.SetObjectsInAlarm(1)
	assert.NotNil(t, m.Handler())
}

func TestHandler(t *testing.T) {
	m := New(nil)
	m.Tick()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.True(t, strings.Contains(string(body), "msv_ticks_total 1"), "body: %s", body)
}
