// Package metrics exposes prometheus collectors for the object host.
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bacstack/msv-go/pkg/bacnet"
)

const (
	metricPrefix = "msv_"

	resultOK    = "ok"
	resultError = "error"
)

// Metrics bundles the host metrics.
type Metrics struct {
	PropertyReads  *prometheus.CounterVec
	PropertyWrites *prometheus.CounterVec
	Ticks          prometheus.Counter
	Transitions    *prometheus.CounterVec
	AlarmAcks      *prometheus.CounterVec
	Notifications  *prometheus.CounterVec
	ObjectsInAlarm prometheus.Gauge

	gatherer prometheus.Gatherer
}

// New constructs the metrics and registers them with reg. A nil reg gets a
// fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		PropertyReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "property_reads_total",
				Help: "Total property reads by property and result",
			},
			[]string{"property", "result"},
		),
		PropertyWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "property_writes_total",
				Help: "Total property writes by property and result",
			},
			[]string{"property", "result"},
		),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "ticks_total",
			Help: "Total event state machine ticks",
		}),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "event_transitions_total",
				Help: "Total committed event state transitions by target state",
			},
			[]string{"to_state"},
		),
		AlarmAcks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alarm_acks_total",
				Help: "Total alarm acknowledgments by result",
			},
			[]string{"result"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "notifications_total",
				Help: "Total notifications handed to the router by notify type",
			},
			[]string{"notify_type"},
		),
		ObjectsInAlarm: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "objects_in_alarm",
			Help: "Objects whose event state is not NORMAL",
		}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.PropertyReads,
		m.PropertyWrites,
		m.Ticks,
		m.Transitions,
		m.AlarmAcks,
		m.Notifications,
		m.ObjectsInAlarm,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// UnknownProperty is the property label of requests for properties the
// object does not have.
const UnknownProperty = "unknown"

func propertyLabel(p bacnet.PropertyID, listed bool) string {
	if !listed {
		return UnknownProperty
	}
	return p.String()
}

// PropertyRead counts a read of p. listed reports whether p is one of the
// object's properties; other ids share one label.
func (m *Metrics) PropertyRead(p bacnet.PropertyID, listed bool, err error) {
	if m == nil {
		return
	}
	m.PropertyReads.WithLabelValues(propertyLabel(p, listed), Result(err)).Inc()
}

// PropertyWrite counts a write of p, labelled like PropertyRead.
func (m *Metrics) PropertyWrite(p bacnet.PropertyID, listed bool, err error) {
	if m == nil {
		return
	}
	m.PropertyWrites.WithLabelValues(propertyLabel(p, listed), Result(err)).Inc()
}

// Tick counts one state machine tick.
func (m *Metrics) Tick() {
	if m == nil {
		return
	}
	m.Ticks.Inc()
}

// Transition counts a committed transition to state.
func (m *Metrics) Transition(to bacnet.EventState) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to.String()).Inc()
}

// AlarmAck counts an acknowledgment attempt.
func (m *Metrics) AlarmAck(err error) {
	if m == nil {
		return
	}
	m.AlarmAcks.WithLabelValues(Result(err)).Inc()
}

// Notification counts a notification of type t.
func (m *Metrics) Notification(t bacnet.NotifyType) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(t.String()).Inc()
}

// SetObjectsInAlarm sets the in-alarm gauge.
func (m *Metrics) SetObjectsInAlarm(n int) {
	if m == nil {
		return
	}
	m.ObjectsInAlarm.Set(float64(n))
}

// Result maps an operation error to a result label: "ok", the BACnet error
// code name, or "error".
func Result(err error) string {
	if err == nil {
		return resultOK
	}
	var be *bacnet.Error
	if errors.As(err, &be) {
		return be.Code.String()
	}
	return resultError
}
