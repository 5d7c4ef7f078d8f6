package alarm

import (
	"io"
	"log/slog"
	"time"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/log"
	"github.com/bacstack/msv-go/pkg/metrics"
	"github.com/bacstack/msv-go/pkg/model"
	"github.com/bacstack/msv-go/pkg/priority"
)

// Notification message texts.
const (
	MessageToFault         = "goes to fault"
	MessageToNormal        = "back to normal from fault"
	MessageAckNotification = "ack notification"
)

// Notification is an event notification produced by a committed transition
// or an acknowledgment.
type Notification struct {
	Object            bacnet.ObjectID
	TimeStamp         bacnet.TimeStamp
	NotificationClass uint32
	EventType         bacnet.EventType
	MessageText       string
	NotifyType        bacnet.NotifyType
	FromState         bacnet.EventState
	ToState           bacnet.EventState

	// Out-of-range parameters. Not set on ack notifications.
	ExceedingValue uint32
	StatusFlags    bacnet.StatusFlags

	// Filled from the Router's answer.
	Priority    uint8
	AckRequired bool
}

// Routing is the Router's answer to a reported notification.
type Routing struct {
	AckRequired bool
	Priority    uint8
}

// Router delivers notifications according to their notification class.
type Router interface {
	// Report delivers n and returns whether the transition must be
	// acknowledged and the priority it was sent with.
	Report(n Notification) (Routing, error)

	// Priorities returns the per-transition event priorities of a
	// notification class, in transition order.
	Priorities(class uint32) [bacnet.TransitionCount]uint8
}

// Engine runs the event state machine and answers alarm queries for the
// records of a store.
type Engine struct {
	store   *model.Store
	router  Router
	now     func() time.Time
	logger  *slog.Logger
	events  log.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source for notification and acknowledgment
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithEventLogger sets the event log that records state changes and acks.
func WithEventLogger(l log.Logger) Option {
	return func(e *Engine) { e.events = l }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates an engine for store that reports to router.
func NewEngine(store *model.Store, router Router, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		router: router,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.events = log.OrNoop(e.events)
	return e
}

// Tick evaluates the object once. It returns the notification that was
// reported, or nil if nothing happened this tick. Tick is a no-op on stores
// without intrinsic reporting.
func (e *Engine) Tick(instance uint32) *Notification {
	if !e.store.IntrinsicReporting() {
		return nil
	}
	r, ok := e.store.Lookup(instance)
	if !ok {
		return nil
	}
	e.metrics.Tick()

	if r.AckNotify.Pending {
		return e.ackNotification(instance, r)
	}

	from := r.EventState
	to, changed := step(r)
	if !changed {
		return nil
	}
	return e.commit(instance, r, from, to)
}

// TickAll ticks every object in the store and returns the reported
// notifications in instance order.
func (e *Engine) TickAll() []Notification {
	var out []Notification
	inAlarm := 0
	for i := 0; i < e.store.Count(); i++ {
		instance := e.store.IndexToInstance(model.Index(i))
		if n := e.Tick(instance); n != nil {
			out = append(out, *n)
		}
		if r := e.store.Record(model.Index(i)); r.EventState != bacnet.EventStateNormal {
			inAlarm++
		}
	}
	if e.store.IntrinsicReporting() {
		e.metrics.SetObjectsInAlarm(inAlarm)
	}
	return out
}

// step advances the time delay of r and applies a transition once the delay
// has run out. It reports the new state and whether it changed.
func step(r *model.Record) (bacnet.EventState, bool) {
	pv := priority.PresentValue(r)

	var target bacnet.EventState
	var qualifies bool
	switch r.EventState {
	case bacnet.EventStateNormal:
		target = bacnet.EventStateFault
		qualifies = r.IsAlarmValue(pv) && r.EventEnable.Has(bacnet.TransitionToOffnormal)
	case bacnet.EventStateFault:
		target = bacnet.EventStateNormal
		qualifies = !r.IsAlarmValue(pv) && r.EventEnable.Has(bacnet.TransitionToNormal)
	default:
		return r.EventState, false
	}

	if !qualifies {
		r.RemainingTimeDelay = r.TimeDelay
		return r.EventState, false
	}
	if r.RemainingTimeDelay > 0 {
		r.RemainingTimeDelay--
	}
	if r.RemainingTimeDelay > 0 {
		return r.EventState, false
	}
	r.EventState = target
	r.RemainingTimeDelay = r.TimeDelay
	return target, true
}

func (e *Engine) commit(instance uint32, r *model.Record, from, to bacnet.EventState) *Notification {
	now := bacnet.DateTimeFromTime(e.now())
	n := Notification{
		Object:            e.store.ObjectID(instance),
		TimeStamp:         bacnet.DateTimeStamp(now),
		NotificationClass: r.NotificationClass,
		EventType:         bacnet.EventTypeOutOfRange,
		NotifyType:        r.NotifyType,
		FromState:         from,
		ToState:           to,
		ExceedingValue:    priority.PresentValue(r),
		StatusFlags:       r.StatusFlags(true),
	}

	var transition bacnet.Transition
	if to == bacnet.EventStateFault {
		transition = bacnet.TransitionToFault
		n.MessageText = MessageToFault
	} else {
		transition = bacnet.TransitionToNormal
		n.MessageText = MessageToNormal
	}
	r.EventTimeStamps[transition] = now

	e.logger.Info("event state changed",
		"object", n.Object,
		"from", from,
		"to", to,
		"value", n.ExceedingValue)
	e.events.Log(log.Event{
		Timestamp: e.now(),
		Source:    log.SourceEngine,
		Category:  log.CategoryState,
		Object:    n.Object,
		StateChange: &log.StateChangeEvent{
			OldState: from,
			NewState: to,
			Reason:   n.MessageText,
		},
	})
	e.metrics.Transition(to)

	e.report(&n)
	if n.AckRequired {
		r.AckedTransitions[transition] = model.AckedTransition{Acked: false, TimeStamp: now}
	}
	return &n
}

func (e *Engine) ackNotification(instance uint32, r *model.Record) *Notification {
	acked := r.AckNotify.EventState
	r.AckNotify = model.PendingAck{}

	n := Notification{
		Object:            e.store.ObjectID(instance),
		TimeStamp:         bacnet.DateTimeStamp(bacnet.DateTimeFromTime(e.now())),
		NotificationClass: r.NotificationClass,
		EventType:         bacnet.EventTypeOutOfRange,
		MessageText:       MessageAckNotification,
		NotifyType:        bacnet.NotifyAckNotification,
		FromState:         r.EventState,
		ToState:           acked,
	}
	e.report(&n)
	// Ack notifications never require acknowledgment themselves.
	n.AckRequired = false
	return &n
}

// report hands n to the router and records its answer in n.
func (e *Engine) report(n *Notification) {
	e.metrics.Notification(n.NotifyType)
	if e.router == nil {
		return
	}
	routing, err := e.router.Report(*n)
	if err != nil {
		e.logger.Warn("report notification failed",
			"object", n.Object,
			"class", n.NotificationClass,
			"error", err)
		return
	}
	n.AckRequired = routing.AckRequired
	n.Priority = routing.Priority
}
