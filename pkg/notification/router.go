// Package notification routes event notifications by notification class.
//
// A notification class assigns each event transition (TO_OFFNORMAL,
// TO_FAULT, TO_NORMAL) a priority and says whether notifications for it
// must be acknowledged. The Router resolves both for every reported
// notification, stamps it with a unique ID, records it in the event log and
// hands it to the registered handlers.
package notification

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bacstack/msv-go/pkg/alarm"
	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/log"
)

// ErrUnknownClass is returned when a notification names a class the router
// does not know.
var ErrUnknownClass = errors.New("unknown notification class")

// SectionPrefix prefixes configuration sections that define a class.
const SectionPrefix = "notification-class-"

// Class is one notification class.
type Class struct {
	Number uint32

	// Priorities per transition, in transition order.
	Priorities [bacnet.TransitionCount]uint8

	// AckRequired holds the transitions whose notifications must be
	// acknowledged.
	AckRequired bacnet.EventEnable
}

// Delivery is a routed notification.
type Delivery struct {
	ID           string
	Notification alarm.Notification
}

// Handler receives routed notifications.
type Handler func(Delivery)

// Router implements alarm.Router over a table of notification classes.
type Router struct {
	mu       sync.RWMutex
	classes  map[uint32]Class
	handlers []Handler

	logger *slog.Logger
	events log.Logger
	newID  func() string
	now    func() time.Time
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithEventLogger sets the event log that records every notification.
func WithEventLogger(l log.Logger) Option {
	return func(r *Router) { r.events = l }
}

// WithClock sets the time source for event log timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Router) { r.now = now }
}

// WithIDGenerator replaces the notification ID source.
func WithIDGenerator(f func() string) Option {
	return func(r *Router) { r.newID = f }
}

// NewRouter creates a router with the given classes.
func NewRouter(classes []Class, opts ...Option) *Router {
	r := &Router{
		classes: make(map[uint32]Class, len(classes)),
		newID:   func() string { return uuid.NewString() },
		now:     time.Now,
	}
	for _, c := range classes {
		r.classes[c.Number] = c
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r.events = log.OrNoop(r.events)
	return r
}

// SetClass adds or replaces a class.
func (r *Router) SetClass(c Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[c.Number] = c
}

// Class returns the class with the given number.
func (r *Router) Class(number uint32) (Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[number]
	return c, ok
}

// OnNotification registers a handler for routed notifications.
func (r *Router) OnNotification(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, h)
}

// transitionOf maps the state a notification moves to onto its transition.
func transitionOf(to bacnet.EventState) bacnet.Transition {
	switch to {
	case bacnet.EventStateNormal:
		return bacnet.TransitionToNormal
	case bacnet.EventStateFault:
		return bacnet.TransitionToFault
	default:
		return bacnet.TransitionToOffnormal
	}
}

// Report implements alarm.Router.
func (r *Router) Report(n alarm.Notification) (alarm.Routing, error) {
	r.mu.RLock()
	class, ok := r.classes[n.NotificationClass]
	handlers := r.handlers
	r.mu.RUnlock()

	if !ok {
		return alarm.Routing{}, fmt.Errorf("%w: %d", ErrUnknownClass, n.NotificationClass)
	}

	t := transitionOf(n.ToState)
	routing := alarm.Routing{
		Priority:    class.Priorities[t],
		AckRequired: n.NotifyType != bacnet.NotifyAckNotification && class.AckRequired.Has(t),
	}
	n.Priority = routing.Priority
	n.AckRequired = routing.AckRequired

	d := Delivery{ID: r.newID(), Notification: n}
	r.events.Log(log.Event{
		Timestamp: r.now(),
		EventID:   d.ID,
		Source:    log.SourceRouter,
		Category:  log.CategoryNotification,
		Object:    n.Object,
		Notification: &log.NotificationEvent{
			NotificationClass: n.NotificationClass,
			Priority:          n.Priority,
			NotifyType:        n.NotifyType,
			EventType:         n.EventType,
			FromState:         n.FromState,
			ToState:           n.ToState,
			Message:           n.MessageText,
			AckRequired:       n.AckRequired,
			ExceedingValue:    n.ExceedingValue,
			StatusFlags:       n.StatusFlags.Bits(),
		},
	})
	r.logger.Debug("notification routed",
		"id", d.ID,
		"object", n.Object,
		"class", n.NotificationClass,
		"to", n.ToState,
		"priority", n.Priority,
		"ack_required", n.AckRequired)

	for _, h := range handlers {
		h(d)
	}
	return routing, nil
}

// Priorities implements alarm.Router. Unknown classes report zero
// priorities.
func (r *Router) Priorities(class uint32) [bacnet.TransitionCount]uint8 {
	c, _ := r.Class(class)
	return c.Priorities
}

// Options is the read side of the configuration.
type Options interface {
	Sections() []string
	GetList(section, key string) ([]string, bool)
}

// LoadClasses reads every "notification-class-<n>" section. Each has a
// three-element "priority" list and an optional three-element
// "ack_required" list of booleans, both in transition order.
func LoadClasses(cfg Options) ([]Class, error) {
	var classes []Class
	for _, section := range cfg.Sections() {
		suffix, ok := strings.CutPrefix(section, SectionPrefix)
		if !ok {
			continue
		}
		number, err := strconv.ParseUint(suffix, 10, 22)
		if err != nil {
			return nil, fmt.Errorf("section %q: invalid class number: %w", section, err)
		}
		c := Class{Number: uint32(number)}

		if prios, ok := cfg.GetList(section, "priority"); ok {
			if len(prios) != bacnet.TransitionCount {
				return nil, fmt.Errorf("section %q: want %d priorities, got %d", section, bacnet.TransitionCount, len(prios))
			}
			for i, p := range prios {
				v, err := strconv.ParseUint(p, 10, 8)
				if err != nil {
					return nil, fmt.Errorf("section %q: priority %q: %w", section, p, err)
				}
				c.Priorities[i] = uint8(v)
			}
		}
		if acks, ok := cfg.GetList(section, "ack_required"); ok {
			if len(acks) != bacnet.TransitionCount {
				return nil, fmt.Errorf("section %q: want %d ack_required flags, got %d", section, bacnet.TransitionCount, len(acks))
			}
			for i, a := range acks {
				set, err := strconv.ParseBool(a)
				if err != nil {
					return nil, fmt.Errorf("section %q: ack_required %q: %w", section, a, err)
				}
				if set {
					c.AckRequired |= 1 << bacnet.Transition(i)
				}
			}
		}
		classes = append(classes, c)
	}
	return classes, nil
}
