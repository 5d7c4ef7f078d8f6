// Package property implements ReadProperty and WriteProperty for
// Multi-state Value objects.
//
// Reads encode application-tagged values into a bounded encoding.Buffer.
// Array properties (priority-array, state-text, event-time-stamps) accept an
// array index: 0 reads the element count, 1..N one element, and
// bacnet.ArrayAll every element. Reading every element stops with
// NO_SPACE_FOR_OBJECT as soon as the next element does not fit; the elements
// already written stay in the buffer.
//
// Writes decode one application-tagged value and apply it to the record.
// A failed write leaves the record unchanged.
package property

import (
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/encoding"
	"github.com/bacstack/msv-go/pkg/log"
	"github.com/bacstack/msv-go/pkg/metrics"
	"github.com/bacstack/msv-go/pkg/model"
)

// NameDirectory answers device-wide object name lookups.
type NameDirectory interface {
	// ObjectNameInUse returns the object that has name, if any.
	ObjectNameInUse(name string) (bacnet.ObjectID, bool)
}

// ConfigWriter persists written names and descriptions.
type ConfigWriter interface {
	AddSection(section string)
	SetOption(section, key, value string) error
	Commit() error
}

// ReadRequest addresses one property of one object.
type ReadRequest struct {
	Instance uint32
	Property bacnet.PropertyID

	// ArrayIndex is bacnet.ArrayAll when no index was given.
	ArrayIndex uint32
}

// WriteRequest carries one property value to write.
type WriteRequest struct {
	Instance uint32
	Property bacnet.PropertyID

	// ArrayIndex is bacnet.ArrayAll when no index was given.
	ArrayIndex uint32

	// Priority is the command priority 1..16. Callers substitute 16 when the
	// request carries none.
	Priority uint8

	// Value is exactly one application-tagged value.
	Value []byte
}

// Codec reads and writes the properties of the records in a store.
type Codec struct {
	store   *model.Store
	names   NameDirectory
	config  ConfigWriter
	logger  *slog.Logger
	events  log.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	readers map[bacnet.PropertyID]readRule
	writers map[bacnet.PropertyID]writeRule
}

// Option configures a Codec.
type Option func(*Codec)

// WithNameDirectory sets the device-wide name lookup used for object name
// uniqueness. Without one, names are only checked within the store.
func WithNameDirectory(d NameDirectory) Option {
	return func(c *Codec) { c.names = d }
}

// WithConfig sets where written names and descriptions are persisted.
func WithConfig(w ConfigWriter) Option {
	return func(c *Codec) { c.config = w }
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Codec) { c.logger = l }
}

// WithEventLogger sets the event log that records writes.
func WithEventLogger(l log.Logger) Option {
	return func(c *Codec) { c.events = l }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Codec) { c.metrics = m }
}

// WithClock sets the time source for event log timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a codec over store.
func NewCodec(store *model.Store, opts ...Option) *Codec {
	c := &Codec{
		store:   store,
		readers: readRules(),
		writers: writeRules(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.events = log.OrNoop(c.events)
	return c
}

// Store returns the codec's object store.
func (c *Codec) Store() *model.Store {
	return c.store
}

// ReadProperty encodes the requested property into out.
func (c *Codec) ReadProperty(req *ReadRequest, out *encoding.Buffer) (err error) {
	defer func() { c.metrics.PropertyRead(req.Property, c.listed(req.Property), err) }()

	r, ok := c.store.Lookup(req.Instance)
	if !ok {
		return bacnet.NewError(bacnet.ErrorClassObject, bacnet.ErrorCodeUnknownObject)
	}
	if _, ok := c.store.Access(req.Property); !ok {
		return bacnet.PropertyError(bacnet.ErrorCodeUnknownProperty)
	}
	rule, ok := c.readers[req.Property]
	if !ok {
		return bacnet.PropertyError(bacnet.ErrorCodeUnknownProperty)
	}

	if !rule.isArray() {
		if req.ArrayIndex != bacnet.ArrayAll {
			return bacnet.PropertyError(bacnet.ErrorCodePropertyIsNotAnArray)
		}
		return put(out, rule.scalar(c, req.Instance, r))
	}
	return readArray(rule, r, req.ArrayIndex, out)
}

func readArray(rule readRule, r *model.Record, index uint32, out *encoding.Buffer) error {
	n := rule.count(r)
	switch {
	case index == 0:
		return put(out, encoding.AppendUnsigned(nil, n))
	case index == bacnet.ArrayAll:
		for i := uint32(1); i <= n; i++ {
			if err := put(out, rule.element(r, i)); err != nil {
				return err
			}
		}
		return nil
	case index <= n:
		return put(out, rule.element(r, index))
	}
	return bacnet.PropertyError(bacnet.ErrorCodeInvalidArrayIndex)
}

// put writes one encoded element, mapping a full buffer to
// NO_SPACE_FOR_OBJECT.
func put(out *encoding.Buffer, b []byte) error {
	if _, err := out.Write(b); err != nil {
		return bacnet.NewError(bacnet.ErrorClassServices, bacnet.ErrorCodeNoSpaceForObject)
	}
	return nil
}

// WriteProperty decodes req.Value and writes it to the requested property.
func (c *Codec) WriteProperty(req *WriteRequest) (err error) {
	defer func() {
		c.metrics.PropertyWrite(req.Property, c.listed(req.Property), err)
		c.logWrite(req, err)
	}()

	r, ok := c.store.Lookup(req.Instance)
	if !ok {
		return bacnet.NewError(bacnet.ErrorClassObject, bacnet.ErrorCodeUnknownObject)
	}
	access, ok := c.store.Access(req.Property)
	if !ok || !access.HasWriteRule() {
		return bacnet.PropertyError(bacnet.ErrorCodeUnknownProperty)
	}
	rule, ok := c.writers[req.Property]
	if !access.CanWrite() || !ok {
		return bacnet.PropertyError(bacnet.ErrorCodeWriteAccessDenied)
	}
	if req.ArrayIndex != bacnet.ArrayAll {
		return bacnet.PropertyError(bacnet.ErrorCodePropertyIsNotAnArray)
	}

	v, err := decodeSingle(req.Value)
	if err != nil {
		c.logger.Debug("write: decode failed",
			"object", c.store.ObjectID(req.Instance),
			"property", req.Property,
			"error", err)
		return bacnet.PropertyError(bacnet.ErrorCodeValueOutOfRange)
	}
	return rule(c, req, r, v)
}

// listed reports whether p is a property of the store's objects.
func (c *Codec) listed(p bacnet.PropertyID) bool {
	_, ok := c.store.Access(p)
	return ok
}

// decodeSingle decodes exactly one application value.
func decodeSingle(data []byte) (encoding.Value, error) {
	v, n, err := encoding.DecodeApplication(data)
	if err != nil {
		return encoding.Value{}, err
	}
	if n != len(data) {
		return encoding.Value{}, errors.New("trailing data after value")
	}
	return v, nil
}

// persist stores key of the object at index in the configuration. Failures
// are logged; the write itself has already succeeded.
func (c *Codec) persist(instance uint32, key, value string) {
	if c.config == nil {
		return
	}
	idx, _ := c.store.InstanceToIndex(instance)
	section := strconv.Itoa(int(idx))
	c.config.AddSection(section)
	if err := c.config.SetOption(section, key, value); err != nil {
		c.logger.Warn("persist option failed", "section", section, "key", key, "error", err)
		return
	}
	if err := c.config.Commit(); err != nil {
		c.logger.Warn("commit config failed", "section", section, "key", key, "error", err)
	}
}

func (c *Codec) logWrite(req *WriteRequest, err error) {
	ev := &log.WriteEvent{
		Property: req.Property,
		Priority: req.Priority,
		Data:     req.Value,
		Status:   metrics.Result(err),
	}
	if req.ArrayIndex != bacnet.ArrayAll {
		idx := req.ArrayIndex
		ev.ArrayIndex = &idx
	}
	c.events.Log(log.Event{
		Timestamp: c.now(),
		Source:    log.SourceCodec,
		Category:  log.CategoryWrite,
		Object:    c.store.ObjectID(req.Instance),
		Write:     ev,
	})
}
