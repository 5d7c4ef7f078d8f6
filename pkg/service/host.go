package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/bacstack/msv-go/pkg/alarm"
	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/config"
	"github.com/bacstack/msv-go/pkg/device"
	"github.com/bacstack/msv-go/pkg/encoding"
	"github.com/bacstack/msv-go/pkg/log"
	"github.com/bacstack/msv-go/pkg/model"
	"github.com/bacstack/msv-go/pkg/notification"
	"github.com/bacstack/msv-go/pkg/persistence"
	"github.com/bacstack/msv-go/pkg/priority"
	"github.com/bacstack/msv-go/pkg/property"
)

// Host owns a Multi-state Value object store and serializes access to it.
type Host struct {
	mu sync.Mutex

	config DeviceConfig
	state  ServiceState

	store  *model.Store
	device *device.Device
	codec  *property.Codec
	engine *alarm.Engine
	router *notification.Router
	saved  *persistence.DeviceStateStore

	logger *slog.Logger
	events log.Logger
	now    func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHost creates the store, populates it from config.Options, restores any
// saved runtime state and wires the codec, engine and router.
func NewHost(cfg DeviceConfig) (*Host, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := &Host{
		config: cfg,
		state:  StateIdle,
		logger: cfg.Logger,
		events: log.OrNoop(cfg.EventLogger),
		now:    cfg.Clock,
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if h.now == nil {
		h.now = time.Now
	}

	var storeOpts []model.Option
	if cfg.IntrinsicReporting {
		storeOpts = append(storeOpts, model.WithIntrinsicReporting())
	}
	h.store = model.NewStore(cfg.Capacity, storeOpts...)

	dev, err := device.New(cfg.Instance, cfg.Name, device.WithClock(h.now))
	if err != nil {
		return nil, err
	}
	if err := dev.Register(bacnet.ObjectMultiStateValue, h.store); err != nil {
		return nil, err
	}
	h.device = dev

	var classes []notification.Class
	if cfg.Options != nil {
		if err := config.Populate(h.store, cfg.Options, h.logger); err != nil {
			return nil, fmt.Errorf("populate objects: %w", err)
		}
		if classes, err = notification.LoadClasses(cfg.Options); err != nil {
			return nil, fmt.Errorf("load notification classes: %w", err)
		}
	}

	h.router = notification.NewRouter(classes,
		notification.WithLogger(h.logger),
		notification.WithEventLogger(h.events),
		notification.WithClock(h.now))

	codecOpts := []property.Option{
		property.WithNameDirectory(dev),
		property.WithLogger(h.logger),
		property.WithEventLogger(h.events),
		property.WithMetrics(cfg.Metrics),
		property.WithClock(h.now),
	}
	if cfg.Options != nil {
		codecOpts = append(codecOpts, property.WithConfig(cfg.Options))
	}
	h.codec = property.NewCodec(h.store, codecOpts...)

	h.engine = alarm.NewEngine(h.store, h.router,
		alarm.WithClock(h.now),
		alarm.WithLogger(h.logger),
		alarm.WithEventLogger(h.events),
		alarm.WithMetrics(cfg.Metrics))

	if cfg.StateFile != "" {
		h.saved = persistence.NewDeviceStateStore(cfg.StateFile)
		if err := h.restore(); err != nil {
			return nil, fmt.Errorf("restore state: %w", err)
		}
	}

	h.logger.Info("host created",
		"device", dev.ObjectID(),
		"objects", h.store.Count(),
		"intrinsic_reporting", cfg.IntrinsicReporting)
	return h, nil
}

func (h *Host) restore() error {
	state, err := h.saved.Load()
	if err != nil || state == nil {
		return err
	}
	if state.DeviceInstance != h.config.Instance {
		h.logger.Warn("ignoring state saved by another device",
			"path", h.saved.Path(),
			"saved_instance", state.DeviceInstance)
		return nil
	}
	n, err := persistence.Restore(h.store, state.Objects)
	if err != nil {
		return err
	}
	h.logger.Info("runtime state restored", "path", h.saved.Path(), "objects", n, "saved_at", state.SavedAt)
	return nil
}

// Device returns the device object.
func (h *Host) Device() *device.Device {
	return h.device
}

// Router returns the notification router. Register delivery handlers on it
// before Start. Handlers run with the host lock held and must not call back
// into the Host.
func (h *Host) Router() *notification.Router {
	return h.router
}

// PropertyLists returns the properties every object supports.
func (h *Host) PropertyLists() model.PropertyLists {
	return h.store.PropertyLists()
}

// State returns the host state.
func (h *Host) State() ServiceState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// ReadProperty encodes one property into out.
func (h *Host) ReadProperty(req *property.ReadRequest, out *encoding.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.codec.ReadProperty(req, out)
}

// WriteProperty writes one property. A zero priority means the lowest
// priority, 16.
func (h *Host) WriteProperty(req *property.WriteRequest) error {
	r := *req
	if r.Priority == 0 {
		r.Priority = priority.MaxPriority
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.codec.WriteProperty(&r)
}

// AcknowledgeAlarm acknowledges a transition of one object.
func (h *Host) AcknowledgeAlarm(req *alarm.AckRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.AcknowledgeAlarm(req)
}

// EventInformation returns the summaries of every object that is not NORMAL
// or has unacknowledged transitions, in instance order.
func (h *Host) EventInformation() []alarm.EventSummary {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []alarm.EventSummary
	for i := model.Index(0); ; i++ {
		s, status := h.engine.EventInformation(i)
		if status == alarm.ListEnd {
			return out
		}
		if status == alarm.ListActive {
			out = append(out, s)
		}
	}
}

// AlarmSummary returns the summaries of every object in alarm, in instance
// order.
func (h *Host) AlarmSummary() []alarm.AlarmSummary {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []alarm.AlarmSummary
	for i := model.Index(0); ; i++ {
		s, status := h.engine.AlarmSummary(i)
		if status == alarm.ListEnd {
			return out
		}
		if status == alarm.ListActive {
			out = append(out, s)
		}
	}
}

// Tick runs the event state machine once over every object and returns the
// reported notifications.
func (h *Host) Tick() []alarm.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.TickAll()
}

// Objects lists every object.
func (h *Host) Objects() []ObjectInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]ObjectInfo, 0, h.store.Count())
	for i := 0; i < h.store.Count(); i++ {
		idx := model.Index(i)
		r := h.store.Record(idx)
		pv := priority.PresentValue(r)
		info := ObjectInfo{
			Object:       h.store.ObjectID(h.store.IndexToInstance(idx)),
			Name:         r.Name,
			PresentValue: pv,
			OutOfService: r.OutOfService,
			EventState:   r.EventState,
		}
		if r.ValidState(pv) {
			info.StateText = r.StateText[pv-1]
		}
		out = append(out, info)
	}
	return out
}

// Start begins the tick loop.
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == StateRunning {
		return ErrAlreadyStarted
	}
	ctx, h.cancel = context.WithCancel(ctx)
	h.state = StateRunning

	h.wg.Add(1)
	go h.tickLoop(ctx)

	h.logger.Info("host started", "tick_interval", h.config.TickInterval)
	return nil
}

// Stop ends the tick loop and saves the runtime state.
func (h *Host) Stop() error {
	h.mu.Lock()
	if h.state != StateRunning {
		h.mu.Unlock()
		return ErrNotStarted
	}
	h.state = StateStopped
	cancel := h.cancel
	h.mu.Unlock()

	cancel()
	h.wg.Wait()

	h.logger.Info("host stopped")
	return h.SaveState()
}

// Run starts the host, blocks until ctx is done and stops it.
func (h *Host) Run(ctx context.Context) error {
	if err := h.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return h.Stop()
}

func (h *Host) tickLoop(ctx context.Context) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, n := range h.Tick() {
				h.logger.Debug("tick notification",
					"object", n.Object,
					"from", n.FromState,
					"to", n.ToState,
					"notify_type", n.NotifyType)
			}
		}
	}
}

// SaveState writes the runtime state to the state file, if one is
// configured.
func (h *Host) SaveState() error {
	if h.saved == nil {
		return nil
	}
	h.mu.Lock()
	state := &persistence.DeviceState{
		SavedAt:        h.now(),
		DeviceInstance: h.config.Instance,
		Objects:        persistence.Snapshot(h.store),
	}
	h.mu.Unlock()

	if err := h.saved.Save(state); err != nil {
		h.logger.Error("save state failed", "path", h.saved.Path(), "error", err)
		return err
	}
	h.logger.Debug("runtime state saved", "path", h.saved.Path(), "objects", len(state.Objects))
	return nil
}
