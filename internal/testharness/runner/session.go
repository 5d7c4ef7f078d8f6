package runner

import (
	"fmt"
	"sync"
	"time"

	"github.com/bacstack/msv-go/internal/testharness/loader"
	"github.com/bacstack/msv-go/pkg/config"
	"github.com/bacstack/msv-go/pkg/inspect"
	"github.com/bacstack/msv-go/pkg/notification"
	"github.com/bacstack/msv-go/pkg/service"
)

const sessionKey = "session"

// manualClock is a time source that only moves when advanced.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// session is the host under test of one scenario.
type session struct {
	config    service.DeviceConfig
	clock     *manualClock
	host      *service.Host
	inspector *inspect.Inspector
	formatter *inspect.Formatter

	// deliveries collects what the router delivered since the last tick
	// step.
	deliveries []notification.Delivery
}

func newSession(tc *loader.TestCase, rc *Config, stateFile string) (*session, error) {
	options, err := config.Parse([]byte(tc.Device))
	if err != nil {
		return nil, fmt.Errorf("device configuration: %w", err)
	}
	settings, err := options.Device()
	if err != nil {
		return nil, fmt.Errorf("device configuration: %w", err)
	}

	s := &session{
		clock:     &manualClock{now: DefaultStartTime},
		formatter: inspect.NewFormatter(),
	}
	s.config = service.DeviceConfigFromSettings(settings, options)
	s.config.StateFile = stateFile
	s.config.Clock = s.clock.Now
	s.config.Logger = rc.Logger.With("test", tc.ID)
	s.config.EventLogger = rc.EventLogger

	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

// start creates the host from the session configuration. Saved runtime
// state in the state file is restored.
func (s *session) start() error {
	host, err := service.NewHost(s.config)
	if err != nil {
		return fmt.Errorf("create host: %w", err)
	}
	host.Router().OnNotification(func(d notification.Delivery) {
		s.deliveries = append(s.deliveries, d)
	})
	s.host = host
	s.inspector = inspect.NewInspector(host, host.PropertyLists())
	s.deliveries = nil
	return nil
}

// restart saves the runtime state and replaces the host with a fresh one
// built from the same configuration.
func (s *session) restart() error {
	if err := s.host.SaveState(); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return s.start()
}
