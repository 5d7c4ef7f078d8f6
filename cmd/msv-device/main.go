// Command msv-device runs a BACnet device hosting Multi-state Value objects.
//
// The device loads its objects and notification classes from a YAML
// configuration file, runs the intrinsic reporting tick loop and optionally
// exposes Prometheus metrics and an interactive shell.
//
// Usage:
//
//	msv-device [flags]
//
// Examples:
//
//	# Run with a configuration file
//	msv-device --config /etc/msv/device.yaml
//
//	# Inspect and drive the objects from a shell
//	msv-device --config device.yaml --interactive --log-level debug
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/bacstack/msv-go/cmd/msv-device/interactive"
	"github.com/bacstack/msv-go/pkg/config"
	"github.com/bacstack/msv-go/pkg/log"
	"github.com/bacstack/msv-go/pkg/metrics"
	"github.com/bacstack/msv-go/pkg/service"
	"github.com/bacstack/msv-go/pkg/version"
)

// options holds the command line flags.
type options struct {
	ConfigFile  string
	LogLevel    string
	MetricsAddr string
	StateFile   string
	EventLog    string
	Interactive bool
}

var (
	opts options

	rootCmd = &cobra.Command{
		Use:   "msv-device",
		Short: "Run a BACnet device hosting Multi-state Value objects.",
		Long: `Runs a BACnet device hosting Multi-state Value objects.

Objects, their state texts and alarm settings, and notification classes are
read from the configuration file. Flags override the matching settings of
the device section.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()
			return run(ctx, opts)
		},
	}
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&opts.ConfigFile, "config", "c", "", "configuration file path")
	f.StringVar(&opts.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&opts.MetricsAddr, "metrics-addr", "", "metrics listen address, e.g. :9100")
	f.StringVarP(&opts.StateFile, "state-file", "s", "", "path to persist runtime state")
	f.StringVar(&opts.EventLog, "event-log", "", "path of the CBOR event log")
	f.BoolVarP(&opts.Interactive, "interactive", "i", false, "start the interactive shell")

	version.AttachCobraVersionCommand(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", o.LogLevel)
	}

	cfg, settings, err := loadConfig(o)
	if err != nil {
		return err
	}

	var shell *interactive.Shell
	var out io.Writer = os.Stderr
	if o.Interactive {
		if shell, err = interactive.New(); err != nil {
			return err
		}
		defer shell.Close()
		out = shell.Stderr()
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	logger.Info("msv-device starting",
		"version", version.Short(),
		"bacnet", version.Protocol,
		"config", o.ConfigFile)

	events := []log.Logger{log.NewSlogAdapter(logger)}
	if settings.EventLog != "" {
		fl, err := log.NewFileLogger(settings.EventLog)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer func() {
			if err := fl.Close(); err != nil {
				logger.Warn("close event log", "error", err)
			}
		}()
		events = append(events, fl)
	}

	m := metrics.New(prometheus.NewRegistry())
	cfg.Logger = logger
	cfg.EventLogger = log.NewMultiLogger(events...)
	cfg.Metrics = m

	host, err := service.NewHost(cfg)
	if err != nil {
		return fmt.Errorf("create host: %w", err)
	}

	if settings.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              settings.MetricsAddr,
			Handler:           m.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("metrics listening", "addr", settings.MetricsAddr)
	}

	if shell == nil {
		return host.Run(ctx)
	}

	shell.Attach(host)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := host.Start(ctx); err != nil {
		return err
	}
	shell.Run(ctx, cancel)
	return host.Stop()
}

// loadConfig builds the host configuration from the configuration file and
// the command line overrides.
func loadConfig(o options) (service.DeviceConfig, config.DeviceSettings, error) {
	if o.ConfigFile == "" {
		cfg := service.DefaultDeviceConfig()
		cfg.StateFile = o.StateFile
		settings := config.DeviceSettings{
			Instance:     cfg.Instance,
			Name:         cfg.Name,
			Capacity:     cfg.Capacity,
			TickInterval: cfg.TickInterval,
			StateFile:    o.StateFile,
			EventLog:     o.EventLog,
			MetricsAddr:  o.MetricsAddr,
		}
		return cfg, settings, nil
	}

	store, err := config.Load(o.ConfigFile)
	if err != nil {
		return service.DeviceConfig{}, config.DeviceSettings{}, err
	}
	settings, err := store.Device()
	if err != nil {
		return service.DeviceConfig{}, config.DeviceSettings{}, fmt.Errorf("device settings: %w", err)
	}
	if o.StateFile != "" {
		settings.StateFile = o.StateFile
	}
	if o.EventLog != "" {
		settings.EventLog = o.EventLog
	}
	if o.MetricsAddr != "" {
		settings.MetricsAddr = o.MetricsAddr
	}
	return service.DeviceConfigFromSettings(settings, store), settings, nil
}
