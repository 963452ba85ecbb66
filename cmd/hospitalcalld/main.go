// Hospitalcalld is the appointment-intake call bridge daemon.
//
// It subscribes to call lifecycle events, extracts the caller's
// appointment-slot choice from the finished transcript, books the slot,
// and texts the caller the outcome. The HTTP server exposes the inbound
// call webhook, health, and metrics endpoints.
//
// Configuration is loaded from environment variables with an optional YAML
// file. See internal/config for details.
//
// Usage:
//
//	# Start the daemon with defaults
//	hospitalcalld serve
//
//	# Configure via environment
//	SERVER_PORT=9090 NATS_URL=nats://localhost:4222 hospitalcalld serve
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ColeJackes/HospitalCall/internal/booking"
	"github.com/ColeJackes/HospitalCall/internal/bridge"
	"github.com/ColeJackes/HospitalCall/internal/catalog"
	"github.com/ColeJackes/HospitalCall/internal/config"
	"github.com/ColeJackes/HospitalCall/internal/events"
	"github.com/ColeJackes/HospitalCall/internal/extraction"
	"github.com/ColeJackes/HospitalCall/internal/notify"
	"github.com/ColeJackes/HospitalCall/internal/registry"
	"github.com/ColeJackes/HospitalCall/internal/telephony"
	"github.com/ColeJackes/HospitalCall/pkg/server"
)

// Version information (set via ldflags during build).
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hospitalcalld",
	Short: "Appointment-intake call bridge daemon",
	Long: `hospitalcalld bridges inbound hospital intake calls to follow-up text
messages. It correlates call lifecycle events, extracts the caller's
appointment-slot choice from the call transcript, and confirms the booking
by SMS.`,
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the call bridge daemon",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hospitalcalld\n")
		fmt.Printf("Version:    %s\n", version)
		fmt.Printf("Commit:     %s\n", gitCommit)
		fmt.Printf("Build Date: %s\n", buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runServe starts the daemon and blocks until a shutdown signal.
func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return run(ctx)
}

// run initializes all dependencies and services:
//  1. Loads and validates configuration
//  2. Initializes the logger
//  3. Connects to NATS and loads the slot catalog
//  4. Creates the extractor, notifier, booker, and bridge
//  5. Subscribes the bridge to the call lifecycle subjects
//  6. Starts the HTTP server with the telephony webhooks
//
// Returns http.ErrServerClosed on graceful shutdown.
func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := initLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("Starting hospitalcalld",
		zap.Int("port", cfg.Server.Port),
		zap.String("nats_url", cfg.NATS.URL),
		zap.String("extraction_provider", cfg.Extraction.Provider))

	deps, err := initDependencies(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close()

	logger.Info("Dependencies initialized",
		zap.Bool("nats_connected", deps.natsConn != nil),
		zap.Int("catalog_slots", deps.catalog.Len()),
		zap.String("slot_prompt", deps.catalog.Prompt()))

	b := bridge.New(
		deps.catalog,
		deps.registry,
		deps.extractor,
		booking.NewStubBooker(logger.Named("booking")),
		deps.notifier,
		logger.Named("bridge"),
		bridge.NewMetrics(deps.metrics),
	)

	dispatcher := events.NewDispatcher(
		deps.natsConn,
		b.HandleCallConnected,
		func(ctx context.Context, ev events.TranscriptComplete) error {
			_, err := b.HandleTranscriptComplete(ctx, ev)
			return err
		},
		logger.Named("dispatcher"),
	)
	if err := dispatcher.Subscribe(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to call events: %w", err)
	}
	defer func() {
		_ = dispatcher.Drain()
	}()

	srv := server.New(cfg.Server.Port, cfg.Server.ShutdownTimeout, deps.metrics)

	webhooks := telephony.NewHandlers(deps.natsConn, cfg.Telephony.BaseURL, logger.Named("telephony"))
	webhooks.Register(srv.Echo())

	logger.Info("Server configured",
		zap.String("health_endpoint", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port)),
		zap.String("inbound_webhook", "/inbound_call"),
		zap.String("metrics_endpoint", "/metrics"))

	// Blocks until context cancellation.
	return srv.Start(ctx)
}

// dependencies holds all infrastructure dependencies.
type dependencies struct {
	natsConn  *nats.Conn
	catalog   *catalog.Catalog
	registry  *registry.Registry
	extractor extraction.Extractor
	notifier  notify.Notifier
	metrics   *prometheus.Registry
	logger    *zap.Logger
}

// Close releases all infrastructure resources.
func (d *dependencies) Close() {
	if d.natsConn != nil {
		d.natsConn.Close()
	}
	if d.logger != nil {
		_ = d.logger.Sync() // Best-effort sync
	}
}

// initLogger initializes the structured logger.
func initLogger() (*zap.Logger, error) {
	if os.Getenv("ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// initDependencies connects to NATS, loads the slot catalog, and creates
// the extraction and notification clients.
func initDependencies(cfg *config.Config, logger *zap.Logger) (*dependencies, error) {
	nc, err := nats.Connect(cfg.NATS.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(1*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", cfg.NATS.URL, err)
	}
	logger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("load slot catalog: %w", err)
	}
	logger.Info("Slot catalog loaded",
		zap.String("path", cfg.Catalog.Path),
		zap.Int("slots", cat.Len()))

	extractor, err := extraction.New(extraction.Config{
		Provider: cfg.Extraction.Provider,
		Model:    cfg.Extraction.Model,
		APIKey:   cfg.Extraction.APIKey.Value(),
		BaseURL:  cfg.Extraction.BaseURL,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create extractor: %w", err)
	}

	notifier, err := notify.NewTwilioClient(notify.TwilioConfig{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken.Value(),
		FromNumber: cfg.Twilio.FromNumber,
		BaseURL:    cfg.Twilio.BaseURL,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create twilio client: %w", err)
	}

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &dependencies{
		natsConn:  nc,
		catalog:   cat,
		registry:  registry.New(),
		extractor: extractor,
		notifier:  notifier,
		metrics:   metrics,
		logger:    logger,
	}, nil
}
