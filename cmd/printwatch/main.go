// printwatch is a metrics exporter for a CUPS print server on a
// single-board computer. It periodically samples the print service,
// printer and queue state, USB device presence and host resources, and
// exposes the current values over HTTP for Prometheus to scrape.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"printwatch-v0/internal/api"
	"printwatch-v0/internal/api/handlers"
	"printwatch-v0/internal/collector"
	"printwatch-v0/internal/config"
	"printwatch-v0/internal/history"
	"printwatch-v0/internal/infrastructure/logger"
	"printwatch-v0/internal/probe"
	"printwatch-v0/internal/registry"
)

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput)
	logger.SetDefaultLogger(appLogger)

	appLogger.Info("Starting printwatch",
		"port", cfg.Port,
		"interval", cfg.Interval,
		"service_unit", cfg.ServiceUnit,
	)

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := registry.New()

	runner := probe.ExecRunner{}
	probes := []probe.Probe{
		probe.NewServiceProbe(cfg.ServiceUnit, runner),
		probe.NewPrinterProbe(runner),
		probe.NewQueueProbe(runner),
		probe.NewSystemProbe(cfg.DiskPath, cfg.ThermalZone),
	}
	if cfg.USBDevice != "" {
		probes = append(probes, probe.NewUSBProbe(cfg.USBDevice, probe.DefaultSysfsUSBPath))
	}
	appLogger.Debug("Probes configured", "count", len(probes))

	var sinks []collector.Sink
	var lister handlers.SampleLister
	if cfg.DBPath != "" {
		appLogger.Debug("Opening history database", "path", cfg.DBPath)
		store, err := history.Open(cfg.DBPath)
		if err != nil {
			appLogger.Error("Failed to open history database", "path", cfg.DBPath, "err", err)
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer store.Close()
		sinks = append(sinks, store)
		lister = store
	}

	coll := collector.New(appLogger, reg, probes, sinks, cfg.Interval, cfg.ProbeTimeout)
	apiServer := api.NewServer(appLogger, cfg.Port, cfg.APIKey, reg, lister)

	collectorDone := make(chan struct{})
	go func() {
		coll.Run(sigCtx)
		close(collectorDone)
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	appLogger.Info("printwatch started successfully, waiting for shutdown signal")

	select {
	case <-sigCtx.Done():
		appLogger.Info("Shutdown signal received, starting graceful shutdown")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		var shutdownErr error
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
		}

		select {
		case <-collectorDone:
		case <-shutdownCtx.Done():
			appLogger.Warn("Collector did not stop before shutdown deadline")
		}

		appLogger.Info("Graceful shutdown completed")
		return shutdownErr
	case err := <-serverErrChan:
		appLogger.Error("Server error received", "err", err)
		return err
	}
}

func main() {
	if err := run(); err != nil {
		// Use default logger for final error message if run() failed early
		logger.DefaultLogger().Error("Application error", "err", err)
		os.Exit(1)
	}
}
