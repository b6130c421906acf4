package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"ThreadChat/internal/api"
	"ThreadChat/internal/chatbot"
	"ThreadChat/internal/config"
	"ThreadChat/internal/history"
	"ThreadChat/internal/telemetry"
)

// app holds everything a command needs, built from configuration
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	tracer  trace.Tracer
	meter   metric.Meter
	client  *api.Client
	history *history.Store

	closers []func()
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := telemetry.InitLogger(cfg.Log.Dir, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { closeLog() })

	if cfg.Telemetry.Enabled {
		tracer, meter, cleanup, err := telemetry.InitTelemetry(ctx, cfg.Log.Dir)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		a.tracer, a.meter = tracer, meter
		a.closers = append(a.closers, cleanup)
	} else {
		a.tracer, a.meter = telemetry.Noop()
	}

	a.client, err = api.NewClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithLogger(logger),
		api.WithTelemetry(a.tracer, a.meter),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.History.Enabled {
		if _, err := a.openHistory(); err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.Log.Debug {
		logger.Debug("debug mode enabled")
	}
	logger.Info("starting", "api", a.client.BaseURL(), "ui", cfg.UI.Mode, "history", cfg.History.Enabled)
	return a, nil
}

func (a *app) openHistory() (*history.Store, error) {
	if a.history != nil {
		return a.history, nil
	}
	store, err := history.Open(a.cfg.History.Path, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}
	a.history = store
	a.closers = append(a.closers, func() {
		if err := store.Close(); err != nil {
			a.logger.Error("failed to close history", "error", err)
		}
	})
	return store, nil
}

// controller builds a chat controller over the given view
func (a *app) controller(view chatbot.View, prompter chatbot.Prompter) *chatbot.Controller {
	opts := []chatbot.Option{
		chatbot.WithLogger(a.logger),
		chatbot.WithTelemetry(a.tracer, a.meter),
	}
	if a.history != nil {
		opts = append(opts, chatbot.WithRecorder(a.history))
	}
	return chatbot.New(a.client, view, prompter, opts...)
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
