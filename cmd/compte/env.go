package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/urfave/cli/v2"

	"github.com/brojonat/compte/client"
	"github.com/brojonat/compte/service/config"
	"github.com/brojonat/compte/service/credentials"
	"github.com/brojonat/compte/service/metrics"
	natspkg "github.com/brojonat/compte/service/nats"
)

// newSubscriber is replaced in tests.
var newSubscriber = func(natsURL string, logger *slog.Logger) (natspkg.Subscriber, error) {
	return natspkg.NewSubscriber(natsURL, logger)
}

// env is everything a command needs, built from config and global flags.
type env struct {
	cfg        *config.Config
	level      slog.Level
	logger     *slog.Logger
	metrics    *metrics.Metrics
	store      *credentials.SQLiteStore
	httpClient *http.Client
	client     *client.Client

	stdout io.Writer
	stderr io.Writer
	json   bool
}

func newEnv(c *cli.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if c.IsSet("server") {
		cfg.ServerURL = strings.TrimRight(c.String("server"), "/")
	}
	if c.IsSet("storage") {
		cfg.StoragePath = c.String("storage")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("timeout") {
		cfg.HTTPTimeout = c.Duration("timeout")
	}
	if c.IsSet("nats-url") {
		cfg.NATSURL = c.String("nats-url")
	}
	if c.IsSet("metrics-addr") {
		cfg.MetricsAddr = c.String("metrics-addr")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stderr := c.App.ErrWriter
	if stderr == nil {
		stderr = io.Discard
	}
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := newLogger(stderr, level)

	store, err := credentials.Open(cfg.StoragePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	m := metrics.NewMetrics(nil)
	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: m.InstrumentTransport(nil),
	}

	return &env{
		cfg:        cfg,
		level:      level,
		logger:     logger,
		metrics:    m,
		store:      store,
		httpClient: httpClient,
		client:     client.NewClient(cfg.ServerURL, store, httpClient, logger),
		stdout:     c.App.Writer,
		stderr:     stderr,
		json:       c.Bool("json"),
	}, nil
}

// redirectLogs sends logs to w from now on. The API client is rebuilt so its
// request logs follow.
func (e *env) redirectLogs(w io.Writer) {
	e.logger = newLogger(w, e.level)
	e.client = client.NewClient(e.cfg.ServerURL, e.store, e.httpClient, e.logger)
}

func (e *env) Close() error {
	return e.store.Close()
}

// withEnv builds the env for a command action and closes it afterwards.
func withEnv(action func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := newEnv(c)
		if err != nil {
			return err
		}
		defer e.Close()
		return action(c, e)
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func (e *env) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(e.stdout, string(data))
	return nil
}

// serveMetrics exposes /metrics on cfg.MetricsAddr until ctx is done. It is a
// no-op when no address is configured.
func (e *env) serveMetrics(ctx context.Context) {
	if e.cfg.MetricsAddr == "" {
		return
	}

	r := chi.NewRouter()
	r.Handle("/metrics", e.metrics.Handler())
	srv := &http.Server{
		Addr:              e.cfg.MetricsAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		e.logger.Info("metrics server listening", "addr", e.cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

// describeAPIError turns API errors into short CLI messages.
func describeAPIError(action string, err error) error {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("failed to %s: not authenticated (run `compte login`): %w", action, err)
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
