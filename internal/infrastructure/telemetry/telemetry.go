package telemetry

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mrops-br/chaverito-api/internal/infrastructure/config"
)

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Registry       *prometheus.Registry
	Logger         *slog.Logger

	conn *grpc.ClientConn
}

// NewTelemetry initializes all OpenTelemetry components
func NewTelemetry(ctx context.Context, cfg *config.Config) (*Telemetry, error) {
	logger := NewLogger(os.Stdout, cfg)

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.OTLP.Endpoint),
		slog.String("service_name", cfg.OTLP.ServiceName),
	)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.OTLP.ServiceName),
			semconv.ServiceVersion("1.0.0"),
			semconv.DeploymentEnvironment(cfg.OTLP.Environment),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create resource")
	}

	conn, err := grpc.NewClient(cfg.OTLP.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gRPC connection")
	}

	tp, err := initTracerProvider(ctx, conn, res)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to initialize tracer provider")
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	logger.Info("Tracer provider initialized successfully")

	promReader, registry, err := newPrometheusReader()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	mp, err := initMeterProvider(ctx, conn, res, promReader)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to initialize meter provider")
	}

	otel.SetMeterProvider(mp)
	logger.Info("Meter provider initialized successfully (OTLP + Prometheus exporters)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Registry:       registry,
		Logger:         logger,
		conn:           conn,
	}, nil
}

// NewNoOpTelemetry creates a telemetry instance that exports nothing over
// OTLP. Prometheus metrics are still collected.
func NewNoOpTelemetry(cfg *config.Config) *Telemetry {
	return newLocalTelemetry(NewLogger(os.Stdout, cfg))
}

// NewTestTelemetry is NewNoOpTelemetry with a caller supplied logger and
// without touching the global providers
func NewTestTelemetry(logger *slog.Logger) *Telemetry {
	tp := sdktrace.NewTracerProvider()
	promReader, registry, err := newPrometheusReader()
	if err != nil {
		panic(err)
	}
	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  metric.NewMeterProvider(metric.WithReader(promReader)),
		Registry:       registry,
		Logger:         logger,
	}
}

func newLocalTelemetry(logger *slog.Logger) *Telemetry {
	t := NewTestTelemetry(logger)

	otel.SetTracerProvider(t.TracerProvider)
	otel.SetMeterProvider(t.MeterProvider)

	logger.Info("Telemetry initialized in no-op mode (export disabled)")
	return t
}

// Shutdown gracefully shuts down all telemetry components
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown tracer provider", slog.String("error", err.Error()))
		return err
	}

	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown meter provider", slog.String("error", err.Error()))
		return err
	}

	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			return errors.Wrap(err, "close OTLP connection")
		}
	}

	t.Logger.Info("OpenTelemetry shutdown successfully")
	return nil
}
