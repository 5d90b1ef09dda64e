package observability

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Config controls logger, tracer and registry construction.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string

	// OTLPEndpoint enables span export when set.
	OTLPEndpoint  string
	OTLPTransport string // grpc|http
	OTLPInsecure  bool
}

// Observability bundles the logger, tracer and metrics registry handed to modules.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry

	shutdown func(context.Context) error
}

// New builds the observability bundle and installs the global tracer
// provider. Development environments get a text handler, everything else
// logs JSON.
func New(ctx context.Context, cfg Config) (Observability, error) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.Environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	name := cfg.ServiceName
	if name == "" {
		name = "clan-service"
	}

	logger := slog.New(handler).With(
		slog.String("service", name),
		slog.String("environment", cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	provider, err := NewTracerProvider(ctx, name, cfg)
	if err != nil {
		return Observability{}, err
	}
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(defaultPropagator())

	if cfg.OTLPEndpoint != "" {
		logger.InfoContext(ctx, "Span export enabled",
			slog.String("endpoint", cfg.OTLPEndpoint),
			slog.String("transport", transportOrDefault(cfg.OTLPTransport)),
		)
	}

	return Observability{
		Logger:   logger,
		Tracer:   provider.Tracer(name),
		Registry: registry,
		shutdown: provider.Shutdown,
	}, nil
}

// Shutdown flushes pending spans and stops the tracer provider.
func (o Observability) Shutdown(ctx context.Context) error {
	if o.shutdown == nil {
		return nil
	}
	return o.shutdown(ctx)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type correlationKey struct{}

// WithCorrelationID stores a correlation id on the context.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation id stored on ctx, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// CorrelationAttr returns the correlation id as a log attribute.
func CorrelationAttr(ctx context.Context) slog.Attr {
	return slog.String("correlation_id", CorrelationID(ctx))
}

// ErrorAttr formats an error as a log attribute.
func ErrorAttr(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
