package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerShutdown func(context.Context) error
	meter          otelmetric.Meter
	tracer         trace.Tracer
	callCounter    otelmetric.Int64Counter
	callDuration   otelmetric.Float64Histogram
	completionUse  otelmetric.Int64Histogram
}

// New wires an otel MeterProvider onto the default prometheus registry and, when
// jaegerEndpoint is set, a tracer provider exporting to jaeger.
func New(serviceName, jaegerEndpoint string) *Observability {
	o := &Observability{tracer: otel.Tracer(serviceName)}

	if shutdown, err := initTracing(serviceName, jaegerEndpoint); err != nil {
		log.Printf("Failed to initialise tracing: %v", err)
	} else {
		o.tracerShutdown = shutdown
		o.tracer = otel.Tracer(serviceName)
	}

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	callCounter, _ := meter.Int64Counter(
		"pipeline.calls",
		otelmetric.WithDescription("Orchestrator calls by feature and outcome"),
	)

	callDuration, _ := meter.Float64Histogram(
		"pipeline.duration",
		otelmetric.WithDescription("Orchestrator call duration"),
		otelmetric.WithUnit("ms"),
	)

	completionUse, _ := meter.Int64Histogram(
		"pipeline.completions",
		otelmetric.WithDescription("Completion requests made per orchestrator call"),
	)

	o.meterProvider = provider
	o.meter = meter
	o.callCounter = callCounter
	o.callDuration = callDuration
	o.completionUse = completionUse
	return o
}

// NewNoop returns an Observability that records nothing and uses the global tracer.
func NewNoop() *Observability {
	return &Observability{tracer: otel.Tracer("noop")}
}

func (o *Observability) Tracer() trace.Tracer {
	if o == nil || o.tracer == nil {
		return otel.Tracer("noop")
	}
	return o.tracer
}

// StartSpan starts a span named name under ctx.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordCall records one orchestrator call: its outcome, duration and how many
// completion requests it needed.
func (o *Observability) RecordCall(ctx context.Context, feature, outcome string, duration time.Duration, completions int) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("feature", feature),
		attribute.String("outcome", outcome),
	)
	if o.callCounter != nil {
		o.callCounter.Add(ctx, 1, attrs)
	}
	if o.callDuration != nil {
		o.callDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
	if o.completionUse != nil {
		o.completionUse.Record(ctx, int64(completions), otelmetric.WithAttributes(attribute.String("feature", feature)))
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerShutdown != nil {
		_ = o.tracerShutdown(ctx)
	}
}
