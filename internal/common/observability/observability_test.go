package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestObservability_NilSafe(t *testing.T) {
	var o *Observability
	assert.NotPanics(t, func() {
		o.RecordCall(context.Background(), "generate-quiz", "success", time.Second, 1)
		_, span := o.StartSpan(context.Background(), "x")
		span.End()
		o.Shutdown()
	})
}

func TestObservability_StartSpanUsesTracer(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	o := &Observability{tracer: tp.Tracer("test")}
	_, span := o.StartSpan(context.Background(), "pipeline.generate-quiz", attribute.String("feature", "generate-quiz"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "pipeline.generate-quiz", ended[0].Name())
}

func TestNoop_RecordCall(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoop().RecordCall(context.Background(), "grade-essay", "parse_error", 10*time.Millisecond, 2)
	})
}
