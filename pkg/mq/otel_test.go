package mq

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMessageHeaderCarrier(t *testing.T) {
	c := &MessageHeaderCarrier{}
	assert.Equal(t, "", c.Get("traceparent"))

	c.Set("traceparent", "00-abc")
	c.Headers["x-retry"] = 3

	assert.Equal(t, "00-abc", c.Get("traceparent"))
	assert.Equal(t, "", c.Get("x-retry"), "non-string values are ignored")
	assert.ElementsMatch(t, []string{"traceparent", "x-retry"}, c.Keys())
}

func TestTraceContextRoundTripsThroughHeaders(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "produce")
	defer span.End()

	prop := propagation.TraceContext{}
	headers := amqp.Table{}
	prop.Inject(ctx, &MessageHeaderCarrier{Headers: headers})
	require.Contains(t, headers, "traceparent")

	in := &Instrumentation{propagator: prop, tracer: tp.Tracer("test")}
	in.messages, in.duration = noopInstruments()

	consumeCtx, done := in.StartConsume(context.Background(), "progress.events", amqp.Delivery{Headers: headers})
	done(nil)

	assert.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(consumeCtx).TraceID())
}

func noopInstruments() (metric.Int64Counter, metric.Float64Histogram) {
	meter := noop.NewMeterProvider().Meter("test")
	c, _ := meter.Int64Counter("c")
	h, _ := meter.Float64Histogram("h")
	return c, h
}
