package mq

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Instrumentation publishes with trace context injected into the message
// headers and starts consumer spans linked to the producer.
type Instrumentation struct {
	propagator propagation.TextMapPropagator
	tracer     trace.Tracer
	messages   metric.Int64Counter
	duration   metric.Float64Histogram
}

func NewInstrumentation(serviceName string) *Instrumentation {
	meter := otel.Meter(serviceName + ".rabbitmq")
	messages, _ := meter.Int64Counter("mq.messages.total",
		metric.WithDescription("Total number of messages published or consumed"),
		metric.WithUnit("{message}"),
	)
	duration, _ := meter.Float64Histogram("mq.message.duration",
		metric.WithDescription("Publish or handler duration"),
		metric.WithUnit("s"),
	)

	return &Instrumentation{
		propagator: otel.GetTextMapPropagator(),
		tracer:     otel.Tracer(serviceName + ".rabbitmq"),
		messages:   messages,
		duration:   duration,
	}
}

func (in *Instrumentation) Publish(
	ctx context.Context,
	ch *amqp.Channel,
	exchange, routingKey string,
	msg amqp.Publishing,
) error {
	start := time.Now()
	ctx, span := in.tracer.Start(ctx, "rabbitmq.publish "+routingKey,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystem("rabbitmq"),
			semconv.MessagingDestinationName(exchange),
			semconv.MessagingRabbitmqDestinationRoutingKey(routingKey),
			semconv.MessagingMessageID(msg.MessageId),
		),
	)
	defer span.End()

	headers := make(amqp.Table, len(msg.Headers)+2)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	in.propagator.Inject(ctx, &MessageHeaderCarrier{Headers: headers})
	msg.Headers = headers

	err := ch.PublishWithContext(ctx, exchange, routingKey, false, false, msg)
	in.record(ctx, span, "publish", routingKey, start, err)
	return err
}

// StartConsume extracts the producer's context from the delivery and opens a
// consumer span. The returned func ends the span and records the outcome.
func (in *Instrumentation) StartConsume(ctx context.Context, queue string, d amqp.Delivery) (context.Context, func(error)) {
	start := time.Now()
	ctx = in.propagator.Extract(ctx, &MessageHeaderCarrier{Headers: d.Headers})
	ctx, span := in.tracer.Start(ctx, "rabbitmq.process "+queue,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystem("rabbitmq"),
			semconv.MessagingDestinationName(queue),
			semconv.MessagingMessageID(d.MessageId),
		),
	)

	return ctx, func(err error) {
		in.record(ctx, span, "process", queue, start, err)
		span.End()
	}
}

func (in *Instrumentation) record(ctx context.Context, span trace.Span, op, dest string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	attrs := metric.WithAttributes(
		attribute.String("messaging.operation", op),
		attribute.String("messaging.destination", dest),
		attribute.String("messaging.status", status),
	)
	in.messages.Add(ctx, 1, attrs)
	in.duration.Record(ctx, time.Since(start).Seconds(), attrs)
}

// MessageHeaderCarrier adapts amqp headers to propagation.TextMapCarrier.
type MessageHeaderCarrier struct {
	Headers amqp.Table
}

func (m *MessageHeaderCarrier) Get(key string) string {
	if val, ok := m.Headers[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func (m *MessageHeaderCarrier) Set(key, value string) {
	if m.Headers == nil {
		m.Headers = make(amqp.Table)
	}
	m.Headers[key] = value
}

func (m *MessageHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(m.Headers))
	for k := range m.Headers {
		keys = append(keys, k)
	}
	return keys
}
