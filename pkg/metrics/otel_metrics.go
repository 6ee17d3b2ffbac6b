package metrics

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ProgressMetrics holds the progression counters. Instruments come from the
// global meter, which forwards to the real provider once pkg/otel installs it.
type ProgressMetrics struct {
	EligibilityRejections metric.Int64Counter
	BoostCompletions      metric.Int64Counter
	ChallengeStarts       metric.Int64Counter
	ChallengeCompletions  metric.Int64Counter
	FuelPointsAwarded     metric.Int64Counter
	RemindersPublished    metric.Int64Counter

	HTTPServerRequestTotal   metric.Int64Counter
	HTTPServerDuration       metric.Float64Histogram
	HTTPServerActiveRequests metric.Int64UpDownCounter
}

var (
	metrics = newProgressMetrics(otel.Meter("healthrocket"))
)

// Get returns the process-wide metrics.
func Get() *ProgressMetrics {
	return metrics
}

func newProgressMetrics(meter metric.Meter) *ProgressMetrics {
	m := &ProgressMetrics{}
	// the global delegating meter does not return errors
	m.EligibilityRejections, _ = meter.Int64Counter("eligibility_rejections_total",
		metric.WithDescription("Requests rejected by a progression rule"),
		metric.WithUnit("{rejection}"))
	m.BoostCompletions, _ = meter.Int64Counter("boost_completions_total",
		metric.WithDescription("Boost completions stored"),
		metric.WithUnit("{boost}"))
	m.ChallengeStarts, _ = meter.Int64Counter("challenge_starts_total",
		metric.WithDescription("Challenges started"),
		metric.WithUnit("{challenge}"))
	m.ChallengeCompletions, _ = meter.Int64Counter("challenge_completions_total",
		metric.WithDescription("Challenges completed"),
		metric.WithUnit("{challenge}"))
	m.FuelPointsAwarded, _ = meter.Int64Counter("fuel_points_awarded_total",
		metric.WithDescription("Fuel points written to the ledger"),
		metric.WithUnit("{point}"))
	m.RemindersPublished, _ = meter.Int64Counter("boost_reminders_published_total",
		metric.WithDescription("Boost reminders delivered, per category with quota left"),
		metric.WithUnit("{message}"))

	m.HTTPServerRequestTotal, _ = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"))
	m.HTTPServerDuration, _ = meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5))
	m.HTTPServerActiveRequests, _ = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("In-flight HTTP requests"),
		metric.WithUnit("{request}"))
	return m
}

func (m *ProgressMetrics) RecordRejection(ctx context.Context, reason string) {
	m.EligibilityRejections.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *ProgressMetrics) RecordBoostCompleted(ctx context.Context, category string) {
	m.BoostCompletions.Add(ctx, 1, metric.WithAttributes(attribute.String("category", category)))
}

func (m *ProgressMetrics) RecordChallengeStarted(ctx context.Context, tier int) {
	m.ChallengeStarts.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", strconv.Itoa(tier))))
}

func (m *ProgressMetrics) RecordChallengeCompleted(ctx context.Context, tier int) {
	m.ChallengeCompletions.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", strconv.Itoa(tier))))
}

func (m *ProgressMetrics) RecordFuelPoints(ctx context.Context, source string, amount int) {
	m.FuelPointsAwarded.Add(ctx, int64(amount), metric.WithAttributes(attribute.String("source", source)))
}

func (m *ProgressMetrics) RecordReminder(ctx context.Context, category string) {
	m.RemindersPublished.Add(ctx, 1, metric.WithAttributes(attribute.String("category", category)))
}

func (m *ProgressMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, seconds float64) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.HTTPServerRequestTotal.Add(ctx, 1, attrs)
	m.HTTPServerDuration.Record(ctx, seconds, attrs)
}
