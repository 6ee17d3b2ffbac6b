package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"HealthRocket/pkg/metrics"
)

// toValidUTF8 cleans caller-controlled strings before they reach metric or
// span attributes; invalid UTF-8 breaks export.
func toValidUTF8(val string) string {
	return strings.ToValidUTF8(val, "")
}

// MetricsMiddleware records request count, duration and in-flight requests.
// Spans come from the hertz tracer installed by NewServerTracerConfig; this only
// decorates the current span with the user id.
func MetricsMiddleware() app.HandlerFunc {
	m := metrics.Get()

	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		m.HTTPServerActiveRequests.Add(ctx, 1)
		defer m.HTTPServerActiveRequests.Add(ctx, -1)

		c.Next(ctx)

		// FullPath is the route template, which keeps label cardinality bounded
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(ctx,
			toValidUTF8(string(c.Method())),
			toValidUTF8(route),
			c.Response.StatusCode(),
			time.Since(start).Seconds(),
		)

		if userID, ok := GetUserID(ctx, c); ok {
			trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("enduser.id", userID))
		}
	}
}

// NewServerTracerConfig returns the hertz server option and the tracing middleware.
func NewServerTracerConfig(opts ...hertztracing.Option) (config.Option, app.HandlerFunc) {
	tracer, cfg := hertztracing.NewServerTracer(opts...)
	return tracer, hertztracing.ServerMiddleware(cfg)
}
