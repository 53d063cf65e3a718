package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/riskibarqy/season-sim/internal/platform/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("season-sim/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// startSpan only opens spans for handlers. Middleware and response helpers get
// a no-op span so a request trace stays one level deep.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if !strings.HasPrefix(name, "httpapi.Handler.") {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

// startMatchSpan is startSpan for routes under /v1/matches/{matchID}. The
// match id goes on the span and into the log scope of the request.
func startMatchSpan(r *http.Request, name string) (context.Context, trace.Span, string) {
	matchID := strings.TrimSpace(r.PathValue("matchID"))
	ctx, span := startSpan(r.Context(), name)
	if matchID == "" {
		return ctx, span, matchID
	}
	span.SetAttributes(attribute.String("match_id", matchID))
	return logging.WithMatch(ctx, matchID), span, matchID
}

// routeName is the span name of a request. Match ids are folded into the
// route template so live polling does not create one span name per match.
func routeName(method, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) >= 3 && segments[0] == "v1" && segments[1] == "matches" {
		segments[2] = "{matchID}"
	}
	return method + " /" + strings.Join(segments, "/")
}

// shouldTraceRequest skips health checks and the API docs.
func shouldTraceRequest(path string) bool {
	normalized := strings.ToLower(strings.TrimSpace(path))
	switch {
	case normalized == "/healthz", normalized == "/health", normalized == "/livez", normalized == "/readyz":
		return false
	case normalized == "/openapi.yaml", normalized == "/docs", strings.HasPrefix(normalized, "/docs/"):
		return false
	default:
		return true
	}
}
