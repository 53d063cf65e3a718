package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/season-sim/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func TestRouteName(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{name: "match tick", method: http.MethodPost, path: "/v1/matches/01JABC/tick", want: "POST /v1/matches/{matchID}/tick"},
		{name: "match snapshot", method: http.MethodGet, path: "/v1/matches/01JABC", want: "GET /v1/matches/{matchID}"},
		{name: "live speed", method: http.MethodPut, path: "/v1/matches/m-1/live/speed/", want: "PUT /v1/matches/{matchID}/live/speed"},
		{name: "season advance", method: http.MethodPost, path: "/v1/season/advance", want: "POST /v1/season/advance"},
		{name: "root", method: http.MethodGet, path: "/", want: "GET /"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := routeName(tt.method, tt.path); got != tt.want {
				t.Fatalf("routeName(%s %q)=%q want=%q", tt.method, tt.path, got, tt.want)
			}
		})
	}
}

func TestStartMatchSpan_ScopesRequestToMatch(t *testing.T) {
	mux := http.NewServeMux()
	var scope logging.Scope
	var gotID string
	mux.HandleFunc("POST /v1/matches/{matchID}/tick", func(w http.ResponseWriter, r *http.Request) {
		ctx, span, matchID := startMatchSpan(r, "httpapi.Handler.TickMatch")
		defer span.End()
		scope, gotID = logging.ScopeFromContext(ctx), matchID
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/matches/m-42/tick", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "m-42", gotID)
	require.Equal(t, logging.Scope{MatchID: "m-42"}, scope)
}

func TestStartSpan_NoParentIsNoop(t *testing.T) {
	ctx, span := startSpan(httptest.NewRequest(http.MethodGet, "/healthz", nil).Context(), "httpapi.Handler.Healthz")
	defer span.End()
	if span.SpanContext().IsValid() {
		t.Fatalf("expected a no-op span without a parent")
	}
	require.NotNil(t, ctx)
}
