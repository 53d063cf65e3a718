package httpapi

import "testing"

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: " /readyz ", want: false},
		{path: "/openapi.yaml", want: false},
		{path: "/docs", want: false},
		{path: "/docs/index.html", want: false},
		{path: "/v1/season/advance", want: true},
		{path: "/v1/matchdays", want: true},
		{path: "/v1/matches/m-1/tick", want: true},
		{path: "/v1/matches/m-1/live/speed", want: true},
	}
	for _, tt := range tests {
		if got := shouldTraceRequest(tt.path); got != tt.want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tt.path, got, tt.want)
		}
	}
}
