package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name          string
		allowed       []string
		method        string
		path          string
		origin        string
		requestMethod string
		wantStatus    int
		wantOrigin    string
		wantMethods   string
	}{
		{
			name:       "configured origin on a tick",
			allowed:    []string{"https://manager.example.com"},
			method:     http.MethodPost,
			path:       "/v1/matches/m-1/tick",
			origin:     "https://manager.example.com",
			wantStatus: http.StatusOK,
			wantOrigin: "https://manager.example.com",
		},
		{
			name:          "live speed preflight",
			allowed:       []string{"https://Manager.example.com/"},
			method:        http.MethodOptions,
			path:          "/v1/matches/m-1/live/speed",
			origin:        "https://manager.example.com",
			requestMethod: http.MethodPut,
			wantStatus:    http.StatusNoContent,
			wantOrigin:    "https://manager.example.com",
			wantMethods:   corsMethods,
		},
		{
			name:          "wildcard preflight",
			allowed:       []string{"*"},
			method:        http.MethodOptions,
			path:          "/v1/season/advance",
			origin:        "https://anyone.example.com",
			requestMethod: http.MethodPost,
			wantStatus:    http.StatusNoContent,
			wantOrigin:    "*",
			wantMethods:   corsMethods,
		},
		{
			name:          "unknown origin preflight refused",
			allowed:       []string{"https://manager.example.com"},
			method:        http.MethodOptions,
			path:          "/v1/matchdays",
			origin:        "https://elsewhere.example.com",
			requestMethod: http.MethodPost,
			wantStatus:    http.StatusForbidden,
		},
		{
			name:       "unknown origin request gets no headers",
			allowed:    []string{"https://manager.example.com"},
			method:     http.MethodGet,
			path:       "/v1/matches/m-1",
			origin:     "https://elsewhere.example.com",
			wantStatus: http.StatusOK,
		},
		{
			name:       "same origin request",
			allowed:    []string{"https://manager.example.com"},
			method:     http.MethodGet,
			path:       "/v1/matches/m-1",
			wantStatus: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.requestMethod != "" {
				req.Header.Set("Access-Control-Request-Method", tt.requestMethod)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed, next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status=%d want=%d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("Access-Control-Allow-Origin=%q want=%q", got, tt.wantOrigin)
			}
			if got := rec.Header().Get("Access-Control-Allow-Methods"); got != tt.wantMethods {
				t.Fatalf("Access-Control-Allow-Methods=%q want=%q", got, tt.wantMethods)
			}
		})
	}
}
