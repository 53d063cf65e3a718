package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenAPI_RevalidatesWithETag(t *testing.T) {
	h := &Handler{}

	rec := httptest.NewRecorder()
	h.OpenAPI(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.Equal(t, openAPIETag, etag)
	require.True(t, strings.Contains(rec.Body.String(), "/v1/matches/{matchID}/tick"))

	tests := []struct {
		name        string
		ifNoneMatch string
		want        int
	}{
		{name: "same document", ifNoneMatch: etag, want: http.StatusNotModified},
		{name: "weak match in a list", ifNoneMatch: `"stale", W/` + etag, want: http.StatusNotModified},
		{name: "stale copy", ifNoneMatch: `"stale"`, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil)
			req.Header.Set("If-None-Match", tt.ifNoneMatch)
			rec := httptest.NewRecorder()
			h.OpenAPI(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status=%d want=%d", rec.Code, tt.want)
			}
		})
	}
}

func TestSwaggerUI_PointsAtEmbeddedDocument(t *testing.T) {
	rec := httptest.NewRecorder()
	(&Handler{}).SwaggerUI(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "url: '/openapi.yaml'")
	require.Contains(t, rec.Body.String(), "Season Simulator API")
}
