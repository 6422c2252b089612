package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferdiebergado/chatrelay/internal/middleware"
)

func TestMiddleware_CORS(t *testing.T) {
	t.Parallel()

	const allowedOrigin = "http://localhost:3000"

	allowed := map[string]string{
		middleware.HeaderAllowOrigin:  allowedOrigin,
		middleware.HeaderAllowCreds:   "true",
		middleware.HeaderAllowHeaders: middleware.AllowedHeaders,
		middleware.HeaderAllowMethods: middleware.AllowedMethods,
	}
	none := map[string]string{
		middleware.HeaderAllowOrigin: "",
		middleware.HeaderAllowCreds:  "",
	}

	tests := []struct {
		name, method, origin, configured string
		code                             int
		headers                          map[string]string
	}{
		{"GET with allowed origin", http.MethodGet, allowedOrigin, allowedOrigin, http.StatusOK, allowed},
		{"POST with allowed origin", http.MethodPost, allowedOrigin, allowedOrigin, http.StatusOK, allowed},
		{"OPTIONS preflight", http.MethodOptions, allowedOrigin, allowedOrigin, http.StatusNoContent, allowed},
		{"GET with unknown origin", http.MethodGet, "http://evil.example", allowedOrigin, http.StatusOK, none},
		{"CORS disabled", http.MethodPost, allowedOrigin, "", http.StatusOK, none},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tc.method, "/", http.NoBody)
			req.Header.Set(middleware.HeaderOrigin, tc.origin)
			rec := httptest.NewRecorder()
			middleware.CORS(tc.configured)(handler).ServeHTTP(rec, req)

			if gotCode, wantCode := rec.Code, tc.code; gotCode != wantCode {
				t.Errorf("rec.Code = %d, want: %d", gotCode, wantCode)
			}

			for header, want := range tc.headers {
				if got := rec.Header().Get(header); got != want {
					t.Errorf("rec.Header().Get(%q) = %q, want: %q", header, got, want)
				}
			}
		})
	}
}
