package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ferdiebergado/chatrelay/internal/platform/router"
)

func TestGoexpressRouter_Group(t *testing.T) {
	t.Parallel()

	const header = "X-Group"

	r := router.NewGoexpressRouter()
	r.Group("/api", func(gr router.Router) {
		gr.Get("/conversations/{id}/messages", func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(req.PathValue("id")))
		})
	}, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set(header, "api")
			next.ServeHTTP(w, req)
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/conversations/c-42/messages", http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusOK; got != want {
		t.Fatalf("rec.Code = %d, want: %d", got, want)
	}

	if got, want := rec.Body.String(), "c-42"; got != want {
		t.Errorf("rec.Body.String() = %q, want: %q", got, want)
	}

	if got, want := rec.Header().Get(header), "api"; got != want {
		t.Errorf("rec.Header().Get(%q) = %q, want: %q", header, got, want)
	}
}
