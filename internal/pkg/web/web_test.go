package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ferdiebergado/chatrelay/internal/pkg/web"
)

func TestParamsFromContext(t *testing.T) {
	t.Parallel()

	type params struct{ Subject string }

	ctx := web.WithParams(context.Background(), params{Subject: "autoestima"})

	got, err := web.ParamsFromContext[params](ctx)
	if err != nil {
		t.Fatalf("web.ParamsFromContext() returned an error: %v", err)
	}
	if got.Subject != "autoestima" {
		t.Errorf("got.Subject = %q, want: %q", got.Subject, "autoestima")
	}

	if _, err := web.ParamsFromContext[string](ctx); err == nil {
		t.Errorf("web.ParamsFromContext[string]() error = %v, want: non-nil", err)
	}

	if _, err := web.ParamsFromContext[params](context.Background()); err == nil {
		t.Errorf("web.ParamsFromContext() on empty context error = %v, want: non-nil", err)
	}
}

func TestOK(t *testing.T) {
	t.Parallel()

	type data struct {
		Output string `json:"output"`
	}

	rec := httptest.NewRecorder()
	msg := "Message sent."
	web.OK(rec, http.StatusOK, &msg, &data{Output: "oi"})

	if rec.Code != http.StatusOK {
		t.Errorf("rec.Code = %d, want: %d", rec.Code, http.StatusOK)
	}

	if got := rec.Header().Get(web.HeaderContentType); !strings.HasPrefix(got, web.MimeJSON) {
		t.Errorf("rec.Header().Get(%q) = %q, want: %q", web.HeaderContentType, got, web.MimeJSON)
	}

	var res web.OKResponse[data]
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}

	if res.Message != msg || res.Data.Output != "oi" {
		t.Errorf("response = %+v, want message %q and output %q", res, msg, "oi")
	}
}

func TestFail(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	web.Fail(rec, http.StatusBadGateway, errors.New("upstream down"), "Failed to send message.", nil)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("rec.Code = %d, want: %d", rec.Code, http.StatusBadGateway)
	}

	got := strings.TrimSuffix(rec.Body.String(), "\n")
	want := `{"message":"Failed to send message."}`
	if got != want {
		t.Errorf("rec.Body.String() = %q, want: %q", got, want)
	}
}

func TestBearer(t *testing.T) {
	t.Parallel()

	if got, want := web.Bearer("a.b.c"), "Bearer a.b.c"; got != want {
		t.Errorf("web.Bearer(%q) = %q, want: %q", "a.b.c", got, want)
	}
}
