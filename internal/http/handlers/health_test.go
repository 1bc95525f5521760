package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/tasktracker/internal/http/handlers"
)

func TestReadyz(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	tests := []struct {
		name     string
		checks   map[string]handlers.Check
		draining bool
		wantCode int
		wantBody string
	}{
		{"no_deps", nil, false, http.StatusOK, `"status":"ready"`},
		{"all_up", map[string]handlers.Check{"postgres": up, "redis": up}, false, http.StatusOK, `"postgres":"up"`},
		{"one_down", map[string]handlers.Check{"postgres": up, "redis": down}, false, http.StatusServiceUnavailable, `"redis":"down"`},
		{"draining", map[string]handlers.Check{"postgres": up}, true, http.StatusServiceUnavailable, `"status":"shutting_down"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draining := tt.draining
			h := handlers.NewHealthHandler(tt.checks, func() bool { return draining })

			r := setupRouter(http.MethodGet, "/readyz", h.Readyz)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if w.Code != tt.wantCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantCode, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Fatalf("body %s missing %s", w.Body.String(), tt.wantBody)
			}
			if strings.Contains(w.Body.String(), "refused") {
				t.Fatalf("readiness leaked the dependency error")
			}
		})
	}
}

func TestHealthzNilShutdownFunc(t *testing.T) {
	h := handlers.NewHealthHandler(nil, nil)

	r := setupRouter(http.MethodGet, "/readyz", h.Readyz)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got %d", w.Code)
	}
}
