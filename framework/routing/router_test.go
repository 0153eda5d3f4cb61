package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sitepulse/sitepulse/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router *routing.Router, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Get(t *testing.T) {
	r := routing.New()
	r.Get("/health", okHandler)

	rr := do(t, r, http.MethodGet, "/health")
	if rr.Code != http.StatusOK {
		t.Errorf("GET /health: got %d want 200", rr.Code)
	}
}

func TestRouter_Post(t *testing.T) {
	r := routing.New()
	r.Post("/reports", okHandler)

	rr := do(t, r, http.MethodPost, "/reports")
	if rr.Code != http.StatusOK {
		t.Errorf("POST /reports: got %d want 200", rr.Code)
	}
}

func TestRouter_MethodMismatchIs405(t *testing.T) {
	r := routing.New()
	r.Get("/health", okHandler)

	rr := do(t, r, http.MethodPost, "/health")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /health: got %d want 405", rr.Code)
	}
}

// ── Prefix & params ──────────────────────────────────────────────────────────

func TestRouter_PrefixMountsSubRouter(t *testing.T) {
	r := routing.New()
	r.Prefix("/admin", func(admin *routing.Router) {
		admin.Get("/health", okHandler)
	})

	rr := do(t, r, http.MethodGet, "/admin/health")
	if rr.Code != http.StatusOK {
		t.Errorf("GET /admin/health: got %d want 200", rr.Code)
	}
}

func TestRouter_ParamIsExtractable(t *testing.T) {
	r := routing.New()
	r.Get("/checks/{name}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(routing.Param(req, "name")))
	})

	rr := do(t, r, http.MethodGet, "/checks/runtime")
	if got := rr.Body.String(); got != "runtime" {
		t.Errorf("param: got %q want runtime", got)
	}
}

// ── Middleware ───────────────────────────────────────────────────────────────

func TestRouter_GroupMiddlewareDoesNotLeak(t *testing.T) {
	r := routing.New()

	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	}

	r.Group(func(protected *routing.Router) {
		protected.Middleware(deny)
		protected.Get("/secret", okHandler)
	})
	r.Get("/open", okHandler)

	if rr := do(t, r, http.MethodGet, "/secret"); rr.Code != http.StatusForbidden {
		t.Errorf("GET /secret: got %d want 403", rr.Code)
	}
	if rr := do(t, r, http.MethodGet, "/open"); rr.Code != http.StatusOK {
		t.Errorf("GET /open: got %d want 200", rr.Code)
	}
}
