package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"stayhost/pkg/config"
	"stayhost/pkg/contracts"
	"stayhost/pkg/logger"
)

type routes func(*httprouter.Router)

func (f routes) RegisterRoutes(r *httprouter.Router) { f(r) }

func testConfig() *config.Config {
	return &config.Config{
		Port:            "8080",
		RequestTimeout:  5 * time.Second,
		MaxRequestSize:  64,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     5 * time.Second,
		ShutdownTimeout: time.Second,
		Log:             logger.Discard(),
	}
}

func newTestApp(inner ...Middleware) *Application {
	appRoutes := routes(func(r *httprouter.Router) {
		r.POST("/echo", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			w.Header().Set("X-Inner", r.Header.Get("X-Inner"))
			w.WriteHeader(http.StatusOK)
		})
		r.GET("/panic", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			panic("boom")
		})
	})
	healthRoutes := routes(func(r *httprouter.Router) {
		r.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusOK)
		})
	})

	a := NewApplication()
	a.SetApp(testConfig(), appRoutes, healthRoutes, inner...)
	return a
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestApplication_Routes(t *testing.T) {
	h := newTestApp().Handler()

	if w := do(h, httptest.NewRequest(http.MethodGet, "/health", nil)); w.Code != http.StatusOK {
		t.Errorf("/health: expected 200, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	if w := do(h, req); w.Code != http.StatusOK {
		t.Errorf("/echo: expected 200, got %d", w.Code)
	}
}

func TestApplication_MiddlewareStack(t *testing.T) {
	h := newTestApp().Handler()

	t.Run("panic recovered", func(t *testing.T) {
		w := do(h, httptest.NewRequest(http.MethodGet, "/panic", nil))
		if w.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", w.Code)
		}
		if strings.Contains(w.Body.String(), "goroutine") {
			t.Error("stack trace leaked into the response")
		}
	})

	t.Run("non-JSON body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("query=ciao"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if w := do(h, req); w.Code != http.StatusUnsupportedMediaType {
			t.Errorf("expected 415, got %d", w.Code)
		}
	})

	t.Run("request id assigned", func(t *testing.T) {
		w := do(h, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Header().Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
	})
}

func TestApplication_InnerMiddlewareRunsBeforeRouter(t *testing.T) {
	inner := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Header.Set("X-Inner", "yes")
			next.ServeHTTP(w, r)
		})
	}
	h := newTestApp(inner).Handler()

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := do(h, req)

	if w.Header().Get("X-Inner") != "yes" {
		t.Error("inner middleware did not run")
	}
}

func TestApplication_StopBackgroundOnce(t *testing.T) {
	a := newTestApp()
	calls := 0
	a.OnShutdown(contracts.StopFunc(func() { calls++ }), contracts.StopFunc(func() { calls++ }))

	a.stopBackground()
	a.stopBackground()

	if calls != 2 {
		t.Errorf("expected each stopper to run once, got %d calls", calls)
	}
}
