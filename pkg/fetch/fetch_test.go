package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xwui-dev/xwui/pkg/loop"
	"github.com/xwui-dev/xwui/pkg/metrics"
)

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []user{{1, "ada"}, {2, "bob"}})
	})
	r.Post("/echo", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		body["method"] = r.Method
		body["contentType"] = r.Header.Get("Content-Type")
		writeJSON(w, http.StatusCreated, body)
	})
	r.Put("/echo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"method": r.Method})
	})
	r.Patch("/echo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"method": r.Method})
	})
	r.Delete("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/text", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("hello " + r.Header.Get("X-Token")))
	})
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such thing"})
	})
	r.Get("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetDecodesJSON(t *testing.T) {
	srv := newAPI(t)
	c := New(srv.URL)

	got, err := c.Get(context.Background(), "/users")
	if err != nil {
		t.Fatal(err)
	}
	want := []any{
		map[string]any{"id": float64(1), "name": "ada"},
		map[string]any{"id": float64(2), "name": "bob"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}
}

func TestIntoDecodesTyped(t *testing.T) {
	srv := newAPI(t)
	c := New(srv.URL)

	var users []user
	if _, err := c.Get(context.Background(), "/users", Into(&users)); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]user{{1, "ada"}, {2, "bob"}}, users); diff != "" {
		t.Errorf("Into mismatch (-want +got):\n%s", diff)
	}
}

func TestBodyMethods(t *testing.T) {
	srv := newAPI(t)
	c := New(srv.URL)
	ctx := context.Background()

	got, err := c.Post(ctx, "/echo", map[string]any{"name": "ada"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"name": "ada", "method": "POST", "contentType": "application/json"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Post mismatch (-want +got):\n%s", diff)
	}

	for name, call := range map[string]func() (any, error){
		"PUT":   func() (any, error) { return c.Put(ctx, "/echo", 1) },
		"PATCH": func() (any, error) { return c.Patch(ctx, "/echo", 1) },
	} {
		got, err := call()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if m, _ := got.(map[string]any); m["method"] != name {
			t.Errorf("%s echoed %v", name, got)
		}
	}

	got, err = c.Delete(ctx, "/users/1")
	if err != nil || got != "" {
		t.Errorf("Delete() = %q, %v", got, err)
	}
}

func TestTextAndHeaders(t *testing.T) {
	srv := newAPI(t)
	c := New(srv.URL).SetHeader("X-Token", "default")
	ctx := context.Background()

	got, err := c.Get(ctx, "/text")
	if err != nil || got != "hello default" {
		t.Errorf("Get(/text) = %v, %v", got, err)
	}
	got, _ = c.Get(ctx, "/text", WithHeader("X-Token", "override"))
	if got != "hello override" {
		t.Errorf("per-request header not applied: %v", got)
	}
}

func TestStatusError(t *testing.T) {
	srv := newAPI(t)
	c := New(srv.URL)
	ctx := context.Background()

	_, err := c.Get(ctx, "/missing")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Status != 404 || se.StatusText != "Not Found" {
		t.Errorf("StatusError = %+v", se)
	}
	if diff := cmp.Diff(map[string]any{"error": "no such thing"}, se.Data); diff != "" {
		t.Errorf("Data mismatch (-want +got):\n%s", diff)
	}

	_, err = c.Get(ctx, "/broken")
	if !errors.As(err, &se) || se.Data != "upstream down" {
		t.Errorf("text error body = %v", err)
	}
}

func TestTransportErrorAndMetrics(t *testing.T) {
	srv := newAPI(t)
	reg := prometheus.NewRegistry()
	c := New(srv.URL, WithMetrics(metrics.New(metrics.WithRegistry(reg))))
	ctx := context.Background()

	c.Get(ctx, "/users")
	c.Get(ctx, "/missing")
	c.SetBaseURL("http://127.0.0.1:1")
	if _, err := c.Get(ctx, "/users"); err == nil {
		t.Error("expected a transport error")
	} else if errors.As(err, new(*StatusError)) {
		t.Errorf("transport failure should not be a StatusError: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "xwui_http_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "status" {
					got[l.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}
	if diff := cmp.Diff(map[string]float64{"2xx": 1, "4xx": 1, "error": 1}, got); diff != "" {
		t.Errorf("request metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestAsyncDeliversOnLoop(t *testing.T) {
	srv := newAPI(t)
	c := New(srv.URL)

	lp := loop.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go lp.Run(ctx)

	type outcome struct {
		result any
		err    error
	}
	done := make(chan outcome, 1)
	c.Async(ctx, lp, http.MethodGet, "/text", nil, func(result any, err error) {
		done <- outcome{result, err}
	})

	select {
	case o := <-done:
		if o.err != nil || o.result != "hello " {
			t.Errorf("Async result = %v, %v", o.result, o.err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Async callback never ran")
	}
}
