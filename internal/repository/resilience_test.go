package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func serveJSON(t *testing.T, index, detail string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/clients.json":
			_, _ = w.Write([]byte(index))
		case "/acme.json":
			_, _ = w.Write([]byte(detail))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newHTTPRepository(t *testing.T, baseURL string) *Repository {
	t.Helper()
	repo, err := New(NewHTTPSource(baseURL), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return repo
}

func TestHTTPSource_IgnoresUnexpectedFields(t *testing.T) {
	server := serveJSON(t,
		`[{"id":"acme","name":"Acme Gym","status":"active","platforms":["instagram"],"tier":"gold"}]`,
		`{"id":"acme","name":"Acme Gym","metrics":{"daily":[{"date":"2026-01-01","platform":"instagram","followers":10,"sentiment":0.4}],"posts":[]},"owner":{"name":"x"}}`,
	)
	repo := newHTTPRepository(t, server.URL)
	ctx := context.Background()

	if clients := repo.ListClients(ctx); len(clients) != 1 || clients[0].Name != "Acme Gym" {
		t.Fatalf("clients should load when the index carries extra fields, got %+v", clients)
	}
	daily := repo.DailyMetrics(ctx, "acme", DailyFilter{})
	if len(daily) != 1 || daily[0].Followers != 10 {
		t.Errorf("daily metrics should load when entries carry extra fields, got %+v", daily)
	}
}

func TestHTTPSource_HandlesEmptyIndex(t *testing.T) {
	server := serveJSON(t, `[]`, `{}`)
	repo := newHTTPRepository(t, server.URL)

	clients := repo.ListClients(context.Background())

	if clients == nil {
		t.Fatal("should return empty slice, not nil")
	}
	if len(clients) != 0 {
		t.Errorf("expected 0 clients, got %d", len(clients))
	}
}

func TestHTTPSource_HandlesMissingOptionalSections(t *testing.T) {
	server := serveJSON(t, `[]`, `{"id":"acme","name":"Acme Gym","metrics":{}}`)
	repo := newHTTPRepository(t, server.URL)
	ctx := context.Background()

	if _, ok := repo.ClientDetail(ctx, "acme"); !ok {
		t.Fatal("a bundle without metrics sections is still a bundle")
	}
	if _, ok := repo.Demographics(ctx, "acme"); ok {
		t.Error("missing demographics should be reported as absent")
	}
	if posts := repo.Posts(ctx, "acme"); len(posts) != 0 {
		t.Errorf("expected no posts, got %d", len(posts))
	}
}

func TestHTTPSource_HandlesNullFields(t *testing.T) {
	server := serveJSON(t,
		`[{"id":"acme","name":"Acme Gym","industry":null,"platforms":null,"status":"active"}]`,
		`{"id":"acme","name":"Acme Gym","metrics":{"daily":null,"posts":null,"demographics":null}}`,
	)
	repo := newHTTPRepository(t, server.URL)
	ctx := context.Background()

	c, ok := repo.Client(ctx, "acme")
	if !ok || c.Name != "Acme Gym" {
		t.Fatalf("client should load despite null fields, got %+v", c)
	}
	if _, ok := repo.ClientDetail(ctx, "acme"); !ok {
		t.Error("bundle should load despite null sections")
	}
}

func TestHTTPSource_StatusErrorsAreReadable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   string
	}{
		{"server down", http.StatusInternalServerError, "server error"},
		{"gateway timeout", http.StatusGatewayTimeout, "server error"},
		{"denied", http.StatusForbidden, "denied access"},
		{"unauthorized", http.StatusUnauthorized, "denied access"},
		{"rate limited", http.StatusTooManyRequests, "HTTP 429"},
		{"gone", http.StatusGone, ErrNotFound.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewHTTPSource(server.URL).Index(context.Background())

			if err == nil {
				t.Fatalf("expected error for HTTP %d", tt.status)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %q, got %v", tt.want, err)
			}
		})
	}
}

func TestHTTPSource_MalformedBundleIsAbsent(t *testing.T) {
	tests := []struct {
		name   string
		detail string
	}{
		{"not json", `<html>maintenance</html>`},
		{"truncated", `{"id":"acme","metrics":{"daily":[{"date":"2026-01-01",`},
		{"wrong shape", `["acme"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := serveJSON(t, `[]`, tt.detail)
			repo := newHTTPRepository(t, server.URL)

			if _, ok := repo.ClientDetail(context.Background(), "acme"); ok {
				t.Error("an unreadable bundle should be reported as absent")
			}
		})
	}
}

func TestHTTPSource_IndexFailureIsRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"acme","name":"Acme Gym","status":"active"}]`))
	}))
	defer server.Close()

	repo := newHTTPRepository(t, server.URL)
	ctx := context.Background()

	if got := len(repo.ListClients(ctx)); got != 0 {
		t.Fatalf("expected no clients while the index is down, got %d", got)
	}
	if got := len(repo.ListClients(ctx)); got != 1 {
		t.Errorf("index should be fetched again after a failure, got %d clients", got)
	}
	_ = repo.ListClients(ctx)
	if n := calls.Load(); n != 2 {
		t.Errorf("a loaded index should be cached, got %d requests", n)
	}
}

func TestHTTPSource_RespectsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewHTTPSource(server.URL).Detail(ctx, "acme")

	if err == nil {
		t.Fatal("expected an error once the deadline passes")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("request should stop at the deadline, took %v", elapsed)
	}
}

func TestDirSource_RespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewDirSource("testdata").Index(ctx); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}
