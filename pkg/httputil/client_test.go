package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/stackfetch/pkg/observability"
)

func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.UserAgent(), "stackfetch/") {
			t.Errorf("User-Agent = %q", r.UserAgent())
		}
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("hello"))
		case "/gone":
			w.WriteHeader(http.StatusGone)
		case "/busy":
			w.WriteHeader(http.StatusServiceUnavailable)
		case "/limited":
			w.WriteHeader(http.StatusTooManyRequests)
		case "/denied":
			w.WriteHeader(http.StatusForbidden)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(nil)
	ctx := context.Background()

	data, err := c.Get(ctx, srv.URL+"/ok")
	if err != nil || string(data) != "hello" {
		t.Fatalf("Get(/ok) = %q, %v", data, err)
	}

	tests := []struct {
		path      string
		notFound  bool
		retryable bool
	}{
		{"/missing", true, false},
		{"/gone", true, false},
		{"/busy", false, true},
		{"/limited", false, true},
		{"/denied", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := c.Get(ctx, srv.URL+tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrNotFound); got != tt.notFound {
				t.Errorf("ErrNotFound = %v, want %v (%v)", got, tt.notFound, err)
			}
			if got := IsRetryable(err); got != tt.retryable {
				t.Errorf("retryable = %v, want %v (%v)", got, tt.retryable, err)
			}
		})
	}
}

func TestClientConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(nil).Get(context.Background(), url+"/x")
	if !errors.Is(err, ErrNetwork) || !IsRetryable(err) {
		t.Errorf("connection failure should be a retryable network error, got %v", err)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	requests, responses int
	lastStatus          int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string, string) { h.requests++ }
func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.responses++
	h.lastStatus = status
}

func TestClientEmitsHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, _ = NewClient(nil).Get(context.Background(), srv.URL+"/a")
	if hooks.requests != 1 || hooks.responses != 1 || hooks.lastStatus != 404 {
		t.Errorf("hooks = %+v", hooks)
	}
}
