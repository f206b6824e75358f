package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-ID") != "u1" {
			http.Error(w, "missing user", http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/echo":
			var in map[string]string
			json.NewDecoder(r.Body).Decode(&in)
			json.NewEncoder(w).Encode(map[string]string{"method": r.Method, "got": in["v"]})
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		case "/boom":
			http.Error(w, "boom", http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", map[string]string{"X-User-ID": "u1"})
	ctx := context.Background()

	var out map[string]string
	if err := c.Do(ctx, http.MethodPatch, "/echo", map[string]string{"v": "x"}, &out); err != nil {
		t.Fatal(err)
	}
	if out["method"] != "PATCH" || out["got"] != "x" {
		t.Errorf("out = %v", out)
	}
	if err := c.Do(ctx, http.MethodDelete, "/empty", nil, &out); err != nil {
		t.Errorf("204: %v", err)
	}

	tests := []struct {
		path      string
		is        error
		retryable bool
		status    int
	}{
		{"/missing", ErrNotFound, false, http.StatusNotFound},
		{"/boom", ErrNetwork, true, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := c.Do(ctx, http.MethodGet, tt.path, nil, nil)
			if !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
			if IsRetryable(err) != tt.retryable {
				t.Errorf("retryable = %v, want %v", IsRetryable(err), tt.retryable)
			}
			if Status(err) != tt.status {
				t.Errorf("Status() = %d, want %d", Status(err), tt.status)
			}
		})
	}
}

func TestClientTransportErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewClient(url, nil).Do(context.Background(), http.MethodGet, "/", nil, nil)
	if !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want retryable network error", err)
	}
}

func TestRetryAttemptsDoublesDelay(t *testing.T) {
	var stamps []time.Time
	err := RetryAttempts(context.Background(), 3, 10*time.Millisecond, func(attempt int) error {
		stamps = append(stamps, time.Now())
		return &RetryableError{Err: errors.New("again")}
	})
	if err == nil || len(stamps) != 3 {
		t.Fatalf("err = %v, attempts = %d", err, len(stamps))
	}
	if gap := stamps[2].Sub(stamps[1]); gap < 20*time.Millisecond {
		t.Errorf("second delay = %v, want >= 20ms", gap)
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("again")}
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Errorf("err = %v calls = %d", err, calls)
	}
}
