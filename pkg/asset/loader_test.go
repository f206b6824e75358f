package asset

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/bmp"

	"github.com/matzehuels/artboard/pkg/cache"
	apperr "github.com/matzehuels/artboard/pkg/errors"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeBMP(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testLoader(opts Options) *Loader {
	if opts.Delay == 0 {
		opts.Delay = time.Millisecond
	}
	opts.Logger = log.New(io.Discard)
	return NewLoader(opts)
}

func TestLoadDecodesHeader(t *testing.T) {
	pngData := encodePNG(t, 640, 480)
	bmpData := encodeBMP(t, 12, 7)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a.png":
			w.Write(pngData)
		case "/b.bmp":
			w.Write(bmpData)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tests := []struct {
		path   string
		w, h   int
		format string
	}{
		{"/a.png", 640, 480, "png"},
		{"/b.bmp", 12, 7, "bmp"},
	}
	l := testLoader(Options{})
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			info, err := l.Load(context.Background(), srv.URL+tt.path)
			if err != nil {
				t.Fatal(err)
			}
			if info.Width != tt.w || info.Height != tt.h || info.Format != tt.format {
				t.Errorf("Load() = %+v", info)
			}
		})
	}
}

func TestLoadRetriesWithBackoff(t *testing.T) {
	data := encodePNG(t, 10, 10)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	info, err := testLoader(Options{}).Load(context.Background(), srv.URL+"/img.png")
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 || info.Width != 10 {
		t.Errorf("calls = %d, info = %+v", calls.Load(), info)
	}
}

func TestLoadErrorClasses(t *testing.T) {
	data := encodePNG(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.png":
			http.NotFound(w, r)
		case "/down.png":
			http.Error(w, "down", http.StatusBadGateway)
		case "/garbage.png":
			w.Write([]byte("not an image"))
		case "/private.png":
			w.Header().Set("Access-Control-Allow-Origin", "https://other.example")
			w.Write(data)
		case "/public.png":
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Write(data)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		url    string
		origin string
		want   Class
	}{
		{"not found", srv.URL + "/missing.png", "", ClassNotFound},
		{"server error", srv.URL + "/down.png", "", ClassNetwork},
		{"undecodable", srv.URL + "/garbage.png", "", ClassOther},
		{"cross origin", srv.URL + "/private.png", "https://studio.example", ClassCrossOrigin},
		{"unreachable", "http://127.0.0.1:1/x.png", "", ClassNetwork},
		{"bad scheme", "ftp://example.com/x.png", "", ClassOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testLoader(Options{Origin: tt.origin}).Load(context.Background(), tt.url)
			if !apperr.Is(err, apperr.ErrCodeResourceLoad) {
				t.Fatalf("error = %v, want RESOURCE_LOAD", err)
			}
			le, ok := AsLoadError(err)
			if !ok {
				t.Fatalf("no *LoadError in %v", err)
			}
			if le.Class != tt.want {
				t.Errorf("class = %s, want %s", le.Class, tt.want)
			}
			if le.Message() == "" {
				t.Error("empty message")
			}
		})
	}

	if _, err := testLoader(Options{Origin: "https://studio.example"}).Load(context.Background(), srv.URL+"/public.png"); err != nil {
		t.Errorf("wildcard origin rejected: %v", err)
	}
}

func TestLoadUsesCache(t *testing.T) {
	data := encodePNG(t, 3, 2)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write(data)
	}))
	defer srv.Close()

	l := testLoader(Options{Cache: cache.NewMemoryCache(nil)})
	for range 3 {
		info, err := l.Load(context.Background(), srv.URL+"/c.png")
		if err != nil || info.Width != 3 {
			t.Fatalf("Load() = %+v, %v", info, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("server hit %d times, want 1", calls.Load())
	}
}

func TestLoadCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testLoader(Options{Delay: time.Hour}).Load(ctx, srv.URL+"/x.png")
	le, ok := AsLoadError(err)
	if !ok || le.Class != ClassNetwork {
		t.Errorf("error = %v, want network class", err)
	}
}

func TestFitScale(t *testing.T) {
	tests := []struct {
		w, h, vw, vh, want float64
	}{
		{100, 100, 1000, 800, 1},
		{1600, 400, 1000, 800, 0.5},
		{400, 1280, 1000, 800, 0.5},
		{0, 10, 1000, 800, 1},
	}
	for _, tt := range tests {
		if got := FitScale(tt.w, tt.h, tt.vw, tt.vh); got != tt.want {
			t.Errorf("FitScale(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
