package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dtnitsch/sbc-prices/models"
	"github.com/dtnitsch/sbc-prices/pkg/caching"
	"github.com/dtnitsch/sbc-prices/pkg/logger"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_WarmUpThenPage(t *testing.T) {
	var paths []string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q", got)
		}
		_, _ = w.Write([]byte("<html><body>" + r.URL.Path + "</body></html>"))
	})

	f := NewFetcher(Options{
		BaseURL:         srv.URL + "/",
		PageURL:         srv.URL + "/cheapest",
		UserAgent:       "test-agent",
		Timeout:         time.Second,
		FallbackTimeout: time.Second,
	}, logger.Discard())

	body, err := f.FetchHTML(context.Background())
	if err != nil {
		t.Fatalf("FetchHTML() error = %v", err)
	}
	if string(body) != "<html><body>/cheapest</body></html>" {
		t.Errorf("body = %q", body)
	}
	if len(paths) != 2 || paths[0] != "/" || paths[1] != "/cheapest" {
		t.Errorf("requested paths = %v, want [/ /cheapest]", paths)
	}
}

func TestFetcher_FallbackTimeout(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(200 * time.Millisecond)
		}
		_, _ = w.Write([]byte("ok"))
	})

	f := NewFetcher(Options{
		PageURL:         srv.URL,
		Timeout:         50 * time.Millisecond,
		FallbackTimeout: 2 * time.Second,
	}, logger.Discard())

	body, err := f.FetchHTML(context.Background())
	if err != nil {
		t.Fatalf("FetchHTML() error = %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestFetcher_BadStatus(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	f := NewFetcher(Options{PageURL: srv.URL, Timeout: time.Second, FallbackTimeout: time.Second}, logger.Discard())
	if _, err := f.FetchHTML(context.Background()); err == nil {
		t.Fatal("FetchHTML() expected error for 403")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want one attempt plus one fallback", calls.Load())
	}
}

func TestFetcher_WarmUpFailureIsNotFatal(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("page"))
	})

	f := NewFetcher(Options{
		BaseURL:         srv.URL + "/",
		PageURL:         srv.URL + "/cheapest",
		Timeout:         time.Second,
		FallbackTimeout: time.Second,
	}, logger.Discard())

	body, err := f.FetchHTML(context.Background())
	if err != nil {
		t.Fatalf("FetchHTML() error = %v", err)
	}
	if string(body) != "page" {
		t.Errorf("body = %q", body)
	}
}

type countingSource struct {
	calls int
	html  string
}

func (s *countingSource) FetchHTML(ctx context.Context) ([]byte, error) {
	s.calls++
	return []byte(s.html), nil
}

func TestCached(t *testing.T) {
	cache, err := caching.NewPageCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	src := &countingSource{html: "<p class=\"x\">hello</p>"}
	cached := Cached{Source: src, Cache: cache, Key: "https://example.com/cheapest", Log: logger.Discard()}

	for i := 0; i < 3; i++ {
		doc, err := Document(context.Background(), cached)
		if err != nil {
			t.Fatalf("Document() error = %v", err)
		}
		if got := doc.Find(".x").Text(); got != "hello" {
			t.Errorf("text = %q", got)
		}
	}
	if src.calls != 1 {
		t.Errorf("source called %d times, want 1", src.calls)
	}
}

func TestNewSource(t *testing.T) {
	cfg := models.DefaultConfig().Fetch

	src, err := NewSource(cfg, logger.Discard())
	if err != nil {
		t.Fatalf("NewSource(http) error = %v", err)
	}
	if _, ok := src.(*Fetcher); !ok {
		t.Errorf("NewSource(http) = %T, want *Fetcher", src)
	}

	cfg.Mode = "browser"
	src, err = NewSource(cfg, logger.Discard())
	if err != nil {
		t.Fatalf("NewSource(browser) error = %v", err)
	}
	if _, ok := src.(*Browser); !ok {
		t.Errorf("NewSource(browser) = %T, want *Browser", src)
	}

	cfg.Mode = "http"
	cfg.CacheDir = t.TempDir()
	cfg.CacheTTL = time.Minute
	src, err = NewSource(cfg, logger.Discard())
	if err != nil {
		t.Fatalf("NewSource(cached) error = %v", err)
	}
	if _, ok := src.(Cached); !ok {
		t.Errorf("NewSource(cached) = %T, want Cached", src)
	}

	cfg.Mode = "ftp"
	if _, err := NewSource(cfg, logger.Discard()); err == nil {
		t.Error("NewSource(ftp) expected error")
	}
}
