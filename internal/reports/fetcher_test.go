package reports

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPFetcherSuccess(t *testing.T) {
	t.Parallel()

	want := []byte("%PDF-1.4\nbinary content")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(want)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5 * time.Second)
	got, err := f.Fetch(context.Background(), srv.URL+"/report.pdf")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Fetch = %q, want %q", got, want)
	}
}

func TestHTTPFetcherNon2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5 * time.Second)
	_, err := f.Fetch(context.Background(), srv.URL+"/missing.pdf")
	if err == nil || !strings.Contains(err.Error(), "unexpected status 404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestHTTPFetcherTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(50 * time.Millisecond)
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestHTTPFetcherDefaultTimeout(t *testing.T) {
	t.Parallel()

	f := NewHTTPFetcher(0)
	if f.Client.Timeout != 30*time.Second {
		t.Fatalf("default timeout = %v, want 30s", f.Client.Timeout)
	}
}

func TestHTTPFetcherBadURL(t *testing.T) {
	t.Parallel()

	f := NewHTTPFetcher(time.Second)
	if _, err := f.Fetch(context.Background(), "://not-a-url"); err == nil {
		t.Fatalf("expected error for malformed url")
	}
}
