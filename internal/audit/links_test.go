package audit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nikbrunner/vault/internal/model"
)

func TestCheckLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusGone)
		case "/head-not-allowed":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.WriteHeader(http.StatusOK)
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	bookmarks := []model.Bookmark{
		{ID: "1", URL: srv.URL + "/ok"},
		{ID: "2", URL: srv.URL + "/missing"},
		{ID: "3", URL: srv.URL + "/gone"},
		{ID: "4", URL: srv.URL + "/head-not-allowed"},
		{ID: "5", URL: srv.URL + "/broken"},
		{ID: "6", URL: "mailto:someone@example.com"},
	}

	var calls atomic.Int32
	results := CheckLinks(context.Background(), bookmarks, LinkOptions{
		Concurrency: 3,
		Timeout:     5 * time.Second,
		OnProgress: func(completed, total int) {
			calls.Add(1)
			if total != len(bookmarks) {
				t.Errorf("total = %d, want %d", total, len(bookmarks))
			}
		},
	})

	want := []Status{Healthy, Dead, Dead, Healthy, Unreachable, Unreachable}
	if len(results) != len(want) {
		t.Fatalf("got %d results, want %d", len(results), len(want))
	}
	for i, r := range results {
		if r.Bookmark.ID != bookmarks[i].ID {
			t.Errorf("results[%d] is bookmark %s, want %s", i, r.Bookmark.ID, bookmarks[i].ID)
		}
		if r.Status != want[i] {
			t.Errorf("%s: status = %s, want %s (%s)", r.Bookmark.URL, r.Status, want[i], r.Error)
		}
	}
	if results[4].Error != "Internal Server Error" {
		t.Errorf("results[4].Error = %q", results[4].Error)
	}
	if results[5].Error != "Not an HTTP URL" {
		t.Errorf("results[5].Error = %q", results[5].Error)
	}
	if int(calls.Load()) != len(bookmarks) {
		t.Errorf("progress called %d times, want %d", calls.Load(), len(bookmarks))
	}
}

func TestCheckLinks_Empty(t *testing.T) {
	if got := CheckLinks(context.Background(), nil, LinkOptions{}); got != nil {
		t.Errorf("CheckLinks(nil) = %v, want nil", got)
	}
}

func TestIsExcludedDomain(t *testing.T) {
	excluded := map[string]bool{"github.com": true}
	tests := []struct {
		url  string
		want bool
	}{
		{"https://github.com/me/private", true},
		{"https://api.github.com/repos", true},
		{"https://notgithub.com", false},
		{"https://gitlab.com", false},
	}
	for _, tt := range tests {
		if got := isExcludedDomain(tt.url, excluded); got != tt.want {
			t.Errorf("isExcludedDomain(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestNormalizeError(t *testing.T) {
	tests := map[string]string{
		"dial tcp: lookup nope.invalid: no such host":       "DNS failure",
		"Get \"x\": context deadline exceeded":              "Timeout",
		"dial tcp 127.0.0.1:1: connect: connection refused": "Connection refused",
		"x509: certificate signed by unknown authority":     "TLS/certificate error",
		"something else": "something else",
	}
	for in, want := range tests {
		if got := normalizeError(in); got != want {
			t.Errorf("normalizeError(%q) = %q, want %q", in, got, want)
		}
	}
}
