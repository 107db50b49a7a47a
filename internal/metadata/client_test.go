package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/external/google-books/9780134685991" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"kind": "books#volumes",
			"totalItems": 2,
			"items": [
				{"volumeInfo": {
					"title": "Effective Java",
					"authors": ["Joshua Bloch"],
					"publisher": "Addison-Wesley",
					"publishedDate": "2018-01-06",
					"description": "The definitive guide.",
					"pageCount": 416,
					"imageLinks": {"smallThumbnail": "http://img/s.jpg", "thumbnail": "http://img/t.jpg"}
				}},
				{"volumeInfo": {"title": "Second match"}}
			]
		}`))
	}))
	defer server.Close()

	volume, err := NewClient(server.URL).Lookup(context.Background(), "9780134685991")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if volume == nil {
		t.Fatal("expected volume, got nil")
	}
	if volume.Title != "Effective Java" {
		t.Errorf("expected first item, got %q", volume.Title)
	}
	if volume.Publisher != "Addison-Wesley" {
		t.Errorf("expected publisher Addison-Wesley, got %q", volume.Publisher)
	}
	if volume.PageCount != 416 {
		t.Errorf("expected 416 pages, got %d", volume.PageCount)
	}
	if volume.Thumbnail() != "http://img/t.jpg" {
		t.Errorf("expected thumbnail http://img/t.jpg, got %q", volume.Thumbnail())
	}
}

func TestLookup_NoItems(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing items", `{"kind": "books#volumes", "totalItems": 0}`},
		{"empty items", `{"items": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			volume, err := NewClient(server.URL).Lookup(context.Background(), "9780136291558")
			if err != nil {
				t.Fatalf("absence must not be an error, got %v", err)
			}
			if volume != nil {
				t.Errorf("expected nil volume, got %+v", volume)
			}
		})
	}
}

func TestLookup_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	if _, err := client.Lookup(context.Background(), "9780134685991"); err == nil {
		t.Error("expected error for upstream failure")
	}
	if _, err := client.Lookup(context.Background(), "  "); !errors.Is(err, ErrEmptyISBN) {
		t.Errorf("expected ErrEmptyISBN, got %v", err)
	}
}

func TestLookup_RateLimitHonoursContext(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRateLimit(0.01, 1))

	if _, err := client.Lookup(context.Background(), "9780134685991"); err != nil {
		t.Fatalf("first lookup should use the burst: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.Lookup(ctx, "9780134685991"); err == nil {
		t.Error("expected rate limiter to give up when the context expires")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 upstream call, got %d", got)
	}
}

func TestThumbnailFallback(t *testing.T) {
	var nilVolume *Volume
	if nilVolume.Thumbnail() != "" {
		t.Error("nil volume should have no thumbnail")
	}

	v := &Volume{ImageLinks: &ImageLinks{SmallThumbnail: "http://img/s.jpg"}}
	if v.Thumbnail() != "http://img/s.jpg" {
		t.Errorf("expected small thumbnail fallback, got %q", v.Thumbnail())
	}
}
