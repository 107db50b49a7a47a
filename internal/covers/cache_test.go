package covers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// jpegData starts with a JPEG SOI/APP0 marker so content sniffing sees an image.
var jpegData = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01}

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(jpegData)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewCache(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "covers")

	cache, err := NewCache(cacheDir)
	if err != nil {
		t.Fatalf("NewCache failed: %v", err)
	}
	if cache.CacheDir() != cacheDir {
		t.Errorf("expected cache dir %s, got %s", cacheDir, cache.CacheDir())
	}
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		t.Error("cache directory was not created")
	}
}

func TestGetCover_EmptyURL(t *testing.T) {
	cache, _ := NewCache(t.TempDir())

	path, err := cache.GetCover(context.Background(), "1", "")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path for empty URL, got %s", path)
	}
}

func TestGetCover_FetchAndCache(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write(jpegData)
	}))
	defer server.Close()

	cache, _ := NewCache(t.TempDir())

	path1, err := cache.GetCover(context.Background(), "1", server.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("GetCover failed: %v", err)
	}
	if _, err := os.Stat(path1); os.IsNotExist(err) {
		t.Error("cached file does not exist")
	}

	path2, err := cache.GetCover(context.Background(), "1", server.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("GetCover (cached) failed: %v", err)
	}
	if path1 != path2 {
		t.Error("expected same path for cached request")
	}
	if hits != 1 {
		t.Errorf("expected one download, got %d", hits)
	}
	if ct := cache.ContentType(path1); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", ct)
	}
}

func TestGetCover_FetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cache, _ := NewCache(t.TempDir())

	if _, err := cache.GetCover(context.Background(), "1", server.URL+"/notfound.jpg"); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestGetCover_RejectsNonImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>login required</body></html>"))
	}))
	defer server.Close()

	dir := t.TempDir()
	cache, _ := NewCache(dir)

	if _, err := cache.GetCover(context.Background(), "1", server.URL+"/cover.jpg"); err == nil {
		t.Error("expected error for non-image body")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no files left behind, found %d", len(entries))
	}
}

func TestInvalidateCover(t *testing.T) {
	server := imageServer(t)
	cache, _ := NewCache(t.TempDir())

	path, err := cache.GetCover(context.Background(), "1", server.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("GetCover failed: %v", err)
	}
	other, err := cache.GetCover(context.Background(), "12", server.URL+"/cover.jpg")
	if err != nil {
		t.Fatalf("GetCover failed: %v", err)
	}

	if err := cache.InvalidateCover("1"); err != nil {
		t.Fatalf("InvalidateCover failed: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cached file should be deleted after invalidation")
	}
	if _, err := os.Stat(other); err != nil {
		t.Error("cover of another book should survive invalidation")
	}
}

func TestPrune(t *testing.T) {
	server := imageServer(t)
	dir := t.TempDir()
	cache, _ := NewCache(dir)

	stale, _ := cache.GetCover(context.Background(), "1", server.URL+"/a.jpg")
	fresh, _ := cache.GetCover(context.Background(), "2", server.URL+"/b.jpg")

	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	unrelated := filepath.Join(dir, "README")
	if err := os.WriteFile(unrelated, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}
	_ = os.Chtimes(unrelated, old, old)

	removed, err := cache.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 file removed, got %d", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale cover should be pruned")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("fresh cover should be kept")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("files outside the cache naming scheme should be kept")
	}
}

func TestCoverFilename(t *testing.T) {
	cache, _ := NewCache(t.TempDir())

	name1 := cache.coverFilename("1", "https://example.com/cover.jpg")
	if name1 != cache.coverFilename("1", "https://example.com/cover.jpg") {
		t.Error("same inputs should produce same filename")
	}
	if name1 == cache.coverFilename("1", "https://example.com/other.jpg") {
		t.Error("different URLs should produce different filenames")
	}
	if name1 == cache.coverFilename("2", "https://example.com/cover.jpg") {
		t.Error("different book IDs should produce different filenames")
	}
	if got := safeID("../etc/passwd"); got != "---etc-passwd" {
		t.Errorf("unexpected sanitised id %q", got)
	}
}

func TestUsage(t *testing.T) {
	dir := t.TempDir()
	cache, _ := NewCache(dir)

	if err := os.WriteFile(filepath.Join(dir, "cover_1_a.jpg"), make([]byte, 100), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "cover_2_b.png"), make([]byte, 50), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	files, size, err := cache.Usage()
	if err != nil {
		t.Fatalf("Usage failed: %v", err)
	}
	if files != 2 || size != 150 {
		t.Errorf("expected 2 files and 150 bytes, got %d files and %d bytes", files, size)
	}
}
