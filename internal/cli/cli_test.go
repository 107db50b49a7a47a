package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/creation"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// fakeBackend serves the catalog and lookup endpoints from memory.
type fakeBackend struct {
	mu      sync.Mutex
	books   []entities.Book
	volumes map[string]map[string]any
	posted  []entities.Draft
	images  []string
	deleted []string
}

func newFakeBackend(t *testing.T, books []entities.Book) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{books: books, volumes: map[string]map[string]any{}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		_ = json.NewEncoder(w).Encode(fb.books)
	})
	mux.HandleFunc("GET /api/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		for _, b := range fb.books {
			if string(b.ID) == r.PathValue("id") {
				_ = json.NewEncoder(w).Encode(b)
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("DELETE /api/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.deleted = append(fb.deleted, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/books", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		part, _, err := r.FormFile("book")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer part.Close()
		var draft entities.Draft
		if err := json.NewDecoder(part).Decode(&draft); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.posted = append(fb.posted, draft)
		if _, fh, err := r.FormFile("image"); err == nil {
			fb.images = append(fb.images, fh.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(entities.Book{ID: "42", Title: draft.Title})
	})
	mux.HandleFunc("GET /api/external/google-books/{isbn}", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		items := []map[string]any{}
		if v, ok := fb.volumes[r.PathValue("isbn")]; ok {
			items = append(items, map[string]any{"volumeInfo": v})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fb, srv
}

func backendFor(srv *httptest.Server) backendFlags {
	return backendFlags{APIURL: srv.URL, Timeout: 5 * time.Second}
}

func sampleBooks(n int) []entities.Book {
	books := make([]entities.Book, n)
	for i := range books {
		books[i] = entities.Book{
			ID:     entities.BookID(string(rune('a' + i))),
			Title:  "Title " + string(rune('A'+i)),
			Author: "Author",
			Genre:  entities.GenreMystery,
			ISBN:   "978000000000" + string(rune('0'+i%10)),
			Rating: i%5 + 1,
		}
	}
	return books
}

func TestListCommand(t *testing.T) {
	t.Run("prints the requested page", func(t *testing.T) {
		_, srv := newFakeBackend(t, sampleBooks(12))
		var out bytes.Buffer
		cmd := &ListCommand{backend: backendFor(srv), Page: 2, Out: &out}

		require.NoError(t, cmd.Run())

		assert.Contains(t, out.String(), "Title K")
		assert.Contains(t, out.String(), "Title L")
		assert.NotContains(t, out.String(), "Title A")
		assert.Contains(t, out.String(), "Page 2 of 2")
	})

	t.Run("prints every page", func(t *testing.T) {
		_, srv := newFakeBackend(t, sampleBooks(12))
		var out bytes.Buffer
		cmd := &ListCommand{backend: backendFor(srv), All: true, Out: &out}

		require.NoError(t, cmd.Run())

		assert.Contains(t, out.String(), "Page 1 of 2")
		assert.Contains(t, out.String(), "Page 2 of 2")
	})

	t.Run("sorts by rating", func(t *testing.T) {
		books := []entities.Book{
			{ID: "1", Title: "Three", Rating: 3},
			{ID: "2", Title: "Five", Rating: 5},
			{ID: "3", Title: "One", Rating: 1},
		}
		_, srv := newFakeBackend(t, books)
		var out bytes.Buffer
		cmd := &ListCommand{backend: backendFor(srv), Sort: "rating-desc", Page: 1, Out: &out}

		require.NoError(t, cmd.Run())

		s := out.String()
		five, three, one := strings.Index(s, "Five"), strings.Index(s, "Three"), strings.Index(s, "One")
		assert.Less(t, five, three)
		assert.Less(t, three, one)
	})

	t.Run("rejects an unknown sort", func(t *testing.T) {
		_, srv := newFakeBackend(t, sampleBooks(1))
		cmd := &ListCommand{backend: backendFor(srv), Sort: "price", Out: &bytes.Buffer{}}

		assert.Error(t, cmd.Run())
	})

	t.Run("reports an empty catalog", func(t *testing.T) {
		_, srv := newFakeBackend(t, nil)
		var out bytes.Buffer
		cmd := &ListCommand{backend: backendFor(srv), Out: &out}

		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "No books available")
	})
}

func TestShowCommand(t *testing.T) {
	t.Run("prints basic and external details", func(t *testing.T) {
		books := sampleBooks(1)
		fb, srv := newFakeBackend(t, books)
		fb.volumes[books[0].ISBN] = map[string]any{
			"description": "A tale.",
			"publisher":   "Pub House",
			"pageCount":   200,
		}
		var out bytes.Buffer
		cmd := &ShowCommand{backend: backendFor(srv), ID: "a", Out: &out}

		require.NoError(t, cmd.Run())

		s := out.String()
		assert.Contains(t, s, "Title A")
		assert.Contains(t, s, "Pub House")
		assert.Contains(t, s, "200")
		assert.Contains(t, s, "A tale.")
	})

	t.Run("prints the no details fallback", func(t *testing.T) {
		_, srv := newFakeBackend(t, sampleBooks(1))
		var out bytes.Buffer
		cmd := &ShowCommand{backend: backendFor(srv), ID: "a", Out: &out}

		require.NoError(t, cmd.Run())
		assert.Contains(t, out.String(), "No additional details found.")
	})

	t.Run("fails for a missing book", func(t *testing.T) {
		_, srv := newFakeBackend(t, sampleBooks(1))
		cmd := &ShowCommand{backend: backendFor(srv), ID: "zzz", Out: &bytes.Buffer{}}

		assert.ErrorContains(t, cmd.Run(), "book not found")
	})

	t.Run("requires an id", func(t *testing.T) {
		assert.Error(t, NewShowCommand().ParseFlags(nil))
	})
}

func TestAddCommand(t *testing.T) {
	valid := func() entities.Draft {
		return entities.Draft{
			Title:           "Dune",
			Author:          "Frank Herbert",
			Genre:           entities.GenreSciFi,
			PublicationDate: "1965-08-01",
			ISBN:            "978-0441013593",
			Rating:          5,
		}
	}

	t.Run("submits a valid book with a cover", func(t *testing.T) {
		fb, srv := newFakeBackend(t, nil)
		image := filepath.Join(t.TempDir(), "dune.png")
		require.NoError(t, os.WriteFile(image, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644))

		var out bytes.Buffer
		cmd := &AddCommand{backend: backendFor(srv), Draft: valid(), ImagePath: image, Out: &out}

		require.NoError(t, cmd.Run())

		assert.Contains(t, out.String(), creation.MessageSuccess)
		require.Len(t, fb.posted, 1)
		assert.Equal(t, "9780441013593", fb.posted[0].ISBN)
		assert.Equal(t, []string{"dune.png"}, fb.images)
	})

	t.Run("reports validation errors without a request", func(t *testing.T) {
		fb, srv := newFakeBackend(t, nil)
		draft := valid()
		draft.ISBN = "123"

		var out bytes.Buffer
		cmd := &AddCommand{backend: backendFor(srv), Draft: draft, Out: &out}

		err := cmd.Run()

		var verr *creation.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, out.String(), creation.MessageInvalid)
		assert.Contains(t, out.String(), "isbn:")
		assert.Empty(t, fb.posted)
	})

	t.Run("parses rating and genre flags", func(t *testing.T) {
		cmd := NewAddCommand()
		require.NoError(t, cmd.ParseFlags([]string{"-title", "X", "-genre", "Fantasy", "-rating", "4"}))

		assert.Equal(t, entities.GenreFantasy, cmd.Draft.Genre)
		assert.Equal(t, 4, cmd.Draft.Rating)
	})
}

func TestDeleteCommand(t *testing.T) {
	fb, srv := newFakeBackend(t, sampleBooks(2))
	var out bytes.Buffer
	cmd := &DeleteCommand{backend: backendFor(srv), ID: "b", Out: &out}

	require.NoError(t, cmd.Run())

	assert.Equal(t, []string{"b"}, fb.deleted)
	assert.Contains(t, out.String(), "Deleted book b")
}

func TestFeaturedCommand(t *testing.T) {
	books := sampleBooks(6)
	books[1].ImgURL = "https://img.example.test/b.jpg"
	fb, srv := newFakeBackend(t, books)
	fb.volumes[books[0].ISBN] = map[string]any{
		"imageLinks": map[string]any{"thumbnail": "https://books.example.test/a.jpg"},
	}

	var out bytes.Buffer
	cmd := &FeaturedCommand{backend: backendFor(srv), Limit: 4, Placeholder: "placeholder.png", Out: &out}

	require.NoError(t, cmd.Run())

	s := out.String()
	assert.Contains(t, s, "1. Title A")
	assert.Contains(t, s, "4. Title D")
	assert.NotContains(t, s, "Title E")
	assert.Contains(t, s, "https://books.example.test/a.jpg")
	assert.Contains(t, s, "https://img.example.test/b.jpg")
	assert.Contains(t, s, "placeholder.png")
}

func TestCoversPruneCommand(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "cover_1_abc.jpg")
	fresh := filepath.Join(dir, "cover_2_def.jpg")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, make([]byte, 2048), 0o644))
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	var out bytes.Buffer
	cmd := &CoversPruneCommand{CacheDir: dir, MaxAge: 24 * time.Hour, Out: &out}

	require.NoError(t, cmd.Run())

	assert.Contains(t, out.String(), "Removed 1 cached covers")
	assert.Contains(t, out.String(), "1 covers remain (2.0 kB)")
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestBackendContext_CancelledByInterrupt(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("interrupt cannot be sent to the own process on windows")
	}
	b := &backendFlags{Timeout: time.Minute}
	ctx, cancel := b.context()
	defer cancel()

	self, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, self.Signal(os.Interrupt))

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("command context survived an interrupt")
	}
}

func TestBackendContext_Timeout(t *testing.T) {
	b := &backendFlags{Timeout: 5 * time.Millisecond}
	ctx, cancel := b.context()
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(20*time.Millisecond), deadline, 20*time.Millisecond)
}
