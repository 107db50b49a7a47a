// Package gallery builds the featured-books strip on the home page.
package gallery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/iter"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

// DefaultLimit is the number of books featured when no limit is given.
const DefaultLimit = 4

type BookLister interface {
	ListBooks(ctx context.Context) ([]entities.Book, error)
}

type VolumeLookup interface {
	Lookup(ctx context.Context, isbn string) (*metadata.Volume, error)
}

// Item is a featured book with the thumbnail chosen for it. Err records a failed
// metadata lookup; the item is still usable.
type Item struct {
	Book      entities.Book
	Thumbnail string
	Err       error
}

// HasThumbnail reports whether the item resolved to any image.
func (i Item) HasThumbnail() bool {
	return i.Thumbnail != ""
}

type Loader struct {
	books   BookLister
	volumes VolumeLookup
	logger  *slog.Logger
}

func NewLoader(books BookLister, volumes VolumeLookup, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{books: books, volumes: volumes, logger: logger}
}

// LoadFeatured fetches all books, keeps the first limit and looks up a thumbnail for
// each concurrently. Results keep input order. Only a failure to list books is
// returned as an error.
func (l *Loader) LoadFeatured(ctx context.Context, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	books, err := l.books.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list featured books: %w", err)
	}
	if len(books) > limit {
		books = books[:limit]
	}
	if len(books) == 0 {
		return []Item{}, nil
	}

	mapper := iter.Mapper[entities.Book, Item]{MaxGoroutines: len(books)}
	items := mapper.Map(books, func(book *entities.Book) Item {
		return l.enrich(ctx, *book)
	})
	return items, nil
}

// enrich picks the volume thumbnail, then the stored image, then nothing.
func (l *Loader) enrich(ctx context.Context, book entities.Book) Item {
	item := Item{Book: book, Thumbnail: book.ImgURL}
	if book.ISBN == "" {
		return item
	}

	volume, err := l.volumes.Lookup(ctx, book.ISBN)
	if err != nil {
		l.logger.WarnContext(ctx, "thumbnail lookup failed", "book_id", book.ID, "isbn", book.ISBN, "error", err)
		item.Err = err
		return item
	}
	if thumb := volume.Thumbnail(); thumb != "" {
		item.Thumbnail = thumb
	}
	return item
}
