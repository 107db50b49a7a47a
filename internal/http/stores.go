package http

import (
	"context"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// Controllers each take the narrowest interface they need; catalog.Client
// satisfies all of the book interfaces below.

// BookLister provides the full book list.
type BookLister interface {
	ListBooks(ctx context.Context) ([]entities.Book, error)
}

// BookGetter provides read access to one book.
type BookGetter interface {
	GetBook(ctx context.Context, id entities.BookID) (*entities.Book, error)
}

// BookDeleter removes books on the backend.
type BookDeleter interface {
	DeleteBook(ctx context.Context, id entities.BookID) error
}

// BookCreator submits new books.
type BookCreator interface {
	CreateBook(ctx context.Context, draft entities.Draft, upload *entities.CoverUpload) (*entities.Book, error)
}

// BookStore combines every backend operation the UI performs.
type BookStore interface {
	BookLister
	BookGetter
	BookDeleter
	BookCreator
}

// BackendPinger reports whether the backend is reachable.
type BackendPinger interface {
	Ping(ctx context.Context) error
}

// CoverStore serves locally cached cover images.
type CoverStore interface {
	GetCover(ctx context.Context, bookID entities.BookID, coverURL string) (string, error)
	ContentType(path string) string
	InvalidateCover(bookID entities.BookID) error
}

// CoverWarmer queues stored covers for download into the local cache.
type CoverWarmer interface {
	WarmCovers(ctx context.Context, books []entities.Book) error
}

// PruneSchedule reports when the cover cache is next pruned, or nil when the
// job is not scheduled.
type PruneSchedule interface {
	NextRunTime() *time.Time
}
