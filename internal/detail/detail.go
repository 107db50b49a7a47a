// Package detail loads one book and, once it is known, its external metadata.
package detail

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

// Stage is the progress of a detail load.
type Stage int

const (
	StagePending Stage = iota
	StagePrimaryOnly
	StagePrimaryAndEnriched
	StageNotFound
)

func (s Stage) String() string {
	switch s {
	case StagePending:
		return "pending"
	case StagePrimaryOnly:
		return "primary-only"
	case StagePrimaryAndEnriched:
		return "primary-and-enriched"
	case StageNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// Display fallbacks for the "More Details" section.
const (
	NoDescription = "No description available."
	NotAvailable  = "N/A"
	NoDetails     = "No additional details found."
)

// BookGetter fetches the primary record.
type BookGetter interface {
	GetBook(ctx context.Context, id entities.BookID) (*entities.Book, error)
}

// VolumeLookup fetches external metadata by ISBN.
type VolumeLookup interface {
	Lookup(ctx context.Context, isbn string) (*metadata.Volume, error)
}

// Result is the outcome of Load. Book is set unless Stage is StageNotFound;
// Volume is set only for StagePrimaryAndEnriched.
type Result struct {
	Stage  Stage
	Book   *entities.Book
	Volume *metadata.Volume
}

// Found reports whether the primary record is available.
func (r Result) Found() bool {
	return r.Stage == StagePrimaryOnly || r.Stage == StagePrimaryAndEnriched
}

// Enriched reports whether external metadata is available.
func (r Result) Enriched() bool {
	return r.Stage == StagePrimaryAndEnriched && r.Volume != nil
}

func (r Result) Description() string {
	if !r.Enriched() || r.Volume.Description == "" {
		return NoDescription
	}
	return r.Volume.Description
}

func (r Result) Publisher() string {
	if !r.Enriched() || r.Volume.Publisher == "" {
		return NotAvailable
	}
	return r.Volume.Publisher
}

func (r Result) PageCount() string {
	if !r.Enriched() || r.Volume.PageCount <= 0 {
		return NotAvailable
	}
	return strconv.Itoa(r.Volume.PageCount)
}

func (r Result) Thumbnail() string {
	if !r.Enriched() {
		return ""
	}
	return r.Volume.Thumbnail()
}

type Loader struct {
	books   BookGetter
	volumes VolumeLookup
	logger  *slog.Logger
}

func NewLoader(books BookGetter, volumes VolumeLookup, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{books: books, volumes: volumes, logger: logger}
}

// Load always returns a terminal stage. Any failure fetching the primary record yields
// StageNotFound. The metadata lookup runs only after the primary record resolves and
// is keyed by its ISBN; its failure or absence yields StagePrimaryOnly.
func (l *Loader) Load(ctx context.Context, id entities.BookID) Result {
	book, err := l.books.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			l.logger.InfoContext(ctx, "book not found", "book_id", id)
		} else {
			l.logger.ErrorContext(ctx, "failed to fetch book", "book_id", id, "error", err)
		}
		return Result{Stage: StageNotFound}
	}
	if book == nil || book.ID == "" {
		l.logger.InfoContext(ctx, "book not found", "book_id", id)
		return Result{Stage: StageNotFound}
	}

	result := Result{Stage: StagePrimaryOnly, Book: book}
	if book.ISBN == "" || l.volumes == nil {
		return result
	}

	volume, err := l.volumes.Lookup(ctx, book.ISBN)
	if err != nil {
		l.logger.WarnContext(ctx, "metadata lookup failed", "book_id", id, "isbn", book.ISBN, "error", err)
		return result
	}
	if volume == nil {
		l.logger.DebugContext(ctx, "no metadata for isbn", "book_id", id, "isbn", book.ISBN)
		return result
	}

	result.Stage = StagePrimaryAndEnriched
	result.Volume = volume
	return result
}
