// Package listing holds the in-memory book list behind the list view: sorting,
// fixed-size pagination and local removal after a successful delete.
package listing

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// PageSize is the number of books shown per page.
const PageSize = 10

// ErrUnknownField is returned when sorting by a field a Book does not display.
var ErrUnknownField = errors.New("unknown sort field")

// SortableFields are the columns the list view can be sorted by.
var SortableFields = []string{"title", "author", "genre", "publicationDate", "isbn", "rating"}

// Sort keys accepted by Apply in addition to SortableFields.
const (
	SortRatingAsc  = "rating-asc"
	SortRatingDesc = "rating-desc"
)

// Deleter removes a book on the backend.
type Deleter interface {
	DeleteBook(ctx context.Context, id entities.BookID) error
}

// Page is one window over the listing.
type Page struct {
	Number     int
	Size       int
	TotalPages int
	Offset     int
	Books      []entities.Book
	HasPrev    bool
	HasNext    bool
}

// Index returns the 1-based row number of the i-th book on the page.
func (p Page) Index(i int) int {
	return p.Offset + i + 1
}

// Listing is the list view state. It is owned by a single session or CLI invocation
// and is not safe for concurrent use.
type Listing struct {
	books []entities.Book
	page  int
	sort  string
}

// New wraps books in a listing positioned on the first page.
func New(books []entities.Book) *Listing {
	if books == nil {
		books = []entities.Book{}
	}
	return &Listing{books: books, page: 1}
}

// Restore rebuilds a listing from a snapshot, clamping the page.
func Restore(s Snapshot) *Listing {
	l := New(s.Books)
	l.sort = s.Sort
	l.SetPage(s.Page)
	return l
}

// Snapshot is the serialisable form of a Listing.
type Snapshot struct {
	Books []entities.Book
	Page  int
	Sort  string
}

func (l *Listing) Snapshot() Snapshot {
	books := make([]entities.Book, len(l.books))
	copy(books, l.books)
	return Snapshot{Books: books, Page: l.page, Sort: l.sort}
}

// Books returns the held sequence in its current order.
func (l *Listing) Books() []entities.Book {
	return l.books
}

func (l *Listing) Len() int {
	return len(l.books)
}

// SortKey returns the last sort applied, or "" if the list is in backend order.
func (l *Listing) SortKey() string {
	return l.sort
}

// SortBy orders the list lexicographically on the displayed value of field.
func (l *Listing) SortBy(field string) error {
	if !isSortable(field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	sort.Slice(l.books, func(i, j int) bool {
		a, _ := l.books[i].Field(field)
		b, _ := l.books[j].Field(field)
		return a < b
	})
	l.sort = field
	return nil
}

func (l *Listing) SortByRatingAsc() {
	sort.Slice(l.books, func(i, j int) bool {
		return l.books[i].Rating < l.books[j].Rating
	})
	l.sort = SortRatingAsc
}

func (l *Listing) SortByRatingDesc() {
	sort.Slice(l.books, func(i, j int) bool {
		return l.books[i].Rating > l.books[j].Rating
	})
	l.sort = SortRatingDesc
}

// Apply dispatches a sort key as used in query strings and CLI flags.
func (l *Listing) Apply(key string) error {
	switch key {
	case "":
		return nil
	case SortRatingAsc:
		l.SortByRatingAsc()
		return nil
	case SortRatingDesc:
		l.SortByRatingDesc()
		return nil
	default:
		return l.SortBy(key)
	}
}

func (l *Listing) TotalPages() int {
	return totalPages(len(l.books), PageSize)
}

// SetPage moves to page n, clamped to [1, TotalPages]. An empty listing stays on page 1.
func (l *Listing) SetPage(n int) {
	total := l.TotalPages()
	switch {
	case n < 1 || total == 0:
		n = 1
	case n > total:
		n = total
	}
	l.page = n
}

func (l *Listing) PageNumber() int {
	return l.page
}

// Current returns the window for the current page.
func (l *Listing) Current() Page {
	total := l.TotalPages()
	offset := (l.page - 1) * PageSize
	end := offset + PageSize
	if end > len(l.books) {
		end = len(l.books)
	}
	var window []entities.Book
	if offset < end {
		window = l.books[offset:end]
	}
	return Page{
		Number:     l.page,
		Size:       PageSize,
		TotalPages: total,
		Offset:     offset,
		Books:      window,
		HasPrev:    l.page > 1,
		HasNext:    l.page < total,
	}
}

// Remove drops the book with the given id. It reports whether anything was removed;
// removing an absent id leaves the listing unchanged.
func (l *Listing) Remove(id entities.BookID) bool {
	for i := range l.books {
		if l.books[i].ID == id {
			l.books = append(l.books[:i], l.books[i+1:]...)
			l.SetPage(l.page)
			return true
		}
	}
	return false
}

// Delete asks the backend to remove id and, on success, removes it locally without
// re-fetching. On failure the listing is untouched and the error is returned.
func (l *Listing) Delete(ctx context.Context, d Deleter, id entities.BookID) error {
	if err := d.DeleteBook(ctx, id); err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	l.Remove(id)
	return nil
}

// Paginate partitions books into windows of size; the last window may be shorter.
func Paginate(books []entities.Book, size int) [][]entities.Book {
	if size < 1 {
		size = PageSize
	}
	pages := make([][]entities.Book, 0, totalPages(len(books), size))
	for start := 0; start < len(books); start += size {
		end := start + size
		if end > len(books) {
			end = len(books)
		}
		pages = append(pages, books[start:end])
	}
	return pages
}

func totalPages(n, size int) int {
	return (n + size - 1) / size
}

func isSortable(field string) bool {
	for _, f := range SortableFields {
		if f == field {
			return true
		}
	}
	return false
}
