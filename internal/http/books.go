package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/listing"
	"github.com/mrlokans/bookshelf/internal/session"
)

// sortOption is one sort control on the list page.
type sortOption struct {
	Key   string
	Label string
}

var sortOptions = []sortOption{
	{Key: listing.SortRatingAsc, Label: "Rating: Low to High"},
	{Key: listing.SortRatingDesc, Label: "Rating: High to Low"},
}

// BooksController serves the paginated book table. The list is fetched when the
// page is opened and then held in the session, so sorting, paging and deletes
// work on that snapshot without re-fetching.
type BooksController struct {
	books    BookStore
	sessions *session.Manager
	warmer   CoverWarmer
	covers   CoverStore
	logger   *slog.Logger
}

func NewBooksController(books BookStore, sessions *session.Manager, warmer CoverWarmer, covers CoverStore, logger *slog.Logger) *BooksController {
	return &BooksController{
		books:    books,
		sessions: sessions,
		warmer:   warmer,
		covers:   covers,
		logger:   loggerOrDefault(logger),
	}
}

// ListPage renders the book table.
// GET /books?sort=<field>&page=<n>&reload=1
func (bc *BooksController) ListPage(c *gin.Context) {
	ctx := c.Request.Context()
	sortKey := c.Query("sort")
	pageParam := c.Query("page")

	l, held := bc.sessions.Listing(ctx)
	if !held || c.Query("reload") == "1" || (sortKey == "" && pageParam == "") {
		l = bc.loadAll(c)
	}

	if err := l.Apply(sortKey); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if pageParam != "" {
		n, err := strconv.Atoi(pageParam)
		if err != nil {
			respondBadRequest(c, "invalid page")
			return
		}
		l.SetPage(n)
	}

	bc.sessions.PutListing(ctx, l)

	c.HTML(http.StatusOK, "books", pageData(c, bc.sessions, gin.H{
		"Title":       "Book List",
		"Page":        l.Current(),
		"SortKey":     l.SortKey(),
		"SortOptions": sortOptions,
	}))
}

// loadAll fetches the list. A failed fetch degrades to an empty list.
func (bc *BooksController) loadAll(c *gin.Context) *listing.Listing {
	ctx := c.Request.Context()
	books, err := bc.books.ListBooks(ctx)
	if err != nil {
		bc.logger.ErrorContext(ctx, "failed to load books", "error", err)
		return listing.New(nil)
	}
	if bc.warmer != nil {
		if err := bc.warmer.WarmCovers(ctx, books); err != nil {
			bc.logger.WarnContext(ctx, "failed to queue cover warm-up", "error", err)
		}
	}
	return listing.New(books)
}

// DeleteBook removes a book on the backend and from the held list, and drops
// its cached cover. A failure is logged and the row stays; the user is not
// shown an error.
// POST /books/:id/delete
func (bc *BooksController) DeleteBook(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseBookID(c)
	if !ok {
		respondBadRequest(c, "invalid id")
		return
	}

	l, held := bc.sessions.Listing(ctx)
	if !held {
		l = listing.New(nil)
	}

	if err := l.Delete(ctx, bc.books, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			bc.logger.WarnContext(ctx, "delete of missing book", "book_id", id, "error", err)
		} else {
			bc.logger.ErrorContext(ctx, "delete failed", "book_id", id, "error", err)
		}
	} else {
		bc.logger.InfoContext(ctx, "book deleted", "book_id", id)
		if bc.covers != nil {
			if err := bc.covers.InvalidateCover(id); err != nil {
				bc.logger.WarnContext(ctx, "failed to drop cached cover", "book_id", id, "error", err)
			}
		}
	}
	bc.sessions.PutListing(ctx, l)

	c.Redirect(http.StatusSeeOther, listURL(l.PageNumber()))
}

func listURL(page int) string {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	return "/books?" + q.Encode()
}
