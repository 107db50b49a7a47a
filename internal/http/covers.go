package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// CoversController serves stored book covers from the local cache.
type CoversController struct {
	cache  CoverStore
	books  BookGetter
	logger *slog.Logger
}

func NewCoversController(cache CoverStore, books BookGetter, logger *slog.Logger) *CoversController {
	return &CoversController{
		cache:  cache,
		books:  books,
		logger: loggerOrDefault(logger),
	}
}

func coverPath(id entities.BookID) string {
	return "/covers/" + url.PathEscape(id.String())
}

// GetCover serves a cached book cover image, falling back to a redirect to the
// stored URL when caching fails.
// GET /covers/:id
func (cc *CoversController) GetCover(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseBookID(c)
	if !ok {
		respondBadRequest(c, "invalid id")
		return
	}

	book, err := cc.books.GetBook(ctx, id)
	if err != nil {
		if !errors.Is(err, catalog.ErrNotFound) {
			cc.logger.ErrorContext(ctx, "failed to fetch book for cover", "book_id", id, "error", err)
		}
		respondNotFound(c, "book")
		return
	}
	if book.ImgURL == "" {
		respondNotFound(c, "cover")
		return
	}

	cachePath, err := cc.cache.GetCover(ctx, id, book.ImgURL)
	if err != nil || cachePath == "" {
		cc.logger.WarnContext(ctx, "cover cache miss, redirecting", "book_id", id, "error", err)
		c.Redirect(http.StatusTemporaryRedirect, book.ImgURL)
		return
	}

	c.Header("Content-Type", cc.cache.ContentType(cachePath))
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(cachePath)
}
