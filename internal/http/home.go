package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/gallery"
	"github.com/mrlokans/bookshelf/internal/session"
)

// featuredCard is a gallery item prepared for the template.
type featuredCard struct {
	gallery.Item
	ImageSrc string
}

type HomeController struct {
	gallery     *gallery.Loader
	sessions    *session.Manager
	limit       int
	placeholder string
	coversOn    bool
	logger      *slog.Logger
}

func NewHomeController(loader *gallery.Loader, sessions *session.Manager, limit int, placeholder string, coversOn bool, logger *slog.Logger) *HomeController {
	return &HomeController{
		gallery:     loader,
		sessions:    sessions,
		limit:       limit,
		placeholder: placeholder,
		coversOn:    coversOn,
		logger:      loggerOrDefault(logger),
	}
}

// HomePage renders the hero banner and featured books.
// GET /
func (h *HomeController) HomePage(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.gallery.LoadFeatured(ctx, h.limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load featured books", "error", err)
		items = nil
	}

	cards := make([]featuredCard, len(items))
	for i, item := range items {
		cards[i] = featuredCard{Item: item, ImageSrc: h.imageSrc(item)}
	}

	c.HTML(http.StatusOK, "home", pageData(c, h.sessions, gin.H{
		"Title": "Home",
		"Cards": cards,
	}))
}

// imageSrc serves stored covers through the local cache and falls back to the placeholder.
func (h *HomeController) imageSrc(item gallery.Item) string {
	switch {
	case !item.HasThumbnail():
		return h.placeholder
	case h.coversOn && item.Thumbnail == item.Book.ImgURL:
		return coverPath(item.Book.ID)
	default:
		return item.Thumbnail
	}
}
