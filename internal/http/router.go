package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/gallery"
)

// NewRouter creates and configures the HTTP router with all pages.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	// Production access lines come from AccessLog around the engine.
	if gin.Mode() == gin.DebugMode {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(SecurityHeadersMiddleware())

	// CSRF replaces the request, so it runs before sessions attach their context.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.Use(cfg.Sessions.LoadSave())

	router.SetHTMLTemplate(template.Must(LoadTemplates()))

	limit := cfg.GalleryLimit
	if limit <= 0 {
		limit = gallery.DefaultLimit
	}
	coversOn := cfg.CoverCache != nil

	health := NewHealthController(cfg.Backend, cfg.CoverPrune, cfg.Version)
	home := NewHomeController(cfg.Gallery, cfg.Sessions, limit, cfg.PlaceholderImage, coversOn, cfg.Logger)
	books := NewBooksController(cfg.Books, cfg.Sessions, cfg.CoverWarmer, cfg.CoverCache, cfg.Logger)
	book := NewBookController(cfg.Details, cfg.Sessions, coversOn)
	create := NewCreateController(cfg.Books, cfg.Forms, cfg.Sessions, cfg.CoverWarmer, cfg.Logger)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Pages
	router.GET("/", home.HomePage)
	router.GET("/books", books.ListPage)
	router.POST("/books/:id/delete", books.DeleteBook)
	router.GET("/books/:id", book.BookPage)
	router.GET("/add-book", create.FormPage)
	router.POST("/add-book", create.Submit)

	if coversOn {
		covers := NewCoversController(cfg.CoverCache, cfg.Books, cfg.Logger)
		router.GET("/covers/:id", covers.GetCover)
	}

	router.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "not-found", pageData(c, cfg.Sessions, gin.H{
			"Title":   "Not Found",
			"Message": "Page not found",
		}))
	})

	return router
}
