package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/detail"
	"github.com/mrlokans/bookshelf/internal/session"
)

type BookController struct {
	details  *detail.Loader
	sessions *session.Manager
	coversOn bool
}

func NewBookController(details *detail.Loader, sessions *session.Manager, coversOn bool) *BookController {
	return &BookController{
		details:  details,
		sessions: sessions,
		coversOn: coversOn,
	}
}

// BookPage shows one book with its external details when available.
// GET /books/:id
func (bc *BookController) BookPage(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		renderNotFound(c, bc.sessions)
		return
	}

	result := bc.details.Load(c.Request.Context(), id)
	if !result.Found() {
		renderNotFound(c, bc.sessions)
		return
	}

	coverSrc := result.Book.ImgURL
	if coverSrc != "" && bc.coversOn {
		coverSrc = coverPath(result.Book.ID)
	}

	c.HTML(http.StatusOK, "book", pageData(c, bc.sessions, gin.H{
		"Title":     result.Book.Title,
		"Book":      result.Book,
		"CoverSrc":  coverSrc,
		"Result":    result,
		"NoDetails": detail.NoDetails,
	}))
}
