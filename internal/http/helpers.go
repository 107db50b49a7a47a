package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/session"
)

// --- Response Types ---

// ErrorResponse is the JSON error body for non-HTML responses.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, RequestID: c.GetString(contextKeyRequestID)})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", RequestID: c.GetString(contextKeyRequestID)})
}

// --- Page Rendering ---

// pageData is the set of values every page template can rely on.
func pageData(c *gin.Context, sessions *session.Manager, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["CSRFToken"] = csrfToken(c)
	data["CSRFFieldName"] = CSRFFieldName
	data["Year"] = time.Now().Year()
	data["Path"] = c.Request.URL.Path

	if sessions != nil {
		if msg, ok := sessions.PopFlash(c.Request.Context()); msg != "" {
			data["Flash"] = msg
			data["FlashOK"] = ok
		}
	}
	return data
}

// renderNotFound shows the "Book not found" page.
func renderNotFound(c *gin.Context, sessions *session.Manager) {
	c.HTML(http.StatusNotFound, "not-found", pageData(c, sessions, gin.H{
		"Title":   "Not Found",
		"Message": "Book not found",
	}))
}

// --- Parameter Parsing ---

// parseBookID extracts a book id from the URL. Ids are opaque but must be non-empty.
func parseBookID(c *gin.Context) (entities.BookID, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return "", false
	}
	return entities.BookID(id), true
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
