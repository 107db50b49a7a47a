package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/creation"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/session"
)

const maxUploadSize = 10 << 20

// CreateController serves the add-book form. Each session gets its own form
// so a double submit from one browser is rejected while the first is in flight.
type CreateController struct {
	books    BookCreator
	forms    *creation.Registry
	sessions *session.Manager
	warmer   CoverWarmer
	logger   *slog.Logger
}

func NewCreateController(books BookCreator, forms *creation.Registry, sessions *session.Manager, warmer CoverWarmer, logger *slog.Logger) *CreateController {
	return &CreateController{
		books:    books,
		forms:    forms,
		sessions: sessions,
		warmer:   warmer,
		logger:   loggerOrDefault(logger),
	}
}

func (cc *CreateController) form(c *gin.Context) *creation.Form {
	return cc.forms.Form(cc.sessions.FormKey(c.Request.Context()))
}

// FormPage renders the add-book form.
// GET /add-book
func (cc *CreateController) FormPage(c *gin.Context) {
	form := cc.form(c)
	cc.render(c, http.StatusOK, form.Draft(), form.InFlight(), nil)
}

// Submit validates and sends the posted book.
// POST /add-book
func (cc *CreateController) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	form := cc.form(c)

	upload, err := readUpload(c)
	if err != nil {
		cc.logger.WarnContext(ctx, "unreadable cover upload", "error", err)
		cc.render(c, http.StatusBadRequest, draftFromRequest(c), false, &creation.ValidationError{
			Fields: []creation.FieldError{{Field: "image", Message: "Cover image could not be read."}},
		})
		return
	}

	posted := draftFromRequest(c)
	created, err := form.Submit(ctx, cc.books, posted, upload)

	var verr *creation.ValidationError
	var serr *creation.SubmitError
	switch {
	case err == nil:
		cc.logger.InfoContext(ctx, "book created", "book_id", created.ID, "title", created.Title)
		if cc.warmer != nil {
			if err := cc.warmer.WarmCovers(ctx, []entities.Book{*created}); err != nil {
				cc.logger.WarnContext(ctx, "failed to queue cover warm-up", "book_id", created.ID, "error", err)
			}
		}
		cc.sessions.Flash(ctx, creation.MessageSuccess, true)
		cc.sessions.DropListing(ctx)
		c.Redirect(http.StatusSeeOther, "/add-book")
	case errors.Is(err, creation.ErrSubmitInFlight):
		cc.render(c, http.StatusConflict, posted, true, err)
	case errors.As(err, &verr):
		cc.render(c, http.StatusUnprocessableEntity, form.Draft(), false, err)
	case errors.As(err, &serr):
		cc.logger.ErrorContext(ctx, "failed to add book", "error", serr.Err)
		cc.render(c, http.StatusBadGateway, form.Draft(), false, err)
	default:
		cc.logger.ErrorContext(ctx, "failed to add book", "error", err)
		cc.render(c, http.StatusInternalServerError, form.Draft(), false, err)
	}
}

func (cc *CreateController) render(c *gin.Context, status int, draft entities.Draft, inFlight bool, err error) {
	data := gin.H{
		"Title":      "Add Book",
		"Draft":      draft,
		"Genres":     entities.Genres,
		"InFlight":   inFlight,
		"MaxTitle":   entities.MaxTitleLength,
		"MaxAuthor":  entities.MaxAuthorLength,
		"ISBNLength": entities.ISBNLength,
	}

	var verr *creation.ValidationError
	switch {
	case err == nil:
	case errors.Is(err, creation.ErrSubmitInFlight):
		data["Message"] = "A submission is already in progress."
	case errors.As(err, &verr):
		data["Message"] = creation.MessageInvalid
		data["Errors"] = verr
	default:
		data["Message"] = creation.UserMessage(err)
	}

	c.HTML(status, "add-book", pageData(c, cc.sessions, data))
}

// draftFromRequest reads the posted fields. ISBN keeps only digits and rating
// accepts a single digit 1-5.
func draftFromRequest(c *gin.Context) entities.Draft {
	return entities.Draft{
		Title:           strings.TrimSpace(c.PostForm("title")),
		Author:          strings.TrimSpace(c.PostForm("author")),
		PublicationDate: strings.TrimSpace(c.PostForm("publicationDate")),
		ISBN:            creation.SanitizeISBN(c.PostForm("isbn")),
		Genre:           entities.Genre(strings.TrimSpace(c.PostForm("genre"))),
		Rating:          creation.ParseRating(c.PostForm("rating")),
	}
}

// readUpload returns the optional "image" file, or nil when none was chosen.
func readUpload(c *gin.Context) (*entities.CoverUpload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size == 0 {
		return nil, nil
	}
	if fh.Size > maxUploadSize {
		return nil, fmt.Errorf("cover too large: %d bytes", fh.Size)
	}
	data, err := readFileHeader(fh)
	if err != nil {
		return nil, err
	}
	return &entities.CoverUpload{Filename: fh.Filename, Data: data}, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxUploadSize))
}
