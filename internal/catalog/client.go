package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const (
	booksPath = "/api/books"

	defaultTimeout = 15 * time.Second
	maxErrorBody   = 512
)

// Client talks to the book catalog REST backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a backend client rooted at baseURL. A zero timeout selects the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// BaseURL returns the backend root the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListBooks fetches every book the backend knows about.
func (c *Client) ListBooks(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	if err := c.getJSON(ctx, booksPath, &books); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []entities.Book{}
	}
	return books, nil
}

// GetBook fetches a single book. Returns ErrNotFound when the backend answers 404
// or answers with an empty record.
func (c *Client) GetBook(ctx context.Context, id entities.BookID) (*entities.Book, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	var book entities.Book
	if err := c.getJSON(ctx, bookPath(id), &book); err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}
	if book.ID == "" {
		return nil, fmt.Errorf("get book %s: empty record: %w", id, ErrNotFound)
	}
	return &book, nil
}

// CreateBook submits a draft and an optional cover image as one multipart request.
func (c *Client) CreateBook(ctx context.Context, draft entities.Draft, upload *entities.CoverUpload) (*entities.Book, error) {
	body, contentType, err := encodeMultipart(draft, upload)
	if err != nil {
		return nil, fmt.Errorf("encode book: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+booksPath, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create book: %w", newStatusError(req, resp))
	}

	var created entities.Book
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode created book: %w", err)
	}
	return &created, nil
}

// DeleteBook removes a book on the backend.
func (c *Client) DeleteBook(ctx context.Context, id entities.BookID) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+bookPath(id), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("delete book %s: %w", id, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("delete book %s: %w", id, newStatusError(req, resp))
	}
	return nil
}

// Ping checks that the backend answers the books endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+booksPath, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping backend: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	if resp.StatusCode >= 500 {
		return fmt.Errorf("ping backend: %w", newStatusError(req, resp))
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return newStatusError(req, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func bookPath(id entities.BookID) string {
	return booksPath + "/" + url.PathEscape(id.String())
}

func newStatusError(req *http.Request, resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Method:     req.Method,
		Path:       req.URL.Path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart builds the request body: a JSON "book" part and, if present, a binary
// "image" part whose content type is sniffed from the bytes.
func encodeMultipart(draft entities.Draft, upload *entities.CoverUpload) (io.Reader, string, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)

	bookHeader := make(textproto.MIMEHeader)
	bookHeader.Set("Content-Disposition", `form-data; name="book"; filename="blob"`)
	bookHeader.Set("Content-Type", "application/json")
	part, err := w.CreatePart(bookHeader)
	if err != nil {
		return nil, "", err
	}
	if err := json.NewEncoder(part).Encode(draft); err != nil {
		return nil, "", err
	}

	if upload != nil && len(upload.Data) > 0 {
		filename := upload.Filename
		if filename == "" {
			filename = "cover"
		}
		imageHeader := make(textproto.MIMEHeader)
		imageHeader.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(filename)))
		imageHeader.Set("Content-Type", mimetype.Detect(upload.Data).String())
		part, err := w.CreatePart(imageHeader)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(upload.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
