package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const lookupPath = "/api/external/google-books/"

// ErrEmptyISBN is returned when a lookup is attempted without a key.
var ErrEmptyISBN = errors.New("isbn is required")

// Volume is the volume info of the first match returned for an ISBN.
// It is display-only and never stored.
type Volume struct {
	Title         string      `json:"title,omitempty"`
	Authors       []string    `json:"authors,omitempty"`
	Publisher     string      `json:"publisher,omitempty"`
	PublishedDate string      `json:"publishedDate,omitempty"`
	Description   string      `json:"description,omitempty"`
	PageCount     int         `json:"pageCount,omitempty"`
	ImageLinks    *ImageLinks `json:"imageLinks,omitempty"`
}

type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
}

// Thumbnail returns the preferred cover thumbnail URL, or "" if the volume has none.
func (v *Volume) Thumbnail() string {
	if v == nil || v.ImageLinks == nil {
		return ""
	}
	if v.ImageLinks.Thumbnail != "" {
		return v.ImageLinks.Thumbnail
	}
	return v.ImageLinks.SmallThumbnail
}

type volumesResponse struct {
	Items []struct {
		VolumeInfo Volume `json:"volumeInfo"`
	} `json:"items"`
}

// Client looks up external book metadata through the backend's passthrough endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit caps outbound lookups at perSecond requests with the given burst.
// A non-positive rate leaves lookups unlimited.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup fetches the first volume matching isbn. A response without items is not an
// error: it yields (nil, nil).
func (c *Client) Lookup(ctx context.Context, isbn string) (*Volume, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, ErrEmptyISBN
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+lookupPath+url.PathEscape(isbn), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", isbn, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("lookup %s: unexpected status %d: %s", isbn, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, nil
	}
	volume := result.Items[0].VolumeInfo
	return &volume, nil
}
