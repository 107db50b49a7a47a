package session

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/listing"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, m *Manager) *gin.Engine {
	t.Helper()
	router := gin.New()
	router.Use(m.LoadSave())

	router.GET("/put", func(c *gin.Context) {
		l := listing.New([]entities.Book{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}})
		l.SortByRatingDesc()
		m.PutListing(c.Request.Context(), l)
		m.Flash(c.Request.Context(), "saved", true)
		c.String(http.StatusOK, m.FormKey(c.Request.Context()))
	})
	router.GET("/get", func(c *gin.Context) {
		l, ok := m.Listing(c.Request.Context())
		if !ok {
			c.String(http.StatusNotFound, "none")
			return
		}
		msg, _ := m.PopFlash(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"count":    l.Len(),
			"sort":     l.SortKey(),
			"flash":    msg,
			"form_key": m.FormKey(c.Request.Context()),
		})
	})
	router.GET("/drop", func(c *gin.Context) {
		m.DropListing(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return router
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "bookshelf_session" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestNewManager_CookieSettings(t *testing.T) {
	m, err := NewManager(Config{Lifetime: time.Hour, SecureCookies: true})
	require.NoError(t, err)

	assert.Equal(t, "bookshelf_session", m.Cookie.Name)
	assert.True(t, m.Cookie.HttpOnly)
	assert.True(t, m.Cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, m.Cookie.SameSite)
	assert.Equal(t, time.Hour, m.Lifetime)
	assert.Equal(t, 30*time.Minute, m.IdleTimeout)
	assert.NoError(t, m.Close())
}

func testRoundTrip(t *testing.T, m *Manager) {
	router := newTestRouter(t, m)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/put", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	formKey := rec.Body.String()
	assert.NotEmpty(t, formKey)
	cookie := sessionCookie(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count": 2, "sort": "rating-desc", "flash": "saved", "form_key": "`+formKey+`"}`, rec.Body.String())

	// The flash is consumed by the first read.
	req = httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `"flash":""`)

	req = httptest.NewRequest(http.MethodGet, "/drop", nil)
	req.AddCookie(cookie)
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListingRoundTrip_Memory(t *testing.T) {
	m, err := NewManager(Config{})
	require.NoError(t, err)
	testRoundTrip(t, m)
}

func TestListingRoundTrip_SQLite(t *testing.T) {
	m, err := NewManager(Config{DBPath: filepath.Join(t.TempDir(), "sessions.db")})
	require.NoError(t, err)
	defer m.Close()
	testRoundTrip(t, m)
}

func TestListing_NoneStored(t *testing.T) {
	m, err := NewManager(Config{})
	require.NoError(t, err)

	router := newTestRouter(t, m)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
