package http

import (
	"log/slog"

	"github.com/mrlokans/bookshelf/internal/creation"
	"github.com/mrlokans/bookshelf/internal/detail"
	"github.com/mrlokans/bookshelf/internal/gallery"
	"github.com/mrlokans/bookshelf/internal/session"
)

// RouterConfig holds all dependencies needed to create the HTTP router.
// Optional fields may be left nil; the routes that need them are not registered.
type RouterConfig struct {
	// Backend access
	Books   BookStore
	Backend BackendPinger

	// View loaders
	Details *detail.Loader
	Gallery *gallery.Loader

	// Per-session state
	Sessions *session.Manager
	Forms    *creation.Registry

	// Optional
	CoverCache  CoverStore
	CoverWarmer CoverWarmer
	CoverPrune  PruneSchedule

	// CSRF protection for form posts; disabled when empty.
	CSRFSecret    []byte
	SecureCookies bool

	GalleryLimit     int
	PlaceholderImage string
	Version          string
	Logger           *slog.Logger
}
