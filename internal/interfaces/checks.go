package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/creation"
	"github.com/mrlokans/bookshelf/internal/detail"
	"github.com/mrlokans/bookshelf/internal/gallery"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/listing"
	"github.com/mrlokans/bookshelf/internal/metadata"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// =============================================================================
// Catalog Backend
// =============================================================================

var _ http.BookStore = (*catalog.Client)(nil)
var _ http.BackendPinger = (*catalog.Client)(nil)
var _ listing.Deleter = (*catalog.Client)(nil)
var _ creation.Creator = (*catalog.Client)(nil)
var _ detail.BookGetter = (*catalog.Client)(nil)
var _ gallery.BookLister = (*catalog.Client)(nil)

// =============================================================================
// External Metadata
// =============================================================================

var _ detail.VolumeLookup = (*metadata.Client)(nil)
var _ gallery.VolumeLookup = (*metadata.Client)(nil)

// =============================================================================
// Cover Cache
// =============================================================================

var _ http.CoverStore = (*covers.Cache)(nil)
var _ scheduler.Pruner = (*covers.Cache)(nil)
var _ tasks.CoverFetcher = (*covers.Cache)(nil)
var _ http.PruneSchedule = (*scheduler.CoverPruneScheduler)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ http.CoverWarmer = (*tasks.Client)(nil)
