// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Catalog Backend
//
//   - BookStore, BookLister, BookGetter, BookDeleter, BookCreator: book CRUD used by
//     the pages (internal/http/stores.go)
//   - BackendPinger: health check (internal/http/stores.go)
//   - listing.Deleter: delete that keeps the held list in step (internal/listing)
//   - creation.Creator: multipart submit of a validated draft (internal/creation)
//
// All of them are satisfied by catalog.Client.
//
// ## External Metadata
//
//   - detail.VolumeLookup, gallery.VolumeLookup: lookup by ISBN, satisfied by
//     metadata.Client
//
// ## Cover Cache
//
//   - http.CoverStore: serve cached covers and drop them on delete (internal/http/stores.go)
//   - scheduler.Pruner: evict stale covers on a cron schedule
//   - http.PruneSchedule: next prune run for /health, satisfied by
//     scheduler.CoverPruneScheduler
//
// # Adding a New Page
//
//  1. Add a template with {{define "name"}} under internal/http/templates/
//
//  2. Create a controller in internal/http/ that takes the narrowest store
//     interface it needs and renders through pageData
//
//  3. Register the route in router.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
