// Package session keeps per-browser view state: the list snapshot, the form key
// and one-shot flash messages.
package session

import (
	"context"
	"database/sql"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mrlokans/bookshelf/internal/listing"
)

// Session data keys
const (
	KeyListing = "listing"
	KeyFormKey = "form_key"
	KeyFlash   = "flash"
	KeyFlashOK = "flash_ok"
)

func init() {
	gob.Register(listing.Snapshot{})
}

// Config controls cookie and storage behaviour.
type Config struct {
	Lifetime      time.Duration
	SecureCookies bool
	// DBPath enables persistent sessions in SQLite. Empty keeps them in memory.
	DBPath string
}

// Manager wraps scs.SessionManager with the view state this app stores.
type Manager struct {
	*scs.SessionManager
	db *sql.DB
}

func NewManager(cfg Config) (*Manager, error) {
	sm := scs.New()
	m := &Manager{SessionManager: sm}

	if cfg.DBPath != "" {
		db, err := openStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		sm.Store = sqlite3store.New(db)
		m.db = db
	} else {
		sm.Store = memstore.New()
	}

	if cfg.Lifetime <= 0 {
		cfg.Lifetime = 24 * time.Hour
	}
	sm.Lifetime = cfg.Lifetime
	sm.IdleTimeout = cfg.Lifetime / 2

	sm.Cookie.Name = "bookshelf_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return m, nil
}

func openStore(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}
	return db, nil
}

// Close releases the session database, if any.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

// Listing restores the list held by this session. ok is false when none is stored.
func (m *Manager) Listing(ctx context.Context) (*listing.Listing, bool) {
	snap, ok := m.Get(ctx, KeyListing).(listing.Snapshot)
	if !ok {
		return nil, false
	}
	return listing.Restore(snap), true
}

func (m *Manager) PutListing(ctx context.Context, l *listing.Listing) {
	m.Put(ctx, KeyListing, l.Snapshot())
}

func (m *Manager) DropListing(ctx context.Context) {
	m.Remove(ctx, KeyListing)
}

// FormKey returns a stable random key identifying this session's creation form.
func (m *Manager) FormKey(ctx context.Context) string {
	if key := m.GetString(ctx, KeyFormKey); key != "" {
		return key
	}
	key := uuid.NewString()
	m.Put(ctx, KeyFormKey, key)
	return key
}

// Flash stores a message shown once on the next page render.
func (m *Manager) Flash(ctx context.Context, message string, ok bool) {
	m.Put(ctx, KeyFlash, message)
	m.Put(ctx, KeyFlashOK, ok)
}

// PopFlash returns and clears the pending flash message.
func (m *Manager) PopFlash(ctx context.Context) (string, bool) {
	message := m.PopString(ctx, KeyFlash)
	ok := m.PopBool(ctx, KeyFlashOK)
	return message, ok
}
