package creation

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultFormTTL is how long an idle session keeps its form.
const DefaultFormTTL = 30 * time.Minute

// Registry holds one Form per session key. Idle forms expire.
type Registry struct {
	mu    sync.Mutex
	forms *ttlcache.Cache[string, *Form]
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultFormTTL
	}
	return &Registry{
		forms: ttlcache.New(ttlcache.WithTTL[string, *Form](ttl)),
	}
}

// Start runs the expiry loop until Stop is called.
func (r *Registry) Start() {
	go r.forms.Start()
}

func (r *Registry) Stop() {
	r.forms.Stop()
}

// Form returns the form for key, creating it if needed. Each access extends its TTL.
func (r *Registry) Form(key string) *Form {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item := r.forms.Get(key); item != nil {
		return item.Value()
	}
	form := NewForm()
	r.forms.Set(key, form, ttlcache.DefaultTTL)
	return form
}
