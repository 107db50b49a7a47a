package cli

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/metadata"
)

// backendFlags are shared by every command that talks to the catalog backend.
type backendFlags struct {
	APIURL    string
	Timeout   time.Duration
	RateLimit float64
}

func (b *backendFlags) register(fs *flag.FlagSet) {
	cfg := config.NewConfig()
	fs.StringVar(&b.APIURL, "api", cfg.Backend.APIURL, "Base URL of the book catalog backend")
	fs.DurationVar(&b.Timeout, "timeout", cfg.Backend.Timeout, "Timeout for each backend request")
	fs.Float64Var(&b.RateLimit, "rate", cfg.Metadata.RateLimit, "Metadata lookups per second (0 = unlimited)")
}

func (b *backendFlags) catalog() *catalog.Client {
	return catalog.NewClient(b.APIURL, b.Timeout)
}

func (b *backendFlags) metadata() *metadata.Client {
	return metadata.NewClient(b.APIURL, metadata.WithRateLimit(b.RateLimit, 1), metadata.WithTimeout(b.Timeout))
}

// context bounds a whole command run and is cancelled on SIGINT or SIGTERM.
// Zero timeouts fall back to a minute.
func (b *backendFlags) context() (context.Context, context.CancelFunc) {
	timeout := 4 * b.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(sigCtx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
