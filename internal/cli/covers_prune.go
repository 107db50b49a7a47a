package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/covers"
)

// CoversPruneCommand removes cached cover images that have not been served recently.
type CoversPruneCommand struct {
	CacheDir string
	MaxAge   time.Duration

	Out io.Writer
}

func NewCoversPruneCommand() *CoversPruneCommand {
	return &CoversPruneCommand{}
}

func (cmd *CoversPruneCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("covers-prune", flag.ExitOnError)

	cfg := config.NewConfig()
	fs.StringVar(&cmd.CacheDir, "dir", cfg.Covers.CacheDir, "Cover cache directory")
	fs.DurationVar(&cmd.MaxAge, "max-age", cfg.Covers.MaxAge, "Remove covers not served within this duration")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s covers-prune [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Remove stale covers from the local cache.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.MaxAge <= 0 {
		return fmt.Errorf("-max-age must be positive")
	}
	return nil
}

func (cmd *CoversPruneCommand) Run() error {
	cache, err := covers.NewCache(cmd.CacheDir)
	if err != nil {
		return err
	}

	removed, err := cache.Prune(cmd.MaxAge)
	if err != nil {
		return err
	}
	out := stdout(cmd.Out)
	fmt.Fprintf(out, "Removed %d cached covers from %s\n", removed, cache.CacheDir())

	files, size, err := cache.Usage()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d covers remain (%s)\n", files, humanize.Bytes(uint64(size)))
	return nil
}
