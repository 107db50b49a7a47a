package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/gallery"
)

// FeaturedCommand prints the home page gallery: the first books and their thumbnails.
type FeaturedCommand struct {
	backend     backendFlags
	Limit       int
	Placeholder string

	Out io.Writer
}

func NewFeaturedCommand() *FeaturedCommand {
	return &FeaturedCommand{}
}

func (cmd *FeaturedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("featured", flag.ExitOnError)

	cmd.backend.register(fs)
	fs.IntVar(&cmd.Limit, "limit", gallery.DefaultLimit, "Number of books to show")
	fs.StringVar(&cmd.Placeholder, "placeholder", config.DefaultPlaceholderImage, "Image shown for books without a thumbnail")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s featured [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show the featured books with their thumbnails.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *FeaturedCommand) Run() error {
	ctx, cancel := cmd.backend.context()
	defer cancel()

	loader := gallery.NewLoader(cmd.backend.catalog(), cmd.backend.metadata(), nil)
	items, err := loader.LoadFeatured(ctx, cmd.Limit)
	if err != nil {
		return err
	}

	out := stdout(cmd.Out)
	if len(items) == 0 {
		fmt.Fprintln(out, "No books available")
		return nil
	}

	for i, item := range items {
		image := item.Thumbnail
		if !item.HasThumbnail() {
			image = cmd.Placeholder
		}
		fmt.Fprintf(out, "%d. %s by %s\n   %s\n", i+1, item.Book.Title, item.Book.Author, image)
	}
	return nil
}
