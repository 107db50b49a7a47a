package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/detail"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// ShowCommand prints one book with its external details.
type ShowCommand struct {
	backend backendFlags
	ID      string

	Out io.Writer
}

func NewShowCommand() *ShowCommand {
	return &ShowCommand{}
}

func (cmd *ShowCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)

	cmd.backend.register(fs)
	fs.StringVar(&cmd.ID, "id", "", "Book ID (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s show -id <id> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show a book and the details found for its ISBN.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ID == "" {
		return fmt.Errorf("required flag -id not provided")
	}
	return nil
}

func (cmd *ShowCommand) Run() error {
	ctx, cancel := cmd.backend.context()
	defer cancel()

	loader := detail.NewLoader(cmd.backend.catalog(), cmd.backend.metadata(), nil)
	result := loader.Load(ctx, entities.BookID(cmd.ID))
	if !result.Found() {
		return fmt.Errorf("book not found: %s", cmd.ID)
	}

	out := stdout(cmd.Out)
	b := result.Book
	fmt.Fprintln(out, b.Title)
	fmt.Fprintln(out, "==========")
	fmt.Fprintf(out, "Author:           %s\n", b.Author)
	fmt.Fprintf(out, "Genre:            %s\n", b.Genre)
	fmt.Fprintf(out, "Publication Date: %s\n", b.PublicationDate)
	fmt.Fprintf(out, "ISBN:             %s\n", b.ISBN)
	fmt.Fprintf(out, "Rating:           %d / %d\n", b.Rating, entities.MaxRating)
	if b.ImgURL != "" {
		fmt.Fprintf(out, "Cover:            %s\n", b.ImgURL)
	}

	fmt.Fprintln(out, "\nMore Details")
	fmt.Fprintln(out, "------------")
	if !result.Enriched() {
		fmt.Fprintln(out, detail.NoDetails)
		return nil
	}
	fmt.Fprintf(out, "Publisher:  %s\n", result.Publisher())
	fmt.Fprintf(out, "Page Count: %s\n", result.PageCount())
	if thumb := result.Thumbnail(); thumb != "" {
		fmt.Fprintf(out, "Thumbnail:  %s\n", thumb)
	}
	fmt.Fprintf(out, "\n%s\n", result.Description())
	return nil
}
