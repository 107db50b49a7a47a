package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/bookshelf/internal/creation"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// AddCommand validates a book locally and submits it with an optional cover.
type AddCommand struct {
	backend   backendFlags
	Draft     entities.Draft
	rating    string
	genre     string
	ImagePath string

	Out io.Writer
}

func NewAddCommand() *AddCommand {
	return &AddCommand{}
}

func (cmd *AddCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)

	cmd.backend.register(fs)
	fs.StringVar(&cmd.Draft.Title, "title", "", "Book title (required)")
	fs.StringVar(&cmd.Draft.Author, "author", "", "Author name (required)")
	fs.StringVar(&cmd.genre, "genre", "", "One of: Fiction, Non-Fiction, Mystery, Fantasy, Romance, Sci-Fi, Others")
	fs.StringVar(&cmd.Draft.PublicationDate, "date", "", "Publication date as YYYY-MM-DD")
	fs.StringVar(&cmd.Draft.ISBN, "isbn", "", "13-digit ISBN; dashes and spaces are ignored")
	fs.StringVar(&cmd.rating, "rating", "1", "Rating from 1 to 5")
	fs.StringVar(&cmd.ImagePath, "image", "", "Path to a cover image")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s add -title <title> -author <author> ... [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Add a book to the catalog backend.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s add -title \"Dune\" -author \"Frank Herbert\" -genre Sci-Fi -date 1965-08-01 -isbn 978-0441013593 -rating 5 -image dune.jpg\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Draft.Genre = entities.Genre(cmd.genre)
	cmd.Draft.Rating = creation.ParseRating(cmd.rating)
	return nil
}

func (cmd *AddCommand) Run() error {
	var upload *entities.CoverUpload
	if cmd.ImagePath != "" {
		data, err := os.ReadFile(cmd.ImagePath)
		if err != nil {
			return fmt.Errorf("failed to read cover image: %w", err)
		}
		upload = &entities.CoverUpload{Filename: filepath.Base(cmd.ImagePath), Data: data}
	}

	ctx, cancel := cmd.backend.context()
	defer cancel()

	form := creation.NewForm()

	out := stdout(cmd.Out)
	book, err := form.Submit(ctx, cmd.backend.catalog(), cmd.Draft, upload)
	if err != nil {
		fmt.Fprintln(out, creation.UserMessage(err))
		var verr *creation.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Fields {
				fmt.Fprintf(out, "  %s: %s\n", fe.Field, fe.Message)
			}
		}
		return err
	}

	fmt.Fprintln(out, creation.MessageSuccess)
	fmt.Fprintf(out, "ID: %s\n", book.ID)
	return nil
}
