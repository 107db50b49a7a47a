package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// DeleteCommand removes a book from the catalog.
type DeleteCommand struct {
	backend backendFlags
	ID      string

	Out io.Writer
}

func NewDeleteCommand() *DeleteCommand {
	return &DeleteCommand{}
}

func (cmd *DeleteCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)

	cmd.backend.register(fs)
	fs.StringVar(&cmd.ID, "id", "", "Book ID (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s delete -id <id> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete a book from the catalog backend.\n\n")
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

func (cmd *DeleteCommand) Run() error {
	ctx, cancel := cmd.backend.context()
	defer cancel()

	if err := cmd.backend.catalog().DeleteBook(ctx, entities.BookID(cmd.ID)); err != nil {
		return err
	}
	fmt.Fprintf(stdout(cmd.Out), "Deleted book %s\n", cmd.ID)
	return nil
}
