package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mrlokans/bookshelf/internal/listing"
)

// ListCommand prints the book table a page at a time.
type ListCommand struct {
	backend backendFlags
	Sort    string
	Page    int
	All     bool

	Out io.Writer
}

func NewListCommand() *ListCommand {
	return &ListCommand{}
}

func (cmd *ListCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)

	cmd.backend.register(fs)
	fs.StringVar(&cmd.Sort, "sort", "", "Sort by title, author, genre, rating, rating-asc or rating-desc")
	fs.IntVar(&cmd.Page, "page", 1, "Page to show (10 books per page)")
	fs.BoolVar(&cmd.All, "all", false, "Print every page")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s list [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List books from the catalog backend.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s list -sort rating-desc\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s list -page 2\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *ListCommand) Run() error {
	ctx, cancel := cmd.backend.context()
	defer cancel()

	books, err := cmd.backend.catalog().ListBooks(ctx)
	if err != nil {
		return err
	}

	l := listing.New(books)
	if err := l.Apply(cmd.Sort); err != nil {
		return err
	}

	out := stdout(cmd.Out)
	if l.Len() == 0 {
		fmt.Fprintln(out, "No books available")
		return nil
	}

	if !cmd.All {
		l.SetPage(cmd.Page)
		printPage(out, l.Current())
		return nil
	}

	for n := 1; n <= l.TotalPages(); n++ {
		l.SetPage(n)
		printPage(out, l.Current())
	}
	return nil
}

func printPage(out io.Writer, page listing.Page) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tTITLE\tAUTHOR\tGENRE\tRATING")
	for i, b := range page.Books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n", page.Index(i), b.ID, b.Title, b.Author, b.Genre, b.Rating)
	}
	tw.Flush()
	fmt.Fprintf(out, "Page %d of %d\n", page.Number, page.TotalPages)
}
