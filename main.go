package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/bookshelf/internal/cli"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is implemented by every CLI subcommand.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
	config.LoadDotEnv()

	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	name := os.Args[1]
	args := os.Args[2:]

	var cmd command
	switch name {
	case "list":
		cmd = cli.NewListCommand()
	case "show":
		cmd = cli.NewShowCommand()
	case "add":
		cmd = cli.NewAddCommand()
	case "delete":
		cmd = cli.NewDeleteCommand()
	case "featured":
		cmd = cli.NewFeaturedCommand()
	case "covers-prune":
		cmd = cli.NewCoversPruneCommand()

	case "version":
		fmt.Printf("bookshelf %s (%s)\n", Version, Commit)
		return

	case "-h", "--help", "help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve          Start the web UI (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  list           List books, 10 per page\n")
	fmt.Fprintf(os.Stderr, "  show           Show one book with details looked up by ISBN\n")
	fmt.Fprintf(os.Stderr, "  add            Validate and add a book, optionally with a cover image\n")
	fmt.Fprintf(os.Stderr, "  delete         Delete a book\n")
	fmt.Fprintf(os.Stderr, "  featured       Show the featured books and their thumbnails\n")
	fmt.Fprintf(os.Stderr, "  covers-prune   Remove stale covers from the local cache\n")
	fmt.Fprintf(os.Stderr, "  version        Print the version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
