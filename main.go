package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/mediatracker/internal/cli"
	"github.com/mrlokans/mediatracker/internal/config"
	"github.com/mrlokans/mediatracker/internal/entrypoint"
	"github.com/mrlokans/mediatracker/internal/logging"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

// command is implemented by every subcommand in internal/cli.
type command interface {
	ParseFlags(args []string) error
	Run() error
}

func main() {
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
	case "import-csv":
		cmd = cli.NewImportCSVCommand()
	case "export-csv":
		cmd = cli.NewExportCSVCommand()
	case "browse":
		cmd = cli.NewBrowseCommand()

	case "version":
		fmt.Printf("mediatracker %s (%s)\n", Version, Commit)
		return

	case "-h", "--help", "help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", name)
		printUsage()
		os.Exit(1)
	}

	cfg := config.NewConfig()
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	if err := cmd.ParseFlags(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
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
	fmt.Fprintf(os.Stderr, "  serve        Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  import-csv   Import movies from a CSV file\n")
	fmt.Fprintf(os.Stderr, "  export-csv   Export the catalog to a CSV file\n")
	fmt.Fprintf(os.Stderr, "  browse       Search titles interactively\n")
	fmt.Fprintf(os.Stderr, "  version      Print the version\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
