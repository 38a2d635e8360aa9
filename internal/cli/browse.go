package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mrlokans/mediatracker/internal/config"
	"github.com/mrlokans/mediatracker/internal/database"
	"github.com/mrlokans/mediatracker/internal/repository"
	"github.com/mrlokans/mediatracker/internal/viewstate"
)

// BrowseCommand is an interactive title search over the catalog. Each input
// line replaces the search text; results are printed as they are published,
// including when the catalog changes underneath the current search.
type BrowseCommand struct {
	DatabasePath string
	Debounce     time.Duration

	In  io.Reader
	Out io.Writer
}

// QuitCommand ends a browse session.
const QuitCommand = ":q"

func NewBrowseCommand() *BrowseCommand {
	return &BrowseCommand{In: os.Stdin, Out: os.Stdout}
}

func (cmd *BrowseCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database")
	fs.DurationVar(&cmd.Debounce, "debounce", viewstate.DefaultDebounce, "Quiet period before a search runs")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s browse [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Type part of a title and press enter to search. %s quits.\n\n", QuitCommand)
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *BrowseCommand) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return cmd.run(ctx)
}

func (cmd *BrowseCommand) run(ctx context.Context) error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	holder := viewstate.New(ctx, repository.New(db), viewstate.Options{Debounce: cmd.Debounce})

	results, unsubscribeResults := holder.SearchResults.Data.Subscribe()
	failures, unsubscribeFailures := holder.SearchResults.Err.Subscribe()

	var printers sync.WaitGroup
	printers.Add(2)
	go func() {
		defer printers.Done()
		for r := range results {
			if r.Query == "" && r.Movies == nil {
				continue // not searched yet
			}
			cmd.printResult(r)
		}
	}()
	go func() {
		defer printers.Done()
		for err := range failures {
			if err != nil {
				fmt.Fprintf(cmd.Out, "search failed: %v\n", err)
			}
		}
	}()

	fmt.Fprintf(cmd.Out, "Type to search, %s to quit.\n", QuitCommand)
	scanErr := cmd.readInput(ctx, holder)

	holder.Close()
	unsubscribeResults()
	unsubscribeFailures()
	printers.Wait()

	return scanErr
}

func (cmd *BrowseCommand) readInput(ctx context.Context, holder *viewstate.Holder) error {
	scanner := bufio.NewScanner(cmd.In)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == QuitCommand {
			return nil
		}
		holder.SetSearch(line)
	}
	return scanner.Err()
}

func (cmd *BrowseCommand) printResult(r viewstate.SearchResult) {
	fmt.Fprintf(cmd.Out, "search %q: %d movie(s)\n", r.Query, len(r.Movies))
	for _, m := range r.Movies {
		line := fmt.Sprintf("  #%d %s", m.ID, m.Title)
		if m.Year > 0 {
			line += fmt.Sprintf(" (%d)", m.Year)
		}
		if m.Rating > 0 {
			line += fmt.Sprintf(" %d/10", m.Rating)
		}
		if m.Watchlist {
			line += " [watchlist]"
		}
		fmt.Fprintln(cmd.Out, line)
	}
}
