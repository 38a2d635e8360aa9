package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/mediatracker/internal/audit"
	"github.com/mrlokans/mediatracker/internal/config"
	"github.com/mrlokans/mediatracker/internal/database"
	auditrepo "github.com/mrlokans/mediatracker/internal/database/audit"
	"github.com/mrlokans/mediatracker/internal/entities"
	"github.com/mrlokans/mediatracker/internal/exporters"
	"github.com/mrlokans/mediatracker/internal/repository"
)

// ExportCSVCommand writes the catalog to a CSV file.
type ExportCSVCommand struct {
	OutputPath    string
	DatabasePath  string
	WatchlistOnly bool

	Out io.Writer
}

func NewExportCSVCommand() *ExportCSVCommand {
	return &ExportCSVCommand{Out: os.Stdout}
}

func (cmd *ExportCSVCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-csv", flag.ContinueOnError)

	fs.StringVar(&cmd.OutputPath, "output", exporters.DefaultCSVFileName, "Path of the CSV file to write")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database")
	fs.BoolVar(&cmd.WatchlistOnly, "watchlist", false, "Export only movies on the watchlist")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-csv [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the movie catalog as a versioned CSV file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ExportCSVCommand) Run() error {
	return cmd.run(context.Background())
}

func (cmd *ExportCSVCommand) run(ctx context.Context) error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditService.Flush()

	repo := repository.New(db)
	var reader exporters.MovieReader = repo
	if cmd.WatchlistOnly {
		reader = watchlistReader{repo}
	}

	result, err := exporters.NewCSVExporter(reader).ExportToFile(ctx, cmd.OutputPath)
	auditService.LogExport("csv_cli", result.MoviesProcessed, err)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintf(cmd.Out, "Exported %d movies to %s\n", result.MoviesProcessed, result.File)
	return nil
}

// watchlistReader narrows an export to the watchlist.
type watchlistReader struct {
	repo *repository.Repository
}

func (w watchlistReader) GetAllMovies(ctx context.Context) ([]entities.Movie, error) {
	return w.repo.GetMoviesOnWatchlist(ctx)
}
