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
	"github.com/mrlokans/mediatracker/internal/importers"
	"github.com/mrlokans/mediatracker/internal/repository"
)

// ImportCSVCommand imports movies from a CSV export into the catalog.
type ImportCSVCommand struct {
	FilePath     string
	DatabasePath string
	Verbose      bool
	DryRun       bool

	Out io.Writer
}

func NewImportCSVCommand() *ImportCSVCommand {
	return &ImportCSVCommand{Out: os.Stdout}
}

func (cmd *ImportCSVCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-csv", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the CSV file to import (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "List every skipped or failed row")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the file without saving anything")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-csv -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import movies from a CSV file. Every row becomes a new movie;\n")
		fmt.Fprintf(os.Stderr, "malformed rows are skipped and reported.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import-csv -file movies.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import-csv -file movies.csv -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ImportCSVCommand) Run() error {
	return cmd.run(context.Background())
}

func (cmd *ImportCSVCommand) run(ctx context.Context) error {
	out := cmd.Out
	fmt.Fprintln(out, "CSV Import")
	fmt.Fprintln(out, "==========")

	if cmd.DryRun {
		fmt.Fprintln(out, "DRY RUN MODE - No changes will be made")
	}

	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditService.Flush()

	pipeline := importers.NewPipeline(repository.New(db))
	result, err := pipeline.ImportCSV(ctx, file, importers.Options{DryRun: cmd.DryRun})
	if !cmd.DryRun {
		auditService.LogImport("csv_cli", result.Imported, result.Skipped, result.Failed, err)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(out, "File: %s\n", cmd.FilePath)
	fmt.Fprintf(out, "Valid rows: %d\n", result.Parsed)
	if !cmd.DryRun {
		fmt.Fprintf(out, "Imported:   %d\n", result.Imported)
		fmt.Fprintf(out, "Failed:     %d\n", result.Failed)
	}
	fmt.Fprintf(out, "Skipped:    %d\n", result.Skipped)

	if cmd.Verbose && len(result.Errors) > 0 {
		fmt.Fprintln(out, "\n=== Problems ===")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  %s\n", e)
		}
	}
	return nil
}
