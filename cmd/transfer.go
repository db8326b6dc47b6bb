package cmd

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/lepinkainen/bookshop/cmd/export"
	"github.com/lepinkainen/bookshop/cmd/goodreads"
	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/cmdutil"
	"github.com/lepinkainen/bookshop/internal/config"
	"github.com/spf13/viper"
)

var (
	importGoodreads = goodreads.ImportWithParams
	openDatastore   = cmdutil.OpenDatastore
)

// ImportCmd represents the import command and its subcommands
type ImportCmd struct {
	Goodreads GoodreadsCmd `cmd:"" help:"Import books from a Goodreads library export"`
}

// GoodreadsCmd represents the goodreads import command
type GoodreadsCmd struct {
	Input           string `short:"f" help:"Path to Goodreads library export CSV file"`
	DryRun          bool   `help:"Parse and validate without adding books"`
	AllowDuplicates bool   `help:"Import books that are already in the catalog"`
}

// ExportCmd represents the export command and its subcommands
type ExportCmd struct {
	JSON      ExportJSONCmd      `cmd:"" name:"json" help:"Write the catalog to a JSON file"`
	Markdown  ExportMarkdownCmd  `cmd:"" help:"Write one Obsidian note per book"`
	SQLite    ExportSQLiteCmd    `cmd:"" name:"sqlite" help:"Write the catalog to a books table in SQLite"`
	Datasette ExportDatasetteCmd `cmd:"" help:"Push the catalog to a remote Datasette instance"`
}

// ExportJSONCmd represents the json export command
type ExportJSONCmd struct {
	Output string `short:"o" help:"Path to JSON output file (defaults to json/books.json)"`
}

// ExportMarkdownCmd represents the markdown export command
type ExportMarkdownCmd struct {
	Output     string `short:"o" help:"Subdirectory under markdown output directory for notes" default:"books"`
	Covers     bool   `help:"Download and thumbnail cover images next to the notes"`
	JSON       bool   `help:"Also write the exported books to JSON"`
	JSONOutput string `help:"Path to JSON output file (defaults to json/books.json)"`
}

// ExportSQLiteCmd represents the sqlite export command
type ExportSQLiteCmd struct {
	DB string `help:"Path to SQLite export database (defaults to datasette.dbfile from config)"`
}

// ExportDatasetteCmd represents the datasette export command
type ExportDatasetteCmd struct {
	URL      string `help:"Datasette base URL (defaults to datasette.url from config)"`
	Token    string `help:"Datasette API token (defaults to datasette.token from config)"`
	Database string `help:"Datasette database name (defaults to datasette.database from config)"`
}

func (g *GoodreadsCmd) Run(app *appContext) error {
	input := g.Input
	if input == "" {
		input = viper.GetString("goodreads.csvfile")
	}
	if input == "" {
		return fmt.Errorf("input CSV file is required (provide via --input flag or goodreads.csvfile in config)")
	}

	store, closeStore, err := app.open()
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := importGoodreads(app.ctx, store, goodreads.ParseParams{
		CSVPath:         input,
		DryRun:          g.DryRun,
		AllowDuplicates: g.AllowDuplicates,
	})
	if err != nil {
		return err
	}

	verb := "Imported"
	count := result.Created
	if g.DryRun {
		verb = "Would import"
		count = len(result.Books)
	}
	_, err = fmt.Fprintf(app.out, "%s %d of %d books (%d duplicates, %d invalid)\n",
		verb, count, result.Parsed, result.Duplicates, result.Invalid)
	return err
}

// everything matches every book regardless of price.
var everything = catalog.Query{PriceMin: math.Inf(-1), PriceMax: math.Inf(1), Sort: catalog.SortTitle}

func (a *appContext) exportBooks() ([]catalog.Book, error) {
	store, closeStore, err := a.open()
	if err != nil {
		return nil, err
	}
	defer closeStore()
	return store.List(everything), nil
}

func defaultJSONOutput() string {
	return filepath.Join(viper.GetString("JSONOutputDir"), "books.json")
}

func (e *ExportJSONCmd) Run(app *appContext) error {
	books, err := app.exportBooks()
	if err != nil {
		return err
	}

	output := e.Output
	if output == "" {
		output = defaultJSONOutput()
	}
	written, err := export.JSON(books, output, config.OverwriteFiles)
	if err != nil {
		return err
	}
	if !written {
		_, err = fmt.Fprintf(app.out, "%s exists, use --overwrite to replace it\n", output)
		return err
	}
	_, err = fmt.Fprintf(app.out, "Exported %d books to %s\n", len(books), output)
	return err
}

func (e *ExportMarkdownCmd) Run(app *appContext) error {
	out := cmdutil.OutputConfig{
		OutputDir:  e.Output,
		JSONOutput: e.JSONOutput,
		Name:       "books",
		WriteJSON:  e.JSON,
		Overwrite:  config.OverwriteFiles,
	}
	if err := cmdutil.SetupOutputDir(&out); err != nil {
		return err
	}

	books, err := app.exportBooks()
	if err != nil {
		return err
	}

	params := export.MarkdownParams{OutputDir: out.OutputDir, Overwrite: out.Overwrite}
	if e.Covers {
		params.Covers = newCoverResolver(0)
	}
	result, err := export.Markdown(app.ctx, books, params)
	if err != nil {
		return err
	}

	if out.WriteJSON {
		if _, err := export.JSON(books, out.JSONOutput, out.Overwrite); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(app.out, "Wrote %d notes to %s (%d skipped, %d covers)\n",
		result.Written, out.OutputDir, result.Skipped, result.Covers)
	return err
}

func (e *ExportSQLiteCmd) Run(app *appContext) error {
	if e.DB != "" {
		viper.Set("datasette.dbfile", e.DB)
	}
	return exportTable(app, "sqlite")
}

func (e *ExportDatasetteCmd) Run(app *appContext) error {
	if e.URL != "" {
		viper.Set("datasette.url", e.URL)
	}
	if e.Token != "" {
		viper.Set("datasette.token", e.Token)
	}
	if e.Database != "" {
		viper.Set("datasette.database", e.Database)
	}
	return exportTable(app, "datasette")
}

func exportTable(app *appContext, target string) error {
	ds, err := openDatastore(target)
	if err != nil {
		return err
	}

	books, err := app.exportBooks()
	if err != nil {
		return err
	}
	if err := export.Table(app.ctx, ds, viper.GetString("datasette.database"), books); err != nil {
		return err
	}
	_, err = fmt.Fprintf(app.out, "Exported %d books to %s\n", len(books), target)
	return err
}
