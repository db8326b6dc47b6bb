package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/cmdutil"
	"github.com/lepinkainen/bookshop/internal/config"
	"github.com/lepinkainen/bookshop/internal/errors"
	"github.com/lepinkainen/bookshop/internal/slot"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

var openStore = cmdutil.OpenStore

// CLI represents the complete command structure for the bookshop application
type CLI struct {
	// Global flags
	Storage   string `help:"Storage backend (sqlite, file, postgres, memory)"`
	DB        string `help:"Path to the SQLite storage database"`
	Dir       string `help:"Directory for the file storage backend"`
	DSN       string `help:"Postgres connection string"`
	LogLevel  string `help:"Log level (debug, info, warn, error)" enum:"debug,info,warn,error" default:"info"`
	Overwrite bool   `help:"Overwrite existing files when exporting"`

	List   ListCmd   `cmd:"" default:"withargs" help:"List books, filtered and sorted"`
	Show   ShowCmd   `cmd:"" help:"Show a single book"`
	Add    AddCmd    `cmd:"" help:"Add a book"`
	Edit   EditCmd   `cmd:"" help:"Edit a book; omitted fields keep their values"`
	Delete DeleteCmd `cmd:"" help:"Delete a book"`
	Reset  ResetCmd  `cmd:"" help:"Discard the stored catalog and start over from the seed list"`
	Browse BrowseCmd `cmd:"" help:"Browse and edit the catalog in the terminal"`
	Serve  ServeCmd  `cmd:"" help:"Serve the catalog as a JSON API"`
	Import ImportCmd `cmd:"" help:"Import books from other services"`
	Export ExportCmd `cmd:"" help:"Export the catalog"`
}

// appContext is bound to every command's Run method.
type appContext struct {
	ctx context.Context
	out io.Writer
	in  io.Reader
}

// open returns the configured store and a func closing its slot.
func (a *appContext) open() (*catalog.Store, func(), error) {
	store, s, err := openStore(a.ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return store, func() {
		if err := s.Close(); err != nil {
			slog.Warn("Failed to close storage", "error", err)
		}
	}, nil
}

func (a *appContext) openSlot() (slot.Slot, error) {
	s, err := slot.Open(cmdutil.SlotOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return s, nil
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("bookshop"),
		kong.Description("Manage a small book catalog from the terminal."),
		kong.UsageOnError(),
	}, options...)
	return kong.New(cli, options...)
}

// Execute parses the command line and runs the selected command.
func Execute() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	initLogging(cli.LogLevel)
	initConfig()
	updateGlobalConfig(&cli)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = kctx.Run(&appContext{ctx: ctx, out: os.Stdout, in: os.Stdin})
	if errors.IsCancelledError(err) {
		slog.Info(err.Error())
		return
	}
	if err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	config.SetDefaults()

	viper.SetEnvPrefix("BOOKSHOP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

// updateGlobalConfig lets the global flags override the loaded config.
func updateGlobalConfig(cli *CLI) {
	if cli.Storage != "" {
		viper.Set("storage.backend", cli.Storage)
	}
	if cli.DB != "" {
		viper.Set("storage.dbfile", cli.DB)
	}
	if cli.Dir != "" {
		viper.Set("storage.dir", cli.Dir)
	}
	if cli.DSN != "" {
		viper.Set("storage.dsn", cli.DSN)
	}
	if cli.Overwrite {
		viper.Set("OverwriteFiles", true)
	}
	config.InitConfig()
}

func initLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: lvl,
	})
	slog.SetDefault(slog.New(handler))
}
