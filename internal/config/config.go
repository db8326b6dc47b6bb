package config

import (
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// StorageBackend selects the storage slot implementation (sqlite, file, postgres, memory)
	StorageBackend string
	// DBFile is the SQLite database holding the storage slot
	DBFile string
	// StorageDir is the directory used by the file backend
	StorageDir string
	// PostgresDSN is the connection string used by the postgres backend
	PostgresDSN string
	// SlotKey is the key the catalog is stored under
	SlotKey string
	// ListenAddr is the address the JSON API binds to
	ListenAddr string
	// PlaceholderImage replaces covers that fail to load
	PlaceholderImage string
	// CoverCacheTTL is how long a cover probe result is trusted
	CoverCacheTTL time.Duration
	// OverwriteFiles controls whether exports replace existing files
	OverwriteFiles bool
)

// SetDefaults registers the default value of every configuration key.
func SetDefaults() {
	viper.SetDefault("storage.backend", "sqlite")
	viper.SetDefault("storage.dbfile", "./bookshop.db")
	viper.SetDefault("storage.dir", "./data/")
	viper.SetDefault("storage.dsn", "")
	viper.SetDefault("storage.key", "books")

	viper.SetDefault("server.addr", "127.0.0.1:8080")

	viper.SetDefault("covers.placeholder", "https://images.unsplash.com/photo-1543002588-bfa74002ed7e")
	viper.SetDefault("covers.ttl", "1h")

	viper.SetDefault("datasette.dbfile", "./bookshop-export.db")
	viper.SetDefault("datasette.database", "bookshop")
	viper.SetDefault("datasette.url", "")
	viper.SetDefault("datasette.token", "")

	viper.SetDefault("goodreads.csvfile", "")

	viper.SetDefault("OverwriteFiles", false)
	viper.SetDefault("MarkdownOutputDir", "./markdown/")
	viper.SetDefault("JSONOutputDir", "./json/")
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	StorageBackend = viper.GetString("storage.backend")
	DBFile = viper.GetString("storage.dbfile")
	StorageDir = viper.GetString("storage.dir")
	PostgresDSN = viper.GetString("storage.dsn")
	SlotKey = viper.GetString("storage.key")
	ListenAddr = viper.GetString("server.addr")
	PlaceholderImage = viper.GetString("covers.placeholder")
	CoverCacheTTL = viper.GetDuration("covers.ttl")
	OverwriteFiles = viper.GetBool("OverwriteFiles")
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}
