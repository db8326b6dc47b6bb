package cmdutil

import (
	"context"
	"fmt"

	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/config"
	"github.com/lepinkainen/bookshop/internal/datastore"
	"github.com/lepinkainen/bookshop/internal/slot"
	"github.com/spf13/viper"
)

// SlotOptions builds the storage slot options from the loaded config.
func SlotOptions() slot.Options {
	return slot.Options{
		Backend: config.StorageBackend,
		DBFile:  config.DBFile,
		Dir:     config.StorageDir,
		DSN:     config.PostgresDSN,
	}
}

// OpenStore opens the configured storage slot and returns an initialized catalog over it.
// The caller closes the slot.
func OpenStore(ctx context.Context, opts ...catalog.Option) (*catalog.Store, slot.Slot, error) {
	s, err := slot.Open(SlotOptions())
	if err != nil {
		return nil, nil, err
	}

	if config.SlotKey != "" {
		opts = append([]catalog.Option{catalog.WithKey(config.SlotKey)}, opts...)
	}
	store := catalog.New(s, opts...)
	store.Initialize(ctx)
	return store, s, nil
}

// OpenDatastore returns the export destination for target ("sqlite" or "datasette")
// configured under the datasette.* keys.
func OpenDatastore(target string) (datastore.Store, error) {
	switch target {
	case "sqlite":
		return datastore.NewSQLiteStore(viper.GetString("datasette.dbfile")), nil
	case "datasette":
		url := viper.GetString("datasette.url")
		if url == "" {
			return nil, fmt.Errorf("datasette.url must be set to export to datasette")
		}
		return datastore.NewDatasetteClient(url, viper.GetString("datasette.token")), nil
	default:
		return nil, fmt.Errorf("unknown export target %q", target)
	}
}
