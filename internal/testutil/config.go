package testutil

import (
	"testing"

	"github.com/lepinkainen/bookshop/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	StorageBackend string
	DBFile         string
	StorageDir     string
	SlotKey        string
	OverwriteFiles bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		StorageBackend: config.StorageBackend,
		DBFile:         config.DBFile,
		StorageDir:     config.StorageDir,
		SlotKey:        config.SlotKey,
		OverwriteFiles: config.OverwriteFiles,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.StorageBackend = state.StorageBackend
	config.DBFile = state.DBFile
	config.StorageDir = state.StorageDir
	config.SlotKey = state.SlotKey
	config.OverwriteFiles = state.OverwriteFiles
}

// ResetConfig resets viper and restores the config globals when the test completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// viper has no Unset, a key that was unset stays set
	})
}

// SetupTestStorage points the sqlite and file backends into the sandbox.
// Returns the database path.
func SetupTestStorage(t *testing.T, env *TestEnv) string {
	t.Helper()

	ResetConfig(t)

	env.MkdirAll("slots")
	dbPath := env.Path("bookshop.db")

	viper.Set("storage.dbfile", dbPath)
	viper.Set("storage.dir", env.Path("slots"))
	config.InitConfig()

	return dbPath
}
