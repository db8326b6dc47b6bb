package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestEnv_Path(t *testing.T) {
	env := NewTestEnv(t)

	// Test basic path
	path := env.Path("subdir", "file.txt")
	assert.True(t, filepath.IsAbs(path))
	assert.Contains(t, path, "subdir")
	assert.Contains(t, path, "file.txt")
}

func TestTestEnv_Path_WithinSandbox(t *testing.T) {
	env := NewTestEnv(t)

	// These should work
	_ = env.Path("subdir")
	_ = env.Path("subdir", "nested")
	_ = env.Path("file.txt")
}

func TestTestEnv_WriteReadFile(t *testing.T) {
	env := NewTestEnv(t)

	content := []byte("test content")
	env.WriteFile("test.txt", content)

	read := env.ReadFile("test.txt")
	assert.Equal(t, content, read)
}

func TestTestEnv_WriteReadFileString(t *testing.T) {
	env := NewTestEnv(t)

	content := "test string content"
	env.WriteFileString("test.txt", content)

	read := env.ReadFileString("test.txt")
	assert.Equal(t, content, read)
}

func TestTestEnv_MkdirAll(t *testing.T) {
	env := NewTestEnv(t)

	env.MkdirAll("nested/dir/structure")

	path := env.Path("nested/dir/structure")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestTestEnv_FileExists(t *testing.T) {
	env := NewTestEnv(t)

	assert.False(t, env.FileExists("nonexistent.txt"))

	env.WriteFileString("exists.txt", "content")
	assert.True(t, env.FileExists("exists.txt"))
}

func TestTestEnv_RequireFileExists(t *testing.T) {
	env := NewTestEnv(t)
	env.WriteFileString("exists.txt", "content")

	// This should not panic
	env.RequireFileExists("exists.txt")
}

func TestTestEnv_RequireFileNotExists(t *testing.T) {
	env := NewTestEnv(t)

	// This should not panic
	env.RequireFileNotExists("nonexistent.txt")
}

func TestTestEnv_ListFiles(t *testing.T) {
	env := NewTestEnv(t)

	env.WriteFileString("file1.txt", "1")
	env.WriteFileString("file2.txt", "2")
	env.MkdirAll("subdir")

	files := env.ListFiles(".")
	assert.Len(t, files, 3)
	assert.Contains(t, files, "file1.txt")
	assert.Contains(t, files, "file2.txt")
	assert.Contains(t, files, "subdir")
}

func TestTestEnv_AssertFileContains(t *testing.T) {
	env := NewTestEnv(t)

	env.WriteFileString("test.txt", "hello world")
	env.AssertFileContains("test.txt", "world")
}

func TestTestEnv_SetEnv(t *testing.T) {
	env := NewTestEnv(t)

	// Set a test environment variable
	env.SetEnv("TEST_VAR", "test_value")
	assert.Equal(t, "test_value", os.Getenv("TEST_VAR"))
}

func TestTestEnv_SetEnv_Cleanup(t *testing.T) {
	// Set an initial value
	require.NoError(t, os.Setenv("CLEANUP_TEST_VAR", "original"))
	defer func() { _ = os.Unsetenv("CLEANUP_TEST_VAR") }()

	t.Run("inner", func(t *testing.T) {
		env := NewTestEnv(t)
		env.SetEnv("CLEANUP_TEST_VAR", "modified")
		assert.Equal(t, "modified", os.Getenv("CLEANUP_TEST_VAR"))
	})

	// After the inner test, the value should be restored
	assert.Equal(t, "original", os.Getenv("CLEANUP_TEST_VAR"))
}

func TestTestEnv_String(t *testing.T) {
	env := NewTestEnv(t)

	str := env.String()
	assert.Contains(t, str, "TestEnv")
	assert.Contains(t, str, env.RootDir())
}

// Config management tests

func TestResetConfig(t *testing.T) {
	origBackend := config.StorageBackend
	origOverwrite := config.OverwriteFiles

	t.Run("inner", func(t *testing.T) {
		ResetConfig(t)

		config.StorageBackend = "memory"
		config.OverwriteFiles = !origOverwrite

		assert.Equal(t, "memory", config.StorageBackend)
	})

	assert.Equal(t, origBackend, config.StorageBackend)
	assert.Equal(t, origOverwrite, config.OverwriteFiles)
}

func TestSetViperValue(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Run("inner", func(t *testing.T) {
		SetViperValue(t, "test.key", "test-value")
		assert.Equal(t, "test-value", viper.GetString("test.key"))
	})
}

func TestSetupTestStorage(t *testing.T) {
	env := NewTestEnv(t)
	dbPath := SetupTestStorage(t, env)

	assert.Equal(t, filepath.Join(env.RootDir(), "bookshop.db"), dbPath)
	assert.Equal(t, dbPath, config.DBFile)
	assert.DirExists(t, config.StorageDir)
	assert.Equal(t, "sqlite", config.StorageBackend)
}

func TestSaveRestoreConfigState(t *testing.T) {
	config.StorageBackend = "file"
	config.SlotKey = "saved"

	state := SaveConfigState()

	config.StorageBackend = "modified"
	config.SlotKey = "modified"

	RestoreConfigState(state)

	assert.Equal(t, "file", config.StorageBackend)
	assert.Equal(t, "saved", config.SlotKey)
}

// Catalog helper tests

func TestNewCatalog_Seed(t *testing.T) {
	store, _ := NewCatalog(t)

	books := store.All()
	require.Len(t, books, 2)
	assert.Equal(t, "The Great Gatsby", books[0].Title)
}

func TestNewCatalog_WithBooks(t *testing.T) {
	store, s := NewCatalog(t, catalog.Book{ID: 7, Title: "Dune", Author: "Frank Herbert", Genre: catalog.GenreFiction})

	require.Equal(t, 1, store.Len())

	created, err := store.Create(context.Background(), catalog.Payload{Title: "Emma", Author: "Jane Austen", Genre: catalog.GenreClassic})
	require.NoError(t, err)
	assert.Equal(t, int64(100), created.ID)
	assert.Contains(t, s.Raw(catalog.DefaultKey), "Emma")
	assert.Equal(t, 1, s.Saves)
}

func TestMemorySlot_SaveErr(t *testing.T) {
	store, s := NewCatalog(t)
	s.SaveErr = errors.New("disk full")

	_, err := store.Create(context.Background(), catalog.Payload{Title: "Emma", Author: "Jane Austen", Genre: catalog.GenreClassic})
	require.Error(t, err)
	assert.Equal(t, 2, store.Len())
}
