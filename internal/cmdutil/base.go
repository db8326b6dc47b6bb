// Package cmdutil holds setup shared by the bookshop commands.
package cmdutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// OutputConfig holds the output locations of an export command
type OutputConfig struct {
	// OutputDir is the markdown directory; relative values are joined to MarkdownOutputDir
	OutputDir string
	// JSONOutput is the JSON file; empty means <JSONOutputDir>/<Name>.json
	JSONOutput string
	// Name names the default subdirectory and JSON file
	Name      string
	WriteJSON bool
	Overwrite bool
}

// SetupOutputDir resolves the output paths of cfg and creates their directories
func SetupOutputDir(cfg *OutputConfig) error {
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = cfg.Name
	}
	if !filepath.IsAbs(outputDir) {
		baseDir := viper.GetString("MarkdownOutputDir")
		if baseDir == "" {
			baseDir = "markdown"
		}
		outputDir = filepath.Join(baseDir, outputDir)
	}
	cfg.OutputDir = filepath.Clean(outputDir)

	if cfg.WriteJSON && cfg.JSONOutput == "" {
		jsonBaseDir := viper.GetString("JSONOutputDir")
		if jsonBaseDir == "" {
			jsonBaseDir = "json"
		}
		cfg.JSONOutput = filepath.Clean(filepath.Join(jsonBaseDir, cfg.Name+".json"))
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if cfg.WriteJSON {
		if err := os.MkdirAll(filepath.Dir(cfg.JSONOutput), 0o755); err != nil {
			return fmt.Errorf("failed to create JSON output directory: %w", err)
		}
	}
	return nil
}
