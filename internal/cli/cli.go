// Package cli implements the tetris command-line interface.
//
// The commands load a TOML design description and report on it:
//   - cells: one row per cell with its views and resolved geometry
//   - bbox: placed bounding boxes of every instance in a layout
//   - graph: the cell hierarchy as DOT, or SVG through graphviz
//
// All commands support --verbose (-v) for debug-level logging. Library
// events (cells added, instances placed, refused cycles, failed lock
// access) are forwarded to the logger through the observability hooks.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tetris/internal/config"
	"github.com/matzehuels/tetris/pkg/buildinfo"
	"github.com/matzehuels/tetris/pkg/cache"
	"github.com/matzehuels/tetris/pkg/library"
	"github.com/matzehuels/tetris/pkg/observability"
)

const (
	// appName is the application name used for directories and display.
	appName = "tetris"

	// renderTTL bounds how long rendered diagrams stay cached.
	renderTTL = 7 * 24 * time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "tetris",
		Short:        "Tetris inspects hierarchical cell layouts",
		Long:         `Tetris loads a design of multi-view cells and placed instances, resolves their geometry and reports outlines, bounding boxes and the cell hierarchy.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := logHooks{logger: c.Logger}
			observability.SetCellHooks(hooks)
			observability.SetLibraryHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.cellsCommand())
	root.AddCommand(c.bboxCommand())
	root.AddCommand(c.graphCommand())

	return root
}

// load reads a design file and logs how long it took.
func (c *CLI) load(path string) (*library.Library, error) {
	prog := newProgress(c.Logger)
	lib, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	prog.done("Loaded " + path)
	return lib, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/tetris/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
