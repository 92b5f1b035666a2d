// Package engine exposes the leafdb database handle: table creation,
// record insertion, and filtered scans over the storage core.
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/joeandaverde/leafdb/internal/catalog"
	"github.com/joeandaverde/leafdb/internal/storage"
)

// DatabaseFileName is the database file created inside the data directory.
const DatabaseFileName = "leaf.db"

// Config describes the configuration for the database.
type Config struct {
	// DataDir is the directory holding the database file.
	DataDir string `yaml:"data_directory"`

	// PageSize overrides the page size for new databases. Zero means
	// the OS page size. Existing databases keep their recorded size.
	PageSize int `yaml:"page_size"`

	// Addr is the listen address of the TCP surface.
	Addr string `yaml:"listen"`

	// MaxConnections caps concurrent client connections. Zero means no cap.
	MaxConnections int `yaml:"max_connections"`
}

// Engine is a handle over an open database file. Operations are
// serialized on the handle; the engine performs no internal concurrency.
type Engine struct {
	// Log receives operational logging for the engine.
	Log *log.Logger

	// Config is the configuration the engine was started with.
	Config *Config

	file  *storage.DbFile
	pager *storage.Pager
	mu    sync.Mutex
}

// Start opens the database in the configured data directory, creating
// and initializing the file when it does not exist.
func Start(config *Config) (*Engine, error) {
	logger := log.New()

	pageSize := config.PageSize
	if pageSize == 0 {
		pageSize = os.Getpagesize()
	}

	path := filepath.Join(config.DataDir, DatabaseFileName)
	logger.Infof("starting database engine [path: %s]", path)

	file, err := storage.OpenDbFile(path, pageSize)
	if err != nil {
		return nil, err
	}

	return &Engine{
		Log:    logger,
		Config: config,
		file:   file,
		pager:  storage.NewPager(file),
	}, nil
}

// Path is the location of the database file.
func (e *Engine) Path() string {
	return e.file.Path()
}

// PageSize is the page size of the open database.
func (e *Engine) PageSize() int {
	return e.file.PageSize()
}

// TotalPages is the number of allocated pages.
func (e *Engine) TotalPages() int {
	return e.file.TotalPages()
}

// DescribeTable resolves a table's root page and column definitions from
// the catalog.
func (e *Engine) DescribeTable(name string) (*catalog.TableDefinition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return catalog.GetTableDefinition(e.pager, name)
}

// Close releases the underlying file. Uncommitted pages are discarded.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pager.Reset()
	return e.file.Close()
}

// commit flushes staged pages; any failure drops them so the handle
// stays consistent with the file.
func (e *Engine) commit() error {
	if err := e.pager.Flush(); err != nil {
		e.pager.Reset()
		e.Log.WithError(err).Error("commit failed")
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
