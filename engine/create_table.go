package engine

import (
	"github.com/joeandaverde/leafdb/internal/catalog"
)

// CreateTable allocates a root page for the table, records its schema in
// the catalog, and commits.
func (e *Engine) CreateTable(name string, columns []catalog.ColumnDefinition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Log.WithField("table", name).Debug("create table")

	def, err := catalog.CreateTable(e.pager, name, columns)
	if err != nil {
		e.pager.Reset()
		return err
	}

	if err := e.commit(); err != nil {
		return err
	}

	e.Log.WithField("table", name).Debugf("created with root page %d", def.RootPage)
	return nil
}
