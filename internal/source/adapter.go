// Package source provides adapters that enumerate systems and read their
// raw files from a configured data source.
package source

import "context"

// DataSourceAdapter is the contract every data source implementation
// satisfies. Alternative backends (API, database) can provide systems to
// the pipeline by implementing these two operations.
type DataSourceAdapter interface {
	// Name identifies the adapter for logging.
	Name() string

	// ListAvailableSystems returns the identifiers of every system the
	// source can provide. A source with nothing to offer returns an empty
	// slice, not an error.
	ListAvailableSystems(ctx context.Context) ([]string, error)

	// LoadSystemFiles returns a mapping from relative file path to raw
	// text content for one system. Unreadable files are skipped, not
	// fatal.
	LoadSystemFiles(ctx context.Context, systemID string) (map[string]string, error)
}
