package source

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/rrbanda/dataloader/internal/config"
	"github.com/rrbanda/dataloader/internal/observability"
	"github.com/rrbanda/dataloader/internal/types"
)

// FilesystemAdapter reads systems laid out as subdirectories of a base
// path, one directory per system, with files selected by per-category
// glob patterns.
type FilesystemAdapter struct {
	name     string
	basePath string
	patterns map[string][]string
	logger   *observability.PipelineLogger
}

// NewFilesystemAdapter creates an adapter for one configured data source.
func NewFilesystemAdapter(name string, cfg config.DataSourceConfig, logger *observability.PipelineLogger) *FilesystemAdapter {
	return &FilesystemAdapter{
		name:     name,
		basePath: cfg.BasePath,
		patterns: cfg.FilePatterns,
		logger:   logger,
	}
}

func (a *FilesystemAdapter) Name() string {
	return a.name
}

// ListAvailableSystems returns the immediate subdirectory names under the
// base path that contain at least one file matching a configured pattern,
// sorted. A missing base path yields an empty list, not an error, so a
// fresh deployment with no data comes up cleanly.
func (a *FilesystemAdapter) ListAvailableSystems(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(a.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			a.logger.Warn(ctx, "data source base path does not exist",
				"source", a.name, "base_path", a.basePath)
			return []string{}, nil
		}
		return nil, types.WrapError(types.SOURCE_READ_FAILED, "failed to list systems", err)
	}

	systems := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if a.hasMatchingFile(ctx, entry.Name()) {
			systems = append(systems, entry.Name())
		}
	}
	sort.Strings(systems)
	return systems, nil
}

// hasMatchingFile reports whether any configured pattern matches at least
// one file under the system's directory.
func (a *FilesystemAdapter) hasMatchingFile(ctx context.Context, systemID string) bool {
	rootFS := os.DirFS(filepath.Join(a.basePath, systemID))
	for category, patterns := range a.patterns {
		for _, pattern := range patterns {
			matches, err := doublestar.Glob(rootFS, filepath.ToSlash(pattern))
			if err != nil {
				a.logger.Warn(ctx, "invalid file pattern, skipping",
					"source", a.name, "category", category, "pattern", pattern, "error", err.Error())
				continue
			}
			if len(matches) > 0 {
				return true
			}
		}
	}
	return false
}

// LoadSystemFiles expands every configured glob pattern rooted at
// base_path/systemID and returns relative path -> text content. Files
// that cannot be read are logged and skipped. Content is decoded
// permissively: invalid UTF-8 bytes are replaced, never fatal.
func (a *FilesystemAdapter) LoadSystemFiles(ctx context.Context, systemID string) (map[string]string, error) {
	systemRoot := filepath.Join(a.basePath, systemID)
	if _, err := os.Stat(systemRoot); err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewError(types.SOURCE_NOT_FOUND,
				"system directory not found: "+systemRoot)
		}
		return nil, types.WrapError(types.SOURCE_READ_FAILED, "failed to stat system directory", err)
	}

	rootFS := os.DirFS(systemRoot)
	files := make(map[string]string)

	for category, patterns := range a.patterns {
		for _, pattern := range patterns {
			matches, err := doublestar.Glob(rootFS, filepath.ToSlash(pattern))
			if err != nil {
				a.logger.Warn(ctx, "invalid file pattern, skipping",
					"source", a.name, "category", category, "pattern", pattern, "error", err.Error())
				continue
			}

			for _, match := range matches {
				if _, seen := files[match]; seen {
					continue
				}

				info, err := os.Lstat(filepath.Join(systemRoot, filepath.FromSlash(match)))
				if err != nil || !info.Mode().IsRegular() {
					continue
				}

				raw, err := os.ReadFile(filepath.Join(systemRoot, filepath.FromSlash(match)))
				if err != nil {
					a.logger.Warn(ctx, "skipping unreadable file",
						"source", a.name, "system_id", systemID, "path", match, "error", err.Error())
					continue
				}

				files[match] = strings.ToValidUTF8(string(raw), "�")
			}
		}
	}

	a.logger.Debug(ctx, "loaded system files",
		"source", a.name, "system_id", systemID, "file_count", len(files))
	return files, nil
}
