package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrbanda/dataloader/internal/config"
	"github.com/rrbanda/dataloader/internal/observability"
	"github.com/rrbanda/dataloader/internal/types"
)

func testLogger() *observability.PipelineLogger {
	return observability.NewPipelineLogger(observability.NewHandler(io.Discard, "json", "error"), "test")
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestAdapter(basePath string, patterns map[string][]string) *FilesystemAdapter {
	return NewFilesystemAdapter("systems", config.DataSourceConfig{
		Type:         "filesystem",
		BasePath:     basePath,
		FilePatterns: patterns,
	}, testLogger())
}

func TestListAvailableSystems(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "web-01/system_info.txt", "info")
	writeFile(t, base, "db-01/var/log/messages.log", "log line")
	writeFile(t, base, "empty-01/readme.md", "no matching files")
	require.NoError(t, os.WriteFile(filepath.Join(base, "not-a-dir"), []byte("x"), 0o644))

	adapter := newTestAdapter(base, map[string][]string{
		"system_info": {"**/system_info.txt"},
		"log_files":   {"var/log/**/*.log"},
	})

	systems, err := adapter.ListAvailableSystems(context.Background())
	require.NoError(t, err)

	// Only directories with at least one matching file count as systems.
	assert.Equal(t, []string{"db-01", "web-01"}, systems)
}

func TestListAvailableSystems_MissingBasePath(t *testing.T) {
	adapter := newTestAdapter(filepath.Join(t.TempDir(), "nope"), map[string][]string{
		"system_info": {"system_info.txt"},
	})

	systems, err := adapter.ListAvailableSystems(context.Background())
	require.NoError(t, err)
	assert.Empty(t, systems)
}

func TestLoadSystemFiles_SingleFile(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "web-01/system_info.txt", "Red Hat Enterprise Linux release 9.3")

	adapter := newTestAdapter(base, map[string][]string{
		"system_info": {"**/system_info.txt"},
	})

	files, err := adapter.LoadSystemFiles(context.Background(), "web-01")
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "Red Hat Enterprise Linux release 9.3", files["system_info.txt"])
}

func TestLoadSystemFiles_MultipleCategories(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "web-01/etc/redhat-release", "Red Hat Enterprise Linux release 9.3 (Plow)")
	writeFile(t, base, "web-01/var/log/secure.log", "sshd session opened")
	writeFile(t, base, "web-01/var/log/audit/audit.log", "audit entry")
	writeFile(t, base, "web-01/notes.txt", "not matched by any pattern")

	adapter := newTestAdapter(base, map[string][]string{
		"config_files": {"etc/redhat-release"},
		"log_files":    {"var/log/**/*.log"},
	})

	files, err := adapter.LoadSystemFiles(context.Background(), "web-01")
	require.NoError(t, err)

	assert.Len(t, files, 3)
	assert.Contains(t, files, "etc/redhat-release")
	assert.Contains(t, files, "var/log/secure.log")
	assert.Contains(t, files, "var/log/audit/audit.log")
	assert.NotContains(t, files, "notes.txt")
}

func TestLoadSystemFiles_UnknownSystem(t *testing.T) {
	adapter := newTestAdapter(t.TempDir(), map[string][]string{
		"system_info": {"system_info.txt"},
	})

	_, err := adapter.LoadSystemFiles(context.Background(), "ghost-99")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.NewError(types.SOURCE_NOT_FOUND, ""))
}

func TestLoadSystemFiles_InvalidBytesReplaced(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "web-01", "system_info.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte{'o', 'k', 0xff, 0xfe, '!'}, 0o644))

	adapter := newTestAdapter(base, map[string][]string{
		"system_info": {"system_info.txt"},
	})

	files, err := adapter.LoadSystemFiles(context.Background(), "web-01")
	require.NoError(t, err)
	assert.Equal(t, "ok��!", files["system_info.txt"])
}

func TestLoadSystemFiles_OverlappingPatternsDeduplicated(t *testing.T) {
	base := t.TempDir()
	writeFile(t, base, "web-01/var/log/yum.log", "Installed: httpd")

	adapter := newTestAdapter(base, map[string][]string{
		"log_files":     {"var/log/**/*.log"},
		"package_files": {"var/log/yum.log"},
	})

	files, err := adapter.LoadSystemFiles(context.Background(), "web-01")
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
