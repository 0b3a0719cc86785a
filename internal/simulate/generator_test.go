package simulate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAllSystems_CreatesRequestedCount(t *testing.T) {
	base := t.TempDir()
	gen := NewGenerator(base, 42)

	ids, err := gen.GenerateAllSystems(3)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	assert.Len(t, dirs, 3)
	assert.ElementsMatch(t, ids, dirs)
}

func TestGenerateAllSystems_FixedFileSet(t *testing.T) {
	base := t.TempDir()
	gen := NewGenerator(base, 42)

	ids, err := gen.GenerateAllSystems(3)
	require.NoError(t, err)

	for _, id := range ids {
		for _, rel := range []string{
			"etc/redhat-release",
			"etc/yum.conf",
			"var/log/secure",
			"var/log/yum.log",
			"var/log/messages",
			"var/lib/rpm/packages.txt",
		} {
			assert.FileExists(t, filepath.Join(base, id, filepath.FromSlash(rel)), "%s/%s", id, rel)
		}

		units, err := filepath.Glob(filepath.Join(base, id, "usr/lib/systemd/system/*.service"))
		require.NoError(t, err)
		assert.NotEmpty(t, units, "%s has no service units", id)
	}
}

func TestGenerateSystem_ContentShape(t *testing.T) {
	base := t.TempDir()
	gen := NewGenerator(base, 1)

	profile := defaultProfiles[0]
	require.NoError(t, gen.GenerateSystem(profile))

	release, err := os.ReadFile(filepath.Join(base, profile.SystemID, "etc/redhat-release"))
	require.NoError(t, err)
	assert.Contains(t, string(release), "Red Hat Enterprise Linux release 9.2")

	secure, err := os.ReadFile(filepath.Join(base, profile.SystemID, "var/log/secure"))
	require.NoError(t, err)
	assert.Contains(t, string(secure), "sshd[")

	packages, err := os.ReadFile(filepath.Join(base, profile.SystemID, "var/lib/rpm/packages.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(packages), "httpd-2.4.53")

	unit, err := os.ReadFile(filepath.Join(base, profile.SystemID, "usr/lib/systemd/system/httpd.service"))
	require.NoError(t, err)
	assert.Contains(t, string(unit), "Description=HTTPD Service")
}

func TestGenerateSystem_RHEL8Codename(t *testing.T) {
	base := t.TempDir()
	gen := NewGenerator(base, 1)

	profile := defaultProfiles[3] // db-prod-01, RHEL 8.8
	require.NoError(t, gen.GenerateSystem(profile))

	release, err := os.ReadFile(filepath.Join(base, profile.SystemID, "etc/redhat-release"))
	require.NoError(t, err)
	assert.Contains(t, string(release), "release 8.8 (Ootpa)")
}

func TestGenerator_SeedReproducible(t *testing.T) {
	baseA := t.TempDir()
	baseB := t.TempDir()

	_, err := NewGenerator(baseA, 7).GenerateAllSystems(1)
	require.NoError(t, err)
	_, err = NewGenerator(baseB, 7).GenerateAllSystems(1)
	require.NoError(t, err)

	// Timestamps differ between runs (wall clock), but the package list is
	// fully seed-driven.
	a, err := os.ReadFile(filepath.Join(baseA, "web-prod-01", "var/lib/rpm/packages.txt"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(baseB, "web-prod-01", "var/lib/rpm/packages.txt"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerateAllSystems_BeyondRosterClones(t *testing.T) {
	base := t.TempDir()
	gen := NewGenerator(base, 42)

	ids, err := gen.GenerateAllSystems(7)
	require.NoError(t, err)
	require.Len(t, ids, 7)

	// Identifiers stay unique past the roster size.
	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate system id %s", id)
		seen[id] = true
	}
	assert.Contains(t, ids, "web-prod-01-2")
}
