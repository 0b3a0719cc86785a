package textproc

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrbanda/dataloader/internal/config"
	"github.com/rrbanda/dataloader/internal/observability"
)

func allCleaning() config.CleaningConfig {
	return config.CleaningConfig{
		RemoveANSICodes:     true,
		NormalizeWhitespace: true,
		RemoveDebugLines:    true,
	}
}

func TestClean_StripsANSICodes(t *testing.T) {
	in := "\x1b[31mFAILED\x1b[0m password for root"
	assert.Equal(t, "FAILED password for root", Clean(in, allCleaning()))
}

func TestClean_PreservesLineBoundaries(t *testing.T) {
	in := "Jan 15 10:23:01 sshd[1234]:   Accepted    password\nJan 15 10:24:17 sshd[1240]: session opened\n"
	out := Clean(in, allCleaning())

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Jan 15 10:23:01 sshd[1234]: Accepted password", lines[0])
}

func TestClean_RemovesDebugLines(t *testing.T) {
	in := "ok line\n2024-01-15 [DEBUG] noise\nanother ok line"
	out := Clean(in, allCleaning())

	assert.NotContains(t, out, "DEBUG")
	assert.Contains(t, out, "ok line")
	assert.Contains(t, out, "another ok line")
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"\x1b[32mgreen\x1b[0m   text\n\n\n\nwith   gaps\t\tand tabs",
		"plain single line",
		"  leading and trailing  \n  on every line  ",
		"",
	}

	for _, in := range inputs {
		once := Clean(in, allCleaning())
		assert.Equal(t, once, Clean(once, allCleaning()), "input %q", in)
	}
}

func reassemble(chunks []string, overlap int) string {
	var b strings.Builder
	for i, chunk := range chunks {
		if i == 0 {
			b.WriteString(chunk)
			continue
		}
		b.WriteString(chunk[overlap:])
	}
	return b.String()
}

func TestChunk_ReconstructsOriginal(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("Jan 15 10:23:01 web-01 sshd[1234]: Accepted password for admin\n")
	}
	text := b.String()

	for _, tc := range []struct{ maxSize, overlap int }{
		{2000, 200},
		{100, 10},
		{64, 0},
		{500, 499},
	} {
		chunks := ChunkAll(text, tc.maxSize, tc.overlap)
		require.NotEmpty(t, chunks)

		for _, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk), tc.maxSize,
				"maxSize=%d overlap=%d", tc.maxSize, tc.overlap)
		}
		assert.Equal(t, text, reassemble(chunks, tc.overlap),
			"maxSize=%d overlap=%d", tc.maxSize, tc.overlap)
	}
}

func TestChunk_ConsecutiveChunksOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij\n", 50)
	chunks := ChunkAll(text, 100, 20)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, chunks[i-1][len(chunks[i-1])-20:], chunks[i][:20])
	}
}

func TestChunk_PrefersLineBoundaries(t *testing.T) {
	text := strings.Repeat("0123456789012345678901234\n", 40)
	chunks := ChunkAll(text, 100, 10)
	require.Greater(t, len(chunks), 1)

	// Every non-final chunk ends where a line does.
	for _, chunk := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(chunk, "\n"), "chunk %q", chunk)
	}
}

func TestChunk_ShortTextIsSingleChunk(t *testing.T) {
	assert.Equal(t, []string{"short"}, ChunkAll("short", 2000, 200))
	assert.Empty(t, ChunkAll("", 2000, 200))
}

func TestChunk_IsRestartable(t *testing.T) {
	text := strings.Repeat("line of text\n", 100)
	seq := Chunk(text, 128, 16)

	first := make([]string, 0)
	for c := range seq {
		first = append(first, c)
	}
	second := make([]string, 0)
	for c := range seq {
		second = append(second, c)
	}
	assert.Equal(t, first, second)
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		path string
		want FileType
	}{
		{"var/log/secure.log", FileTypeLog},
		{"etc/yum.conf", FileTypeConfig},
		{"usr/lib/systemd/system/httpd.service", FileTypeService},
		{"var/lib/rpm/packages.txt", FileTypePackageList},
		{"etc/redhat-release", FileTypeReleaseInfo},
		{"etc/yum.repos.d/rhel.repo", FileTypeRepoConfig},
		{"system_info.txt", FileTypeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFileType(tt.path), tt.path)
	}
}

func TestParseByType_ReleaseInfo(t *testing.T) {
	data := ParseByType(FileTypeReleaseInfo, "Red Hat Enterprise Linux release 9.3 (Plow)")

	assert.Equal(t, "9.3", data.Version)
	assert.Equal(t, "Plow", data.Codename)
	assert.Equal(t, "Red Hat Enterprise Linux release 9.3 (Plow)", data.FullRelease)
}

func TestParseByType_ReleaseInfoUnknownVersion(t *testing.T) {
	data := ParseByType(FileTypeReleaseInfo, "some unrecognized banner")
	assert.Equal(t, "unknown", data.Version)
	assert.Equal(t, "unknown", data.Codename)
}

func TestParseByType_ConfigFile(t *testing.T) {
	content := "# comment\nkeepcache=0\ndebuglevel = 2\nmalformed line\n"
	data := ParseByType(FileTypeConfig, content)

	assert.Equal(t, map[string]string{
		"keepcache":  "0",
		"debuglevel": "2",
	}, data.ConfigPairs)
}

func TestParseByType_PackageList(t *testing.T) {
	data := ParseByType(FileTypePackageList, "httpd-2.4.57\n\nopenssl-3.0.7\n")
	assert.Equal(t, []string{"httpd-2.4.57", "openssl-3.0.7"}, data.Packages)
}

func TestProcessor_ProcessFiles(t *testing.T) {
	cfg := config.TextProcessingConfig{
		Chunking: config.ChunkingConfig{MaxChunkSize: 2000, ChunkOverlap: 200},
		Cleaning: allCleaning(),
	}
	logger := observability.NewPipelineLogger(observability.NewHandler(io.Discard, "json", "error"), "test")
	processor := NewProcessor(cfg, logger)

	files := map[string]string{
		"etc/redhat-release": "Red Hat Enterprise Linux release 9.3 (Plow)",
		"empty.log":          "",
	}

	processed := processor.ProcessFiles(context.Background(), files)

	require.Len(t, processed, 1)
	release := processed["etc/redhat-release"]
	assert.Equal(t, FileTypeReleaseInfo, release.FileType)
	assert.Equal(t, "9.3", release.Parsed.Version)
	assert.Len(t, release.Chunks, 1)
}
