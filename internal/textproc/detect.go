package textproc

import (
	"regexp"
	"strings"
)

// FileType classifies a system file by what it contains.
type FileType string

const (
	FileTypeLog         FileType = "log_file"
	FileTypeConfig      FileType = "config_file"
	FileTypeService     FileType = "systemd_service"
	FileTypePackageList FileType = "package_list"
	FileTypeReleaseInfo FileType = "release_info"
	FileTypeRepoConfig  FileType = "repository_config"
	FileTypeUnknown     FileType = "unknown"
)

// DetectFileType classifies a file from its relative path.
func DetectFileType(path string) FileType {
	lower := strings.ToLower(path)

	switch {
	case strings.HasSuffix(lower, ".log"):
		return FileTypeLog
	case strings.HasSuffix(lower, ".conf"):
		return FileTypeConfig
	case strings.HasSuffix(lower, ".service"):
		return FileTypeService
	case strings.Contains(lower, "packages.txt"):
		return FileTypePackageList
	case strings.Contains(lower, "redhat-release"):
		return FileTypeReleaseInfo
	case strings.HasSuffix(lower, ".repo"):
		return FileTypeRepoConfig
	default:
		return FileTypeUnknown
	}
}

// ParsedData holds the type-specific fields extracted from one file.
// Only the fields relevant to the detected type are populated.
type ParsedData struct {
	// Release info.
	FullRelease string `json:"full_release,omitempty"`
	Version     string `json:"version,omitempty"`
	Codename    string `json:"codename,omitempty"`

	// Config files.
	ConfigPairs map[string]string `json:"config_pairs,omitempty"`

	// Package lists.
	Packages []string `json:"packages,omitempty"`

	// Log files.
	TotalLines int `json:"total_lines,omitempty"`
}

var (
	releaseVersionPattern  = regexp.MustCompile(`release (\d+\.\d+)`)
	releaseCodenamePattern = regexp.MustCompile(`\(([^)]+)\)`)
)

// ParseByType extracts structured fields from cleaned content according to
// the detected file type. Unknown types parse to an empty ParsedData.
func ParseByType(fileType FileType, content string) ParsedData {
	switch fileType {
	case FileTypeReleaseInfo:
		return parseReleaseInfo(content)
	case FileTypeConfig, FileTypeRepoConfig, FileTypeService:
		return parseConfigFile(content)
	case FileTypePackageList:
		return parsePackageList(content)
	case FileTypeLog:
		return ParsedData{TotalLines: len(strings.Split(content, "\n"))}
	default:
		return ParsedData{}
	}
}

func parseReleaseInfo(content string) ParsedData {
	data := ParsedData{
		FullRelease: strings.TrimSpace(content),
		Version:     "unknown",
		Codename:    "unknown",
	}
	if m := releaseVersionPattern.FindStringSubmatch(content); m != nil {
		data.Version = m[1]
	}
	if m := releaseCodenamePattern.FindStringSubmatch(content); m != nil {
		data.Codename = m[1]
	}
	return data
}

func parseConfigFile(content string) ParsedData {
	pairs := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		pairs[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return ParsedData{ConfigPairs: pairs}
}

func parsePackageList(content string) ParsedData {
	var packages []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			packages = append(packages, line)
		}
	}
	return ParsedData{Packages: packages}
}
