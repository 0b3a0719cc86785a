// Package textproc cleans, classifies, and chunks raw system file text
// before it is handed to the extraction service.
package textproc

import (
	"regexp"
	"strings"

	"github.com/rrbanda/dataloader/internal/config"
)

var (
	ansiPattern      = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	horizontalSpaces = regexp.MustCompile(`[ \t]+`)
	blankLinePattern = regexp.MustCompile(`\n{3,}`)
	debugLinePattern = regexp.MustCompile(`(?m)^.*\[DEBUG\].*$\n?`)
)

// Clean normalizes raw file text. ANSI escape sequences are stripped, runs
// of horizontal whitespace collapse to a single space, and runs of blank
// lines collapse to one. Line boundaries survive so that log parsing
// downstream still sees one record per line. Clean is idempotent.
func Clean(text string, cfg config.CleaningConfig) string {
	cleaned := text

	if cfg.RemoveANSICodes {
		cleaned = ansiPattern.ReplaceAllString(cleaned, "")
	}

	if cfg.RemoveDebugLines {
		cleaned = debugLinePattern.ReplaceAllString(cleaned, "")
	}

	if cfg.NormalizeWhitespace {
		cleaned = strings.ReplaceAll(cleaned, "\r\n", "\n")
		cleaned = horizontalSpaces.ReplaceAllString(cleaned, " ")

		lines := strings.Split(cleaned, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimSpace(line)
		}
		cleaned = strings.Join(lines, "\n")
		cleaned = blankLinePattern.ReplaceAllString(cleaned, "\n\n")
	}

	return strings.TrimSpace(cleaned)
}
