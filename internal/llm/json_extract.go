package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rrbanda/dataloader/internal/types"
)

// codeBlockPattern matches markdown code blocks with an optional language
// tag. Captures: (1) language, (2) content.
var codeBlockPattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// ExtractJSON pulls a JSON document out of a completion response that may
// be wrapped in markdown. Code blocks tagged json (or untagged) are tried
// first, then the first raw object or array in the text.
func ExtractJSON(response string) (string, error) {
	if jsonStr, found := extractFromCodeBlock(response); found {
		return jsonStr, nil
	}
	if jsonStr, found := extractRawJSON(response); found {
		return jsonStr, nil
	}
	return "", types.NewError(types.EXTRACT_PARSE_FAILED, "no valid JSON found in response")
}

// ExtractJSONAs extracts JSON and unmarshals it into T.
func ExtractJSONAs[T any](response string) (T, error) {
	var result T

	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return result, types.WrapError(types.EXTRACT_PARSE_FAILED, "failed to unmarshal extracted JSON", err)
	}
	return result, nil
}

func extractFromCodeBlock(response string) (string, bool) {
	for _, match := range codeBlockPattern.FindAllStringSubmatch(response, -1) {
		lang := strings.ToLower(match[1])
		content := strings.TrimSpace(match[2])

		if lang != "" && lang != "json" {
			continue
		}
		if (strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[")) && isValidJSON(content) {
			return content, true
		}
	}
	return "", false
}

func extractRawJSON(response string) (string, bool) {
	startObj := strings.Index(response, "{")
	startArr := strings.Index(response, "[")

	start := -1
	closeChar := byte('}')
	if startObj >= 0 && (startArr < 0 || startObj < startArr) {
		start = startObj
	} else if startArr >= 0 {
		start = startArr
		closeChar = ']'
	}
	if start < 0 {
		return "", false
	}

	jsonStr := findMatchingBracket(response[start:], closeChar)
	if jsonStr != "" && isValidJSON(jsonStr) {
		return jsonStr, true
	}
	return "", false
}

// findMatchingBracket returns the prefix of s up to the bracket matching
// s[0], honoring string literals and escapes.
func findMatchingBracket(s string, closeChar byte) string {
	if len(s) == 0 {
		return ""
	}

	openChar := s[0]
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

func isValidJSON(s string) bool {
	var js json.RawMessage
	return json.Unmarshal([]byte(s), &js) == nil
}
