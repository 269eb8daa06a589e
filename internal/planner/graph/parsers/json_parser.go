package parsers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 256 * 1024 // 256KB of model output
	maxItems      = 100        // maximum number of array elements to accept
)

// ObjectList parses a JSON array of objects out of raw model output into
// typed values. The content is tried as-is first; when the model wrapped the
// array in prose or a code fence, the outermost bracketed region is extracted
// and parsed strictly. Anything that still fails to parse is reported as a
// typed error, never as a best-effort substring.
func ObjectList[T any](content string) ([]T, error) {
	content = stripCodeFence(strings.TrimSpace(content))
	if content == "" {
		return nil, fmt.Errorf("empty model output")
	}
	if len(content) > maxContentLen {
		return nil, fmt.Errorf("model output too large: %d bytes", len(content))
	}

	items, err := decodeList[T](content)
	if err == nil {
		return items, nil
	}

	candidate, ok := bracketedRegion(content)
	if !ok {
		return nil, fmt.Errorf("no JSON array in model output: %w", err)
	}
	items, err = decodeList[T](candidate)
	if err != nil {
		return nil, fmt.Errorf("malformed JSON array in model output: %w", err)
	}
	return items, nil
}

func decodeList[T any](s string) ([]T, error) {
	var items []T
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, err
	}
	if len(items) > maxItems {
		return nil, fmt.Errorf("too many array elements: %d", len(items))
	}
	return items, nil
}

// bracketedRegion returns the region between the first '[' and the last ']'.
func bracketedRegion(s string) (string, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// stripCodeFence removes a surrounding markdown code fence, if present.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		// drop the language tag line ("json", "JSON", or empty)
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
