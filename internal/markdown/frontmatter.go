package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// splitFrontMatter separates a leading YAML front matter block from the
// document body. Documents without a front matter block yield an empty map
// and the input unchanged. Malformed YAML is a parse failure for the whole
// document.
func splitFrontMatter(raw string) (map[string]any, string, error) {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return map[string]any{}, normalized, nil
	}

	rest := normalized[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return map[string]any{}, normalized, nil
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, "", fmt.Errorf("parse front matter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, body, nil
}

// metaString returns a front matter value as a string, or "" when the key is
// absent or not a string.
func metaString(meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
