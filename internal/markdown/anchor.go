package markdown

import (
	"regexp"
	"strings"
)

var (
	anchorWhitespace = regexp.MustCompile(`\s+`)
	anchorInvalid    = regexp.MustCompile(`[^a-z0-9-]`)
	anchorHyphenRun  = regexp.MustCompile(`-+`)
)

// HeadingToAnchor converts a heading to a Docusaurus-compatible URL anchor.
// It follows the same algorithm as GitHub: lowercase, whitespace runs become
// single hyphens, everything outside [a-z0-9-] is dropped, hyphen runs
// collapse and leading/trailing hyphens are stripped.
//
// The function is total: any string is accepted, and headings with no
// alphanumeric content yield the empty string, which callers must treat as
// "no anchor". Headings differing only in case or punctuation collide; that
// is accepted and not deduplicated.
func HeadingToAnchor(heading string) string {
	anchor := strings.ToLower(heading)
	anchor = anchorWhitespace.ReplaceAllString(anchor, "-")
	anchor = anchorInvalid.ReplaceAllString(anchor, "")
	anchor = anchorHyphenRun.ReplaceAllString(anchor, "-")
	return strings.Trim(anchor, "-")
}
