package markdown

import (
	"regexp"
	"strings"
)

// The transforms below are order-sensitive: components and comments go
// first so their contents never leak into later stages, and whitespace
// collapsing runs last.
var (
	jsxBlock       = regexp.MustCompile(`(?s)<[A-Z][^>]*>.*?</[A-Z][^>]*>`)
	jsxSelfClosing = regexp.MustCompile(`<[A-Z][^/>]*\s*/>`)
	htmlComment    = regexp.MustCompile(`(?s)<!--.*?-->`)
	inlineCode     = regexp.MustCompile("`([^`]+)`")
	image          = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	link           = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingMarker  = regexp.MustCompile(`(?m)^#+\s+`)
	boldStars      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicStar     = regexp.MustCompile(`\*([^*]+)\*`)
	boldUnders     = regexp.MustCompile(`__([^_]+)__`)
	italicUnder    = regexp.MustCompile(`_([^_]+)_`)
	horizontalRule = regexp.MustCompile(`(?m)^---+$`)
	blankRun       = regexp.MustCompile(`\n{3,}`)
)

// Clean strips markup noise from raw markdown while preserving prose.
// Component-style blocks (tag name starting with an uppercase letter) and
// HTML comments are discarded entirely; inline code, links and emphasis are
// unwrapped to their inner text; images and horizontal rules are removed.
//
// The transform is pure and total. Malformed markup that is never closed is
// left as literal text.
func Clean(raw string) string {
	content := jsxBlock.ReplaceAllString(raw, "")
	content = jsxSelfClosing.ReplaceAllString(content, "")
	content = htmlComment.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = image.ReplaceAllString(content, "")
	content = link.ReplaceAllString(content, "$1")
	content = headingMarker.ReplaceAllString(content, "")
	content = boldStars.ReplaceAllString(content, "$1")
	content = italicStar.ReplaceAllString(content, "$1")
	content = boldUnders.ReplaceAllString(content, "$1")
	content = italicUnder.ReplaceAllString(content, "$1")
	content = horizontalRule.ReplaceAllString(content, "")
	content = blankRun.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
