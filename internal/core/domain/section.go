package domain

// Section is a contiguous span of one source document associated with at
// most one heading. Sections are produced once per document parse and are
// immutable afterwards; re-ingestion builds a fresh set.
type Section struct {
	// Chapter is the chapter identifier, taken from the directory
	// immediately under the docs root (e.g. "chapter-01").
	Chapter string

	// ChapterTitle is the human-readable chapter title.
	ChapterTitle string

	// Section is the section identifier, derived from the filename stem.
	Section string

	// SectionTitle is the human-readable section title.
	SectionTitle string

	// Heading is the ##/### heading text this section is anchored to.
	// Empty for a headless document.
	Heading string

	// Anchor is the URL fragment derived from Heading.
	// Empty exactly when Heading is empty or has no alphanumeric content.
	Anchor string

	// BasePagePath is the document-level URL path (e.g. "/docs/chapter-01/intro").
	BasePagePath string

	// PagePath is BasePagePath plus "#anchor" when Anchor is present.
	PagePath string

	// Metadata holds the document's front matter, unrecognised keys included.
	Metadata map[string]any

	// Content is the cleaned plain-text content of the section.
	Content string
}
