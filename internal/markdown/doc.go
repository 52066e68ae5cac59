// Package markdown parses Docusaurus-style markdown source documents into
// anchored, cleaned sections ready for chunking.
//
// Parsing is a pure transform: a document's bytes and its path relative to
// the docs root fully determine the sections produced. The three stages are
// anchor derivation (HeadingToAnchor), markup stripping (Clean) and
// heading-based splitting (ParseSections).
package markdown
