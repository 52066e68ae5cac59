package markdown

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
)

// headingLine matches a level-2 or level-3 heading at the start of a line.
var headingLine = regexp.MustCompile(`^(#{2,3})\s+(.+)$`)

// ParseSections parses one source document into its ordered sections.
//
// relPath is the document's path relative to the docs root and is used only
// to derive chapter/section identity and the base page path; raw is the full
// file content including any front matter.
//
// Every ##/### heading opens a new section keyed by that heading (the
// heading line itself is kept in the section content for local context).
// Lines before the first heading form a headless leading section; a document
// with no headings yields exactly one headless section covering the whole
// body. Sections whose cleaned content is entirely whitespace are dropped.
func ParseSections(relPath string, raw []byte) ([]domain.Section, error) {
	meta, body, err := splitFrontMatter(string(raw))
	if err != nil {
		return nil, err
	}

	rel := filepath.ToSlash(relPath)
	chapter := chapterID(rel)
	sectionID := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	basePath := basePagePath(meta, rel)

	chapterTitle := metaString(meta, "chapter_title")
	if chapterTitle == "" {
		chapterTitle = humanize(chapter)
	}
	sectionTitle := metaString(meta, "title")
	if sectionTitle == "" {
		sectionTitle = metaString(meta, "sidebar_label")
	}
	if sectionTitle == "" {
		sectionTitle = humanize(sectionID)
	}

	var sections []domain.Section
	emit := func(heading string, lines []string) {
		cleaned := Clean(strings.Join(lines, "\n"))
		if strings.TrimSpace(cleaned) == "" {
			return
		}
		anchor := HeadingToAnchor(heading)
		pagePath := basePath
		if anchor != "" {
			pagePath = basePath + "#" + anchor
		}
		sections = append(sections, domain.Section{
			Chapter:      chapter,
			ChapterTitle: chapterTitle,
			Section:      sectionID,
			SectionTitle: sectionTitle,
			Heading:      heading,
			Anchor:       anchor,
			BasePagePath: basePath,
			PagePath:     pagePath,
			Metadata:     meta,
			Content:      cleaned,
		})
	}

	currentHeading := ""
	var currentLines []string
	for _, line := range strings.Split(body, "\n") {
		if m := headingLine.FindStringSubmatch(line); m != nil {
			emit(currentHeading, currentLines)
			currentHeading = strings.TrimSpace(m[2])
			currentLines = []string{line}
			continue
		}
		currentLines = append(currentLines, line)
	}
	emit(currentHeading, currentLines)

	return sections, nil
}

// chapterID extracts the chapter identifier: the path segment immediately
// under the docs root. Documents sitting directly in the docs root have no
// chapter directory.
func chapterID(rel string) string {
	parts := strings.Split(rel, "/")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[0]
}

// basePagePath resolves the document-level URL. An explicit slug front
// matter field wins, normalised to start with /docs; otherwise the path
// relative to the docs root with the markdown extension stripped.
func basePagePath(meta map[string]any, rel string) string {
	if slug := metaString(meta, "slug"); slug != "" {
		if strings.HasPrefix(slug, "/") {
			return "/docs" + slug
		}
		return "/docs/" + slug
	}
	trimmed := strings.TrimSuffix(rel, ".mdx")
	trimmed = strings.TrimSuffix(trimmed, ".md")
	return "/docs/" + trimmed
}

// humanize turns an identifier like "chapter-01" into "Chapter 01".
func humanize(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "-", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
