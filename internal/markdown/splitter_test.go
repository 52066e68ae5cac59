package markdown

import (
	"strings"
	"testing"
)

const chapterDoc = `---
title: "Physical AI Basics"
---

Intro paragraph before any heading.

## What Is Physical AI

Physical AI brings machine learning to robots in the real world.

### Embodiment

An embodied agent senses and acts through hardware.

## Summary

Key takeaways from the chapter.
`

func TestParseSections_SplitsOnHeadings(t *testing.T) {
	sections, err := ParseSections("chapter-01/intro.md", []byte(chapterDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}

	// Headless leading section first, then heading order preserved.
	if sections[0].Heading != "" {
		t.Errorf("expected headless leading section, got heading %q", sections[0].Heading)
	}
	wantHeadings := []string{"", "What Is Physical AI", "Embodiment", "Summary"}
	for i, want := range wantHeadings {
		if sections[i].Heading != want {
			t.Errorf("section %d: heading = %q, want %q", i, sections[i].Heading, want)
		}
	}
}

func TestParseSections_Identity(t *testing.T) {
	sections, err := ParseSections("chapter-01/intro.md", []byte(chapterDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, s := range sections {
		if s.Chapter != "chapter-01" {
			t.Errorf("section %d: chapter = %q, want chapter-01", i, s.Chapter)
		}
		if s.Section != "intro" {
			t.Errorf("section %d: section = %q, want intro", i, s.Section)
		}
		if s.SectionTitle != "Physical AI Basics" {
			t.Errorf("section %d: section title = %q", i, s.SectionTitle)
		}
		if s.ChapterTitle != "Chapter 01" {
			t.Errorf("section %d: chapter title = %q", i, s.ChapterTitle)
		}
		if s.BasePagePath != "/docs/chapter-01/intro" {
			t.Errorf("section %d: base page path = %q", i, s.BasePagePath)
		}
	}
}

func TestParseSections_Anchors(t *testing.T) {
	sections, err := ParseSections("chapter-01/intro.md", []byte(chapterDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Headless section carries the base path without fragment.
	if sections[0].Anchor != "" {
		t.Errorf("headless anchor = %q, want empty", sections[0].Anchor)
	}
	if sections[0].PagePath != "/docs/chapter-01/intro" {
		t.Errorf("headless page path = %q", sections[0].PagePath)
	}

	if sections[1].Anchor != "what-is-physical-ai" {
		t.Errorf("anchor = %q", sections[1].Anchor)
	}
	if sections[1].PagePath != "/docs/chapter-01/intro#what-is-physical-ai" {
		t.Errorf("page path = %q", sections[1].PagePath)
	}
}

func TestParseSections_HeadingKeptInContent(t *testing.T) {
	sections, err := ParseSections("chapter-01/intro.md", []byte(chapterDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sections[1].Content, "What Is Physical AI") {
		t.Errorf("heading text missing from section content: %q", sections[1].Content)
	}
}

func TestParseSections_NoHeadings(t *testing.T) {
	raw := []byte("Just one block of prose.\nNothing else.")
	sections, err := ParseSections("chapter-02/notes.md", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected 1 headless section, got %d", len(sections))
	}
	if sections[0].Heading != "" || sections[0].Anchor != "" {
		t.Errorf("expected headless section, got heading %q anchor %q", sections[0].Heading, sections[0].Anchor)
	}
}

func TestParseSections_DropsWhitespaceOnlySections(t *testing.T) {
	raw := []byte("## Empty\n\n<Tabs>\n<TabItem>only markup</TabItem>\n</Tabs>\n\n## Real\n\ncontent")
	sections, err := ParseSections("chapter-01/page.md", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Heading != "Real" {
		t.Errorf("heading = %q, want Real", sections[0].Heading)
	}
}

func TestParseSections_SlugOverridesPath(t *testing.T) {
	tests := []struct {
		name string
		slug string
		want string
	}{
		{"absolute slug", "slug: /intro", "/docs/intro"},
		{"relative slug", "slug: getting-started", "/docs/getting-started"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []byte("---\n" + tt.slug + "\n---\n\n## Heading\n\ntext")
			sections, err := ParseSections("chapter-01/page.md", raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sections[0].BasePagePath != tt.want {
				t.Errorf("base page path = %q, want %q", sections[0].BasePagePath, tt.want)
			}
		})
	}
}

func TestParseSections_TitleFallbacks(t *testing.T) {
	t.Run("sidebar label when no title", func(t *testing.T) {
		raw := []byte("---\nsidebar_label: Quick Start\n---\n\ncontent")
		sections, err := ParseSections("chapter-01/start.md", raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sections[0].SectionTitle != "Quick Start" {
			t.Errorf("section title = %q", sections[0].SectionTitle)
		}
	})

	t.Run("humanized file name when no front matter", func(t *testing.T) {
		sections, err := ParseSections("chapter-03/sensor-fusion.md", []byte("content"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sections[0].SectionTitle != "Sensor Fusion" {
			t.Errorf("section title = %q", sections[0].SectionTitle)
		}
	})
}

func TestParseSections_NoChapterDirectory(t *testing.T) {
	sections, err := ParseSections("index.md", []byte("welcome"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sections[0].Chapter != "unknown" {
		t.Errorf("chapter = %q, want unknown", sections[0].Chapter)
	}
}

func TestParseSections_MdxExtension(t *testing.T) {
	sections, err := ParseSections("chapter-01/widgets.mdx", []byte("content"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sections[0].BasePagePath != "/docs/chapter-01/widgets" {
		t.Errorf("base page path = %q", sections[0].BasePagePath)
	}
}

func TestParseSections_MalformedFrontMatter(t *testing.T) {
	raw := []byte("---\ntitle: [unclosed\n---\n\ncontent")
	if _, err := ParseSections("chapter-01/bad.md", raw); err == nil {
		t.Fatal("expected parse error for malformed front matter")
	}
}

func TestParseSections_LowerLevelHeadingsDoNotSplit(t *testing.T) {
	raw := []byte("## Top\n\ntext\n\n#### Deep heading\n\nmore text")
	sections, err := ParseSections("chapter-01/page.md", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 1 {
		t.Fatalf("expected h4 to stay inside its section, got %d sections", len(sections))
	}
	if !strings.Contains(sections[0].Content, "Deep heading") {
		t.Errorf("h4 text missing from content: %q", sections[0].Content)
	}
}
