// Package content gathers the body text under each section header.
package content

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/specindex/internal/doctree"
	"github.com/dgallion1/specindex/internal/section"
)

// Stats describes the last build.
type Stats struct {
	Sections            int     `json:"sections"`
	SectionsWithContent int     `json:"sections_with_content"`
	TotalContentLength  int     `json:"total_content_length"`
	AverageLength       float64 `json:"average_content_length"`
}

// Builder accumulates lines into sections. A section stays open across
// page boundaries until the next header or the end of the document.
// Not safe for concurrent use.
type Builder struct {
	DocTitle string

	current  string
	open     bool
	buf      []string
	sections []doctree.ContentSection
	stats    Stats
}

func NewBuilder(docTitle string) *Builder {
	return &Builder{DocTitle: docTitle}
}

// Build returns one section per header that collected any text.
// State from any earlier build is discarded.
func (b *Builder) Build(pages doctree.PageText) []doctree.ContentSection {
	b.reset()

	for _, page := range pages {
		if page.Text == "" {
			continue
		}
		for _, line := range strings.Split(page.Text, "\n") {
			b.consume(line)
		}
	}
	b.flush()

	b.stats.Sections = len(b.sections)
	if b.stats.SectionsWithContent > 0 {
		b.stats.AverageLength = float64(b.stats.TotalContentLength) / float64(b.stats.SectionsWithContent)
	}
	return b.sections
}

func (b *Builder) consume(line string) {
	if section.IsHeader(line) {
		b.flush()
		id, title := section.SplitHeader(line)
		b.current = id
		b.open = true
		if title != "" {
			b.buf = append(b.buf, title)
		}
		return
	}
	if t := strings.TrimSpace(line); t != "" {
		b.buf = append(b.buf, t)
	}
}

// flush emits the open section if it gathered text, then clears the buffer.
// Text seen before the first header has no section and is dropped.
func (b *Builder) flush() {
	defer func() { b.buf = b.buf[:0] }()
	if !b.open || len(b.buf) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(b.buf, " "))
	if text == "" {
		return
	}
	b.sections = append(b.sections, doctree.ContentSection{
		DocTitle:  b.DocTitle,
		SectionID: b.current,
		Content:   text,
	})
	b.stats.SectionsWithContent++
	b.stats.TotalContentLength += utf8.RuneCountInString(text)
}

func (b *Builder) reset() {
	b.current = ""
	b.open = false
	b.buf = nil
	b.sections = nil
	b.stats = Stats{}
}

// Stats returns the statistics of the last build.
func (b *Builder) Stats() Stats {
	return b.stats
}
