// Package toc builds table-of-contents entries from per-page text.
package toc

import (
	"strings"

	"github.com/dgallion1/specindex/internal/doctree"
	"github.com/dgallion1/specindex/internal/section"
)

// Stats describes the last build.
type Stats struct {
	Entries         int         `json:"entries"`
	PatternsMatched int         `json:"patterns_matched"`
	MaxDepth        int         `json:"max_depth"`
	HierarchyLevels map[int]int `json:"hierarchy_levels"`
}

// Builder turns header lines into TOC entries. Not safe for concurrent use.
type Builder struct {
	DocTitle string

	stats Stats
}

func NewBuilder(docTitle string) *Builder {
	return &Builder{DocTitle: docTitle}
}

// Build emits one entry per header line, in page then line order.
// State from any earlier build is discarded.
func (b *Builder) Build(pages doctree.PageText) []doctree.TOCEntry {
	b.stats = Stats{HierarchyLevels: make(map[int]int)}

	var entries []doctree.TOCEntry
	for _, page := range pages {
		if page.Text == "" {
			continue
		}
		for _, line := range strings.Split(page.Text, "\n") {
			if !section.IsHeader(line) {
				continue
			}
			entries = append(entries, b.entry(line, page.Number))
		}
	}
	b.stats.Entries = len(entries)
	return entries
}

func (b *Builder) entry(line string, page int) doctree.TOCEntry {
	id, title := section.SplitHeader(line)
	level := section.Level(id)

	e := doctree.TOCEntry{
		DocTitle:  b.DocTitle,
		SectionID: id,
		Title:     title,
		Page:      page,
		Level:     level,
		FullPath:  id + " " + title,
	}
	if parent, ok := section.ParentID(id); ok {
		e.ParentID = &parent
	}

	b.stats.PatternsMatched++
	b.stats.HierarchyLevels[level]++
	if level > b.stats.MaxDepth {
		b.stats.MaxDepth = level
	}
	return e
}

// Stats returns a copy of the statistics of the last build.
func (b *Builder) Stats() Stats {
	levels := make(map[int]int, len(b.stats.HierarchyLevels))
	for k, v := range b.stats.HierarchyLevels {
		levels[k] = v
	}
	s := b.stats
	s.HierarchyLevels = levels
	return s
}
