package toc

import (
	"reflect"
	"testing"

	"github.com/dgallion1/specindex/internal/doctree"
)

func TestBuilder_IntroExample(t *testing.T) {
	b := NewBuilder("Doc")
	entries := b.Build(doctree.PageText{
		{Number: 1, Text: "1 Intro\nSome text\n1.1 Background\nMore text"},
	})

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.SectionID != "1" || first.Title != "Intro" || first.Level != 1 || first.Page != 1 {
		t.Errorf("unexpected first entry: %+v", first)
	}
	if first.ParentID != nil {
		t.Errorf("expected nil parent for level 1, got %q", *first.ParentID)
	}
	if first.FullPath != "1 Intro" {
		t.Errorf("expected %q, got %q", "1 Intro", first.FullPath)
	}
	if first.DocTitle != "Doc" {
		t.Errorf("expected doc title %q, got %q", "Doc", first.DocTitle)
	}

	second := entries[1]
	if second.SectionID != "1.1" || second.Title != "Background" || second.Level != 2 {
		t.Errorf("unexpected second entry: %+v", second)
	}
	if second.ParentID == nil || *second.ParentID != "1" {
		t.Errorf("expected parent %q, got %v", "1", second.ParentID)
	}
}

func TestBuilder_PageNumbersAndOrder(t *testing.T) {
	b := NewBuilder("Doc")
	entries := b.Build(doctree.PageText{
		{Number: 3, Text: "2 Overview\ntext"},
		{Number: 4, Text: ""},
		{Number: 7, Text: "body\n2.1 Scope\n 2.2. Terms \n"},
	})

	want := []struct {
		id   string
		page int
	}{{"2", 3}, {"2.1", 7}, {"2.2", 7}}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if entries[i].SectionID != w.id || entries[i].Page != w.page {
			t.Errorf("entry[%d]: expected %s@%d, got %s@%d", i, w.id, w.page, entries[i].SectionID, entries[i].Page)
		}
	}
}

func TestBuilder_KeepsDuplicatesAndPageNumbers(t *testing.T) {
	b := NewBuilder("Doc")
	entries := b.Build(doctree.PageText{
		{Number: 1, Text: "1 Intro\n12\n1 Intro"},
	})
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].SectionID != "12" || entries[1].Title != "" || entries[1].FullPath != "12 " {
		t.Errorf("unexpected bare number entry: %+v", entries[1])
	}
	if entries[2].SectionID != "1" {
		t.Errorf("expected duplicate id preserved, got %q", entries[2].SectionID)
	}
}

func TestBuilder_Stats(t *testing.T) {
	b := NewBuilder("Doc")
	b.Build(doctree.FromStrings([]string{"1 A\n1.1 B\n1.1.1 C", "2 D\n2.1 E"}))

	s := b.Stats()
	if s.Entries != 5 || s.PatternsMatched != 5 {
		t.Errorf("expected 5 entries, got %d/%d", s.Entries, s.PatternsMatched)
	}
	if s.MaxDepth != 3 {
		t.Errorf("expected max depth 3, got %d", s.MaxDepth)
	}
	want := map[int]int{1: 2, 2: 2, 3: 1}
	if !reflect.DeepEqual(s.HierarchyLevels, want) {
		t.Errorf("expected levels %v, got %v", want, s.HierarchyLevels)
	}
}

func TestBuilder_Idempotent(t *testing.T) {
	pages := doctree.FromStrings([]string{"1 A\nx\n1.1 B", "", "2 C"})
	b := NewBuilder("Doc")

	first := b.Build(pages)
	firstStats := b.Stats()
	second := b.Build(pages)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical entries across builds")
	}
	if !reflect.DeepEqual(firstStats, b.Stats()) {
		t.Errorf("expected identical stats, got %+v and %+v", firstStats, b.Stats())
	}
}

func TestBuilder_NoHeaders(t *testing.T) {
	b := NewBuilder("Doc")
	entries := b.Build(doctree.FromStrings([]string{"only prose", "more prose"}))
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
	if b.Stats().MaxDepth != 0 {
		t.Errorf("expected max depth 0, got %d", b.Stats().MaxDepth)
	}
}

func TestBuilder_LevelParentInvariant(t *testing.T) {
	b := NewBuilder("Doc")
	entries := b.Build(doctree.FromStrings([]string{"1 A\n1.2 B\n1.2.3 C\n4.5.6.7 D"}))
	for _, e := range entries {
		if e.Level == 1 && e.ParentID != nil {
			t.Errorf("%s: level 1 entry has parent %q", e.SectionID, *e.ParentID)
		}
		if e.Level > 1 && e.ParentID == nil {
			t.Errorf("%s: level %d entry has no parent", e.SectionID, e.Level)
		}
	}
}
