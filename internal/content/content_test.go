package content

import (
	"reflect"
	"testing"

	"github.com/dgallion1/specindex/internal/doctree"
)

func TestBuilder_IntroExample(t *testing.T) {
	b := NewBuilder("Doc")
	sections := b.Build(doctree.PageText{
		{Number: 1, Text: "1 Intro\nSome text\n1.1 Background\nMore text"},
	})

	want := []doctree.ContentSection{
		{DocTitle: "Doc", SectionID: "1", Content: "Intro Some text"},
		{DocTitle: "Doc", SectionID: "1.1", Content: "Background More text"},
	}
	if !reflect.DeepEqual(sections, want) {
		t.Errorf("expected %+v, got %+v", want, sections)
	}
}

func TestBuilder_FinalSectionFlushed(t *testing.T) {
	b := NewBuilder("Doc")
	sections := b.Build(doctree.FromStrings([]string{"1 First\nbody", "2 Last\ntail line"}))
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[1].SectionID != "2" || sections[1].Content != "Last tail line" {
		t.Errorf("unexpected final section: %+v", sections[1])
	}
}

func TestBuilder_SectionSpansPages(t *testing.T) {
	b := NewBuilder("Doc")
	sections := b.Build(doctree.PageText{
		{Number: 1, Text: "3 Power\nfirst part"},
		{Number: 2, Text: ""},
		{Number: 3, Text: "   \nsecond part"},
	})
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Content != "Power first part second part" {
		t.Errorf("expected joined content, got %q", sections[0].Content)
	}
}

func TestBuilder_SkipsEmptySections(t *testing.T) {
	b := NewBuilder("Doc")
	sections := b.Build(doctree.FromStrings([]string{"1\n2 Titled\n3\n\n  \n4"}))
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d: %+v", len(sections), sections)
	}
	if sections[0].SectionID != "2" || sections[0].Content != "Titled" {
		t.Errorf("unexpected section: %+v", sections[0])
	}
}

func TestBuilder_DropsTextBeforeFirstHeader(t *testing.T) {
	b := NewBuilder("Doc")
	sections := b.Build(doctree.FromStrings([]string{"Cover page\nCopyright\n1 Scope\nbody"}))
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Content != "Scope body" {
		t.Errorf("expected %q, got %q", "Scope body", sections[0].Content)
	}
}

func TestBuilder_Stats(t *testing.T) {
	b := NewBuilder("Doc")
	b.Build(doctree.FromStrings([]string{"1 abcd\n2 ab\n3"}))
	s := b.Stats()
	if s.Sections != 2 || s.SectionsWithContent != 2 {
		t.Errorf("expected 2 sections, got %+v", s)
	}
	if s.TotalContentLength != 6 {
		t.Errorf("expected total length 6, got %d", s.TotalContentLength)
	}
	if s.AverageLength != 3 {
		t.Errorf("expected average 3, got %v", s.AverageLength)
	}
}

func TestBuilder_Idempotent(t *testing.T) {
	pages := doctree.FromStrings([]string{"1 A\nx\n1.1 B\ny", "", "2 C"})
	b := NewBuilder("Doc")
	first := b.Build(pages)
	firstCopy := append([]doctree.ContentSection(nil), first...)
	second := b.Build(pages)
	if !reflect.DeepEqual(firstCopy, second) {
		t.Errorf("expected identical output, got %+v and %+v", firstCopy, second)
	}
}

func TestBuilder_EmptyDocument(t *testing.T) {
	b := NewBuilder("Doc")
	if got := b.Build(nil); len(got) != 0 {
		t.Errorf("expected no sections, got %d", len(got))
	}
	if b.Stats().AverageLength != 0 {
		t.Errorf("expected zero average, got %v", b.Stats().AverageLength)
	}
}

func TestBuilder_StatsCountCharacters(t *testing.T) {
	b := NewBuilder("Doc")
	b.Build(doctree.FromStrings([]string{"1 5 Ω ± 10%\n2 USB™"}))
	s := b.Stats()
	// "5 Ω ± 10%" is 9 characters and "USB™" is 4.
	if s.TotalContentLength != 13 {
		t.Errorf("expected total length 13, got %d", s.TotalContentLength)
	}
	if s.AverageLength != 6.5 {
		t.Errorf("expected average 6.5, got %v", s.AverageLength)
	}
}
