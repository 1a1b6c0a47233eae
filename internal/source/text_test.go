package source

import (
	"context"
	"strings"
	"testing"
)

func TestText_SplitsPagesOnFormFeed(t *testing.T) {
	input := "1 Intro\nSome text\f1.1 Background\nMore text\f"
	doc, err := (&Text{}).Extract(context.Background(), strings.NewReader(input), "spec.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "spec" {
		t.Errorf("expected title %q, got %q", "spec", doc.Title)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(doc.Pages))
	}
	if doc.Pages[0].Number != 1 || doc.Pages[0].Text != "1 Intro\nSome text" {
		t.Errorf("unexpected page 1: %+v", doc.Pages[0])
	}
	if doc.Pages[1].Number != 2 || doc.Pages[1].Text != "1.1 Background\nMore text" {
		t.Errorf("unexpected page 2: %+v", doc.Pages[1])
	}
}

func TestText_KeepsBlankPages(t *testing.T) {
	doc, err := (&Text{}).Extract(context.Background(), strings.NewReader("a\f\fb"), "x.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(doc.Pages))
	}
	if doc.Pages[1].Text != "" {
		t.Errorf("expected blank page 2, got %q", doc.Pages[1].Text)
	}
	if err := doc.Pages.Check(); err != nil {
		t.Errorf("unexpected page order error: %v", err)
	}
}

func TestText_SinglePage(t *testing.T) {
	doc, err := (&Text{}).Extract(context.Background(), strings.NewReader("Hello world"), "single.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 1 || doc.Pages[0].Text != "Hello world" {
		t.Errorf("unexpected pages: %+v", doc.Pages)
	}
}

func TestText_EmptyInput(t *testing.T) {
	doc, err := (&Text{}).Extract(context.Background(), strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 1 || doc.Pages[0].Text != "" {
		t.Errorf("expected one blank page, got %+v", doc.Pages)
	}
}

func TestText_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (&Text{}).Extract(ctx, strings.NewReader("a"), "x.txt"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
