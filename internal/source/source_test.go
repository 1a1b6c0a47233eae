package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestForFile(t *testing.T) {
	cases := map[string]string{
		"a.txt":      "*source.Text",
		"a.MD":       "*source.Markdown",
		"a.markdown": "*source.Markdown",
		"a.csv":      "*source.CSV",
		"a.htm":      "*source.HTML",
		"a.pdf":      "*source.PDF",
		"a.docx":     "*source.DOCX",
	}
	for name, want := range cases {
		s, err := ForFile(name, Options{})
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if got := fmt.Sprintf("%T", s); got != want {
			t.Errorf("%s: expected %s, got %s", name, want, got)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	_, err := ForFile("a.xls", Options{})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if IsSupportedExtension("a.xls") {
		t.Error("expected .xls to be unsupported")
	}
	if !IsSupportedExtension("Spec.PDF") {
		t.Error("expected .PDF to be supported")
	}
}

func TestForFile_PDFOptions(t *testing.T) {
	s, err := ForFile("a.pdf", Options{FallbackPdftotext: true, ProgressEvery: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := s.(*PDF)
	if !p.FallbackPdftotext || p.ProgressEvery != 50 {
		t.Errorf("options not applied: %+v", p)
	}
}

func TestSplitPages(t *testing.T) {
	pages := splitPages("one\ftwo\f\fthree\f")
	if len(pages) != 4 {
		t.Fatalf("expected 4 pages, got %d", len(pages))
	}
	if pages[2].Text != "" || pages[3].Number != 4 {
		t.Errorf("unexpected pages: %+v", pages)
	}
}

func TestCSV_GroupsRowsByPage(t *testing.T) {
	input := "page,text\n2,\"1.1 Background\"\n1,1 Intro\n1,Some text\n2,More text\n"
	doc, err := (&CSV{}).Extract(context.Background(), strings.NewReader(input), "dump.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(doc.Pages))
	}
	if doc.Pages[0].Number != 1 || doc.Pages[0].Text != "1 Intro\nSome text" {
		t.Errorf("unexpected page 1: %+v", doc.Pages[0])
	}
	if doc.Pages[1].Text != "1.1 Background\nMore text" {
		t.Errorf("unexpected page 2: %+v", doc.Pages[1])
	}
}

func TestCSV_RejectsBadRows(t *testing.T) {
	for _, input := range []string{"1\n", "1,a\nx,b\n", "0,a\n"} {
		if _, err := (&CSV{}).Extract(context.Background(), strings.NewReader(input), "bad.csv"); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestHTML_BlocksAndPageBreaks(t *testing.T) {
	input := `<html><head><title>USB PD</title><style>p{}</style></head><body>
<div class="page"><h2>1 Intro</h2><p>Some text</p></div>
<div class="page"><h3>1.1 Background</h3><p>More<br>text</p><script>x()</script></div>
<hr><p>tail</p>
</body></html>`
	doc, err := (&HTML{}).Extract(context.Background(), strings.NewReader(input), "spec.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "USB PD" {
		t.Errorf("expected title %q, got %q", "USB PD", doc.Title)
	}
	want := []string{"1 Intro\nSome text", "1.1 Background\nMore\ntext", "tail"}
	if len(doc.Pages) != len(want) {
		t.Fatalf("expected %d pages, got %d: %+v", len(want), len(doc.Pages), doc.Pages)
	}
	for i, w := range want {
		if doc.Pages[i].Text != w {
			t.Errorf("page %d: expected %q, got %q", i+1, w, doc.Pages[i].Text)
		}
	}
}
