package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/specindex/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCX handles Word documents. Each paragraph is one line and an explicit page
// break starts a new page. Heading styles carry no meaning here; numbered
// headings are recognized from their text like any other source.
type DOCX struct{}

func (s *DOCX) Extract(ctx context.Context, r io.Reader, filename string) (*doctree.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "specindex-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var pb pageBuilder
	for _, item := range doc.Document.Body.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		docxParagraph(para, &pb)
	}

	return &doctree.Document{
		Title: titleFromFilename(filename),
		Pages: pb.done(),
	}, nil
}

// docxParagraph writes a paragraph's text, splitting pages at page breaks.
func docxParagraph(para *docx.Paragraph, pb *pageBuilder) {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch v := rc.(type) {
			case *docx.Text:
				buf.WriteString(v.Text)
			case *docx.BarterRabbet:
				if v.Type != "page" {
					continue
				}
				if t := strings.TrimSpace(buf.String()); t != "" {
					pb.line(t)
				}
				buf.Reset()
				pb.breakPage()
			}
		}
	}
	if t := strings.TrimSpace(buf.String()); t != "" {
		pb.line(t)
	}
}
