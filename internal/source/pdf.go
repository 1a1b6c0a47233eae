package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/specindex/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDF extracts text page by page with the Go library and falls back to
// pdftotext when the library cannot open the file.
type PDF struct {
	FallbackPdftotext bool
	ProgressEvery     int
	Log               *slog.Logger
}

func (s *PDF) Extract(ctx context.Context, r io.Reader, filename string) (*doctree.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "specindex-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := s.extractPages(ctx, tmpPath)
	if err != nil && s.FallbackPdftotext && ctx.Err() == nil {
		s.logger().Warn("pdf library failed, trying pdftotext", "file", filename, "error", err)
		pages, err = extractPdftotext(ctx, tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return &doctree.Document{
		Title: titleFromFilename(filename),
		Pages: pages,
	}, nil
}

// extractPages keeps every page, including ones that yield no text, so page
// numbers match the source file.
func (s *PDF) extractPages(ctx context.Context, path string) (doctree.PageText, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log := s.logger()
	numPages := reader.NumPage()
	pages := make(doctree.PageText, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := doctree.Page{Number: i}
		if p := reader.Page(i); !p.V.IsNull() {
			text, err := p.GetPlainText(nil)
			if err != nil {
				log.Debug("page text unavailable", "page", i, "error", err)
			} else {
				page.Text = text
			}
		}
		pages = append(pages, page)

		if s.ProgressEvery > 0 && i%s.ProgressEvery == 0 {
			log.Info("extracting pages", "done", i, "total", numPages)
		}
	}
	return pages, nil
}

func (s *PDF) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func extractPdftotext(ctx context.Context, path string) (doctree.PageText, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return splitPages(string(out)), nil
}

// splitPages splits pdftotext output on form feeds. pdftotext ends every page
// with one, so a trailing empty segment is not a page.
func splitPages(text string) doctree.PageText {
	parts := strings.Split(text, "\f")
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	return doctree.FromStrings(parts)
}
