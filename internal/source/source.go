// Package source extracts per-page text from uploaded documents.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/specindex/internal/doctree"
)

// ErrUnsupported is returned by ForFile for unknown extensions.
var ErrUnsupported = errors.New("unsupported file extension")

// Source converts raw document bytes into page text.
type Source interface {
	Extract(ctx context.Context, r io.Reader, filename string) (*doctree.Document, error)
}

// Options tunes the sources returned by ForFile.
type Options struct {
	FallbackPdftotext bool
	ProgressEvery     int // log every N pages; 0 disables
	Log               *slog.Logger
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the source for a filename.
func ForFile(filename string, opts Options) (Source, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &Text{}, nil
	case ".md", ".markdown":
		return &Markdown{}, nil
	case ".csv":
		return &CSV{}, nil
	case ".html", ".htm":
		return &HTML{}, nil
	case ".pdf":
		return &PDF{
			FallbackPdftotext: opts.FallbackPdftotext,
			ProgressEvery:     opts.ProgressEvery,
			Log:               opts.Log,
		}, nil
	case ".docx":
		return &DOCX{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func titleFromFilename(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}

// pageBuilder collects lines into numbered pages.
type pageBuilder struct {
	pages doctree.PageText
	cur   []string
}

func (b *pageBuilder) line(s string) {
	b.cur = append(b.cur, s)
}

func (b *pageBuilder) breakPage() {
	b.pages = append(b.pages, doctree.Page{
		Number: len(b.pages) + 1,
		Text:   strings.Join(b.cur, "\n"),
	})
	b.cur = nil
}

// done closes the last page unless it is an empty trailing page.
func (b *pageBuilder) done() doctree.PageText {
	if len(b.cur) > 0 || len(b.pages) == 0 {
		b.breakPage()
	}
	return b.pages
}
