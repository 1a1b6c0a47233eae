package doctree

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrPageOrder is returned when page numbers are not positive and strictly increasing.
var ErrPageOrder = errors.New("page numbers must be positive and strictly increasing")

// Page is the extracted text of one document page.
type Page struct {
	Number int    // 1-based page number
	Text   string // Raw extracted text, may be empty
}

// PageText is the ordered per-page text of a document.
type PageText []Page

// Document is the extracted text of one source file.
type Document struct {
	Title string   // From metadata or filename
	Pages PageText // One entry per source page, blank pages included
}

// TOCEntry is one line of the table of contents.
type TOCEntry struct {
	DocTitle  string  `json:"doc_title"`
	SectionID string  `json:"section_id" validate:"required"`
	Title     string  `json:"title"`
	Page      int     `json:"page" validate:"min=1"`
	Level     int     `json:"level" validate:"min=1"`
	ParentID  *string `json:"parent_id"` // nil at level 1
	FullPath  string  `json:"full_path" validate:"required"`
}

// ContentSection is the body text gathered under one section header.
type ContentSection struct {
	DocTitle  string `json:"doc_title" validate:"required"`
	SectionID string `json:"section_id" validate:"required"`
	Content   string `json:"content"`
}

// PageCoverage summarizes how many pages produced any text.
type PageCoverage struct {
	TotalPages      int     `json:"total_pages"`
	PagesCovered    int     `json:"pages_covered"`
	PagesMissing    int     `json:"pages_missing"`
	CoveragePercent float64 `json:"coverage_percentage"`
}

// Check reports whether the page numbers satisfy the ordering contract.
func (pt PageText) Check() error {
	prev := 0
	for i, p := range pt {
		if p.Number <= 0 || p.Number <= prev {
			return fmt.Errorf("page index %d (number %d): %w", i, p.Number, ErrPageOrder)
		}
		prev = p.Number
	}
	return nil
}

// Coverage counts pages with non-blank text.
func (pt PageText) Coverage() PageCoverage {
	c := PageCoverage{TotalPages: len(pt)}
	for _, p := range pt {
		if strings.TrimSpace(p.Text) != "" {
			c.PagesCovered++
		}
	}
	c.PagesMissing = c.TotalPages - c.PagesCovered
	if c.TotalPages > 0 {
		pct := float64(c.PagesCovered) / float64(c.TotalPages) * 100
		c.CoveragePercent = math.Round(pct*100) / 100
	}
	return c
}

// FromStrings numbers pages 1..n in order.
func FromStrings(texts []string) PageText {
	pt := make(PageText, len(texts))
	for i, t := range texts {
		pt[i] = Page{Number: i + 1, Text: t}
	}
	return pt
}
