package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dgallion1/specindex/internal/doctree"
)

// CSV reads pre-extracted page text stored as "page,text" rows. A header row
// is skipped when its first cell is not a number. Rows for the same page are
// joined with newlines.
type CSV struct{}

func (s *CSV) Extract(ctx context.Context, r io.Reader, filename string) (*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	byPage := make(map[int][]string)
	for i, row := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("csv row %d: expected page and text columns", i+1)
		}
		n, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("csv row %d: invalid page number %q", i+1, row[0])
		}
		if n <= 0 {
			return nil, fmt.Errorf("csv row %d: %w", i+1, doctree.ErrPageOrder)
		}
		byPage[n] = append(byPage[n], row[1])
	}

	numbers := make([]int, 0, len(byPage))
	for n := range byPage {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	pages := make(doctree.PageText, 0, len(numbers))
	for _, n := range numbers {
		pages = append(pages, doctree.Page{Number: n, Text: strings.Join(byPage[n], "\n")})
	}

	return &doctree.Document{
		Title: titleFromFilename(filename),
		Pages: pages,
	}, nil
}
