package source

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/dgallion1/specindex/internal/doctree"
)

// Text handles plain text dumps. A form feed starts a new page, which is how
// pdftotext separates pages.
type Text struct{}

func (s *Text) Extract(ctx context.Context, r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pb pageBuilder
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parts := strings.Split(scanner.Text(), "\f")
		for i, part := range parts {
			if i > 0 {
				pb.breakPage()
			}
			if i == len(parts)-1 && part == "" && len(parts) > 1 {
				continue
			}
			pb.line(part)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &doctree.Document{
		Title: titleFromFilename(filename),
		Pages: pb.done(),
	}, nil
}
