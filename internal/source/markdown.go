package source

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/dgallion1/specindex/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Markdown handles Markdown exports. Each top-level block contributes its text
// lines; a thematic break (---) starts a new page. Heading markers are dropped,
// so "## 1.2 Scope" becomes the line "1.2 Scope".
type Markdown struct{}

func (s *Markdown) Extract(ctx context.Context, r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var pb pageBuilder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := n.(*ast.ThematicBreak); ok {
			pb.breakPage()
			continue
		}
		t := extractText(n, src)
		if t == "" {
			continue
		}
		for _, line := range strings.Split(t, "\n") {
			pb.line(line)
		}
	}

	return &doctree.Document{
		Title: titleFromFilename(filename),
		Pages: pb.done(),
	}, nil
}

// extractText gets the text content of a goldmark AST node. Blocks with
// children are read through their inlines; childless blocks such as code
// blocks are read from their raw lines.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		if c.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(extractText(c, src))
	}
	return strings.TrimSpace(buf.String())
}
