// Package textparser is the plain-text fallback collaborator: it turns
// non-structured model output into a node tree, using goldmark to split
// markdown prose from fenced code blocks.
package textparser

import (
	"context"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
	"github.com/zgsm-ai/response-parser/internal/types"
)

// Text segment formats
const (
	FormatMarkdown = "markdown"
	FormatCode     = "code"
)

// Parser builds trees from free text
type Parser struct {
	md goldmark.Markdown
}

// New creates a text parser
func New() *Parser {
	return &Parser{md: goldmark.New()}
}

// Parse builds a tree from free text. Prose becomes markdown-formatted text
// nodes; fenced code blocks become separate code-formatted nodes so callers
// can render them without re-scanning.
func (p *Parser) Parse(input string) *types.ResponseNode {
	tree := &types.ResponseNode{
		Provider:  "text",
		Timestamp: time.Now(),
		Metadata:  types.ResponseMeta{IsComplete: true},
	}

	if strings.TrimSpace(input) == "" {
		return tree
	}

	src := []byte(input)
	doc := p.md.Parser().Parse(gtext.NewReader(src))

	var prose []string
	flushProse := func() {
		if len(prose) == 0 {
			return
		}
		tree.Children = append(tree.Children, &types.TextNode{
			Content: strings.Join(prose, "\n\n"),
			Format:  FormatMarkdown,
		})
		prose = nil
	}

	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			flushProse()
			tree.Children = append(tree.Children, &types.TextNode{
				Content: blockLines(child, src),
				Format:  FormatCode,
			})
		default:
			if text := blockText(child, src); text != "" {
				prose = append(prose, text)
			}
		}
	}
	flushProse()

	if len(tree.Children) == 0 {
		// Whitespace-heavy input with no extractable blocks; keep it verbatim
		tree.Children = append(tree.Children, &types.TextNode{
			Content: input,
			Format:  FormatMarkdown,
		})
	}

	return tree
}

// ParseStream drains the fragment stream and parses the accumulated text.
// On cancellation, whatever arrived so far is still parsed.
func (p *Parser) ParseStream(ctx context.Context, chunks <-chan string) *types.ResponseNode {
	var buf strings.Builder
	for {
		select {
		case <-ctx.Done():
			return p.Parse(buf.String())
		case chunk, ok := <-chunks:
			if !ok {
				return p.Parse(buf.String())
			}
			buf.WriteString(chunk)
		}
	}
}

// blockLines concatenates the source lines spanned by a leaf block
func blockLines(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimRight(b.String(), "\n")
}

// blockText collects the textual leaves under a block, e.g. a paragraph with
// inline emphasis or a list with nested items. List items carry no line-break
// leaves of their own, so crossing an item boundary inserts one.
func blockText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.ListItem:
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
