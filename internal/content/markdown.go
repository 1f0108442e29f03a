package content

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/xmtp/xmtp-dot-org/internal/model"
)

// Markdown converts document bodies to sanitized HTML. Code blocks are
// highlighted with CSS classes so the light and dark palettes can be swapped
// by the stylesheet.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// Document is a parsed markdown body. Title, Summary and Headings are known
// after Parse; the HTML is produced by Render.
type Document struct {
	Title    string // text of the first h1, if any
	Summary  string // text of the first paragraph
	Headings []model.Heading

	src  []byte
	root ast.Node
}

// LinkResolver rewrites the destination of a link or image.
type LinkResolver func(dest string) string

func NewMarkdown() *Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class", "id").Globally()
	policy.AllowAttrs("target").OnElements("a")

	return &Markdown{md: md, policy: policy}
}

// Parse reads src and extracts the title, summary and table of contents.
func (m *Markdown) Parse(src []byte) (*Document, error) {
	doc := &Document{src: src, root: m.md.Parser().Parse(text.NewReader(src))}
	err := ast.Walk(doc.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			txt := nodeText(node, src)
			if node.Level == 1 && doc.Title == "" {
				doc.Title = txt
			}
			if node.Level == 2 || node.Level == 3 {
				h := model.Heading{Text: txt, Level: node.Level}
				if id, ok := node.AttributeString("id"); ok {
					if b, ok := id.([]byte); ok {
						h.ID = string(b)
					}
				}
				doc.Headings = append(doc.Headings, h)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if doc.Summary == "" {
				doc.Summary = nodeText(node, src)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk markdown: %w", err)
	}
	return doc, nil
}

// Render converts doc to sanitized HTML. When resolve is set, every link and
// image destination is passed through it first.
func (m *Markdown) Render(doc *Document, resolve LinkResolver) (template.HTML, error) {
	if resolve != nil {
		err := ast.Walk(doc.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			switch node := n.(type) {
			case *ast.Link:
				node.Destination = []byte(resolve(string(node.Destination)))
			case *ast.Image:
				node.Destination = []byte(resolve(string(node.Destination)))
			}
			return ast.WalkContinue, nil
		})
		if err != nil {
			return "", fmt.Errorf("resolve links: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := m.md.Renderer().Render(&buf, doc.src, doc.root); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(m.policy.SanitizeBytes(buf.Bytes())), nil
}

func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
