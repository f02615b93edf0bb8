package archive

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// The segmenter only understands plain text, so everything the archive or a
// manual import hands us is flattened first. Headings and paragraphs become
// blank-line separated blocks, which keeps line-anchored chapter markers on
// their own lines for the marker tier.

var mdParser = goldmark.New()

// FlattenMarkdown reduces markdown content to plain text by walking the
// goldmark AST and collecting text nodes block by block.
func FlattenMarkdown(content []byte) string {
	doc := mdParser.Parser().Parse(gmtext.NewReader(content))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			blockBreak(&b)
		case *ast.Paragraph:
			blockBreak(&b)
		case *ast.ListItem:
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
		case *ast.Text:
			b.Write(node.Segment.Value(content))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteString("\n")
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeBlock:
			blockBreak(&b)
			writeLines(&b, node, content)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			blockBreak(&b)
			writeLines(&b, node, content)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

func blockBreak(b *strings.Builder) {
	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
}

func writeLines(b *strings.Builder, node ast.Node, content []byte) {
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(content))
	}
}

// FlattenHTML reduces an HTML document to plain text. Headings and
// paragraph-level elements become blank-line separated blocks; script,
// style, and page chrome are dropped.
func FlattenHTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var blocks []string
	appendBlock := func(t string) {
		t = strings.TrimSpace(t)
		if t != "" {
			blocks = append(blocks, t)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6", "p", "li", "td", "blockquote", "pre":
				appendBlock(nodeText(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	// A document with no block-level markup still has its raw text.
	if len(blocks) == 0 {
		appendBlock(nodeText(doc))
	}

	return strings.Join(blocks, "\n\n"), nil
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return b.String()
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
