// Package markdown renders article and note bodies to HTML with goldmark, as
// plain strings or as templ components.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var reImgur = regexp.MustCompile(`imgur\.com/(?:a/)?([a-zA-Z0-9]+)`)

// engine is safe for concurrent use. Raw HTML in the source is dropped since
// WithUnsafe is not set.
var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithASTTransformers(util.Prioritized(nodeRewriter{}, 100)),
	),
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return engine.Convert([]byte(md), w)
	})
}

// Render converts md to an HTML string.
func Render(md string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}

// RewriteImgurURL turns an imgur page link (imgur.com/<id> or
// imgur.com/a/<id>) into the direct image URL https://i.imgur.com/<id>.jpg.
// Direct i.imgur.com links and every other URL are returned unchanged.
func RewriteImgurURL(src string) string {
	if !strings.Contains(src, "imgur.com/") || strings.Contains(src, "i.imgur.com") {
		return src
	}
	m := reImgur.FindStringSubmatch(src)
	if m == nil {
		return src
	}
	return "https://i.imgur.com/" + m[1] + ".jpg"
}

// nodeRewriter adjusts images and external links after parsing.
type nodeRewriter struct{}

func (nodeRewriter) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Image:
			node.Destination = []byte(RewriteImgurURL(string(node.Destination)))
			node.SetAttributeString("loading", []byte("lazy"))
			node.SetAttributeString("class", []byte("md-image"))
		case *ast.Link:
			if isExternal(string(node.Destination)) {
				node.SetAttributeString("target", []byte("_blank"))
				node.SetAttributeString("rel", []byte("noopener noreferrer"))
			}
		}
		return ast.WalkContinue, nil
	})
}

func isExternal(dest string) bool {
	return strings.HasPrefix(dest, "http://") || strings.HasPrefix(dest, "https://")
}
