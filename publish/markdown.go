package publish

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/sourcegraph/syntaxhighlight"
)

// Render converts a markdown body into an HTML fragment, highlighting fenced code blocks that name a language.
func Render(md []byte) ([]byte, error) {
	md = markdown.NormalizeNewlines(md)
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	out := markdown.ToHTML(md, p, renderer)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("parse rendered markdown: %w", err)
	}
	doc.Find(`code[class*="language-"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var highlighted []byte
		if highlighted, err = syntaxhighlight.AsHTML([]byte(s.Text())); err != nil {
			return false
		}
		s.SetHtml(string(highlighted))
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("highlight code: %w", err)
	}
	body, err := doc.Find("body").Html()
	if err != nil {
		return nil, fmt.Errorf("serialize rendered markdown: %w", err)
	}
	return []byte(body), nil
}
