package legacy

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor returns the body text of an HTML transcript. Headings,
// block quotes, scripts and styles are skipped.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.Data) {
			buf.WriteByte('\n')
		}
	}
	walk(doc)

	return buf.String(), nil
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "br", "tr", "section", "article":
		return true
	}
	return false
}
