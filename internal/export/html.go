package export

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// HTML converts rendered transcript markdown into a standalone HTML page.
// Raw HTML is passed through so the explicit section anchors survive.
func HTML(markdown, title string, w io.Writer) error {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Linkify),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}

	if _, err := fmt.Fprintf(w, htmlPage, html.EscapeString(title), body.String()); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}
