package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/nguyentantai21042004/transcript-flow/internal/render"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

func sampleSections() []transcript.Section {
	return []transcript.Section{
		{
			Start: 0, Title: "Introduction", Marker: "🎙️",
			Paragraphs: []transcript.Paragraph{{Start: 0, End: 9.5, Text: "**Speaker 1:** um welcome back"}},
		},
		{
			Start: 305, Title: "What's next?", Summary: "Plans.",
			Paragraphs: []transcript.Paragraph{{Start: 305, End: 305, Text: "Next week we talk plans."}},
		},
	}
}

func TestHTML_AnchorsResolve(t *testing.T) {
	md := render.Render(sampleSections(), render.Metadata{Source: "ep.mp3"}, render.Options{GenerateTOC: true})

	var buf bytes.Buffer
	if err := HTML(md, "Episode <1>", &buf); err != nil {
		t.Fatalf("HTML() error = %v", err)
	}

	doc, err := html.Parse(&buf)
	if err != nil {
		t.Fatalf("output is not parseable HTML: %v", err)
	}

	ids := map[string]int{}
	var hrefs []string
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				switch a.Key {
				case "id":
					ids[a.Val]++
				case "href":
					if strings.HasPrefix(a.Val, "#") {
						hrefs = append(hrefs, strings.TrimPrefix(a.Val, "#"))
					}
				}
			}
			if n.Data == "title" && n.FirstChild != nil {
				title = n.FirstChild.Data
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if title != "Episode <1>" {
		t.Errorf("title = %q, want %q", title, "Episode <1>")
	}
	if len(hrefs) != 2 {
		t.Fatalf("expected 2 in-page links, got %v", hrefs)
	}
	for _, h := range hrefs {
		if ids[h] != 1 {
			t.Errorf("link #%s resolves to %d elements, want 1", h, ids[h])
		}
	}
}

func TestSRT(t *testing.T) {
	var buf bytes.Buffer
	paragraphs := []transcript.Paragraph{
		{Start: 0, End: 9.5, Text: "**Speaker 1:** um welcome back"},
		{Start: 10, End: 10, Text: "uh"},
		{Start: 3661.25, End: 3661.25, Text: "Late."},
	}
	if err := SRT(paragraphs, &buf); err != nil {
		t.Fatalf("SRT() error = %v", err)
	}

	want := "1\n00:00:00,000 --> 00:00:09,500\nSpeaker 1: welcome back\n\n" +
		"2\n01:01:01,250 --> 01:01:02,250\nLate.\n\n"
	if buf.String() != want {
		t.Errorf("SRT() = %q, want %q", buf.String(), want)
	}
}

func TestDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.docx")
	meta := render.Metadata{Source: "ep.mp3", Lines: []string{"**Duration:** [00:05:10]"}}

	if err := Docx(sampleSections(), meta, render.Options{ContentMarkers: true}, path); err != nil {
		t.Fatalf("Docx() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("docx not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("docx is empty")
	}
}

func TestCleanMarkdownInline(t *testing.T) {
	if got := cleanMarkdownInline("**bold** __u__ `code`"); got != "bold u code" {
		t.Errorf("cleanMarkdownInline() = %q", got)
	}
}
