package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/transcript-flow/internal/render"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var reBold = regexp.MustCompile(`\*\*(.+?)\*\*`)

// Docx writes the sections as a styled Word document at path. It mirrors the
// markdown layout: title, header lines, then one heading per section followed
// by its summary and paragraphs.
func Docx(sections []transcript.Section, meta render.Metadata, opts render.Options, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = render.DefaultTitle
	}
	addStyledRun(doc.AddParagraph(""), title, true, 16)
	if meta.Source != "" {
		addRichText(doc.AddParagraph(""), "**File:** "+meta.Source)
	}
	for _, line := range meta.Lines {
		addRichText(doc.AddParagraph(""), line)
	}
	if opts.DiarizationAvailable {
		addRichText(doc.AddParagraph(""), "**Speakers identified via diarization.**")
	} else {
		addRichText(doc.AddParagraph(""), "**Note:** Speaker diarization was not available for this transcript.")
	}

	for _, s := range sections {
		heading := render.FormatTimestamp(s.Start) + " "
		if opts.ContentMarkers && s.Marker != "" {
			heading += s.Marker + " "
		}
		heading += sectionTitle(s)
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), heading, true, 15)

		if summary := strings.TrimSpace(s.Summary); summary != "" {
			addRichText(doc.AddParagraph(""), "**Summary:** "+summary)
		}

		for _, p := range s.Paragraphs {
			text := render.CleanFillers(p.Text)
			if text == "" {
				continue
			}
			if !opts.MinimalTimestamps {
				text = "**" + render.FormatTimestamp(p.Start) + "** " + text
			}
			addRichText(doc.AddParagraph(""), text)
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func sectionTitle(s transcript.Section) string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	return "Section"
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// addRichText renders **bold** spans as bold runs.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
