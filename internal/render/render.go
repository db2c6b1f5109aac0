package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// DefaultTitle heads documents whose metadata carries no title.
const DefaultTitle = "Podcast Transcript"

const (
	diarizedLine   = "**Speakers identified via diarization.**"
	undiarizedLine = "**Note:** Speaker diarization was not available for this transcript."
)

// Options are the rendering switches.
type Options struct {
	GenerateTOC       bool
	MinimalTimestamps bool
	ContentMarkers    bool
	// DiarizationAvailable must reflect whether speaker segments were
	// actually used upstream.
	DiarizationAvailable bool
}

// Metadata describes the document header.
type Metadata struct {
	Title  string
	Source string
	Lines  []string // extra header lines, emitted as is
}

// Render serializes sections into markdown. It never reorders sections or
// paragraphs and returns identical output for identical input.
func Render(sections []transcript.Section, meta Metadata, opts Options) string {
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = DefaultTitle
	}

	lines := []string{"# " + title}
	if meta.Source != "" {
		lines = append(lines, "**File:** "+meta.Source)
	}
	lines = append(lines, meta.Lines...)
	if opts.DiarizationAvailable {
		lines = append(lines, diarizedLine)
	} else {
		lines = append(lines, undiarizedLine)
	}
	lines = append(lines, "", "---", "")

	if opts.GenerateTOC && len(sections) > 0 {
		lines = append(lines, TableOfContents(sections), "", "---", "")
	}

	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		if b := strings.TrimRight(Section(s, opts), "\n"); b != "" {
			blocks = append(blocks, b)
		}
	}
	if len(blocks) > 0 {
		lines = append(lines, strings.Join(blocks, "\n\n"))
	}

	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

// TableOfContents renders one linked entry per section.
func TableOfContents(sections []transcript.Section) string {
	lines := []string{"## Table of Contents", ""}
	for _, s := range sections {
		title := sectionTitle(s)
		lines = append(lines, fmt.Sprintf("- [%s %s](#%s)", transcript.ShortClock(s.Start), title, AnchorID(s.Start, title)))
	}
	return strings.Join(lines, "\n")
}

// Section renders one section: anchored heading, optional summary quote and
// its paragraphs.
func Section(s transcript.Section, opts Options) string {
	title := sectionTitle(s)
	marker := ""
	if opts.ContentMarkers && s.Marker != "" {
		marker = s.Marker + " "
	}

	lines := []string{
		fmt.Sprintf(`## <a id="%s"></a>%s %s%s`, AnchorID(s.Start, title), FormatTimestamp(s.Start), marker, title),
		"",
	}
	if summary := strings.TrimSpace(s.Summary); summary != "" {
		lines = append(lines, "> **Summary:** "+summary, "")
	}
	for _, p := range s.Paragraphs {
		text := CleanFillers(p.Text)
		if text == "" {
			continue
		}
		if opts.MinimalTimestamps {
			lines = append(lines, text, "")
		} else {
			lines = append(lines, fmt.Sprintf("**%s** %s", FormatTimestamp(p.Start), text), "")
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n") + "\n\n"
}

func sectionTitle(s transcript.Section) string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	return "Section"
}

// FormatTimestamp renders seconds as "[HH:MM:SS]".
func FormatTimestamp(seconds float64) string {
	return "[" + transcript.Clock(seconds) + "]"
}

// AnchorID derives the explicit anchor for a section heading. The same id is
// used for the heading and its table of contents link.
func AnchorID(start float64, title string) string {
	return fmt.Sprintf("%05d-%s", transcript.WholeSeconds(start), Slug(title))
}

// Slug lowercases s and replaces every run of characters that are not
// letters or digits with a single hyphen.
func Slug(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	if b.Len() == 0 {
		return "section"
	}
	return b.String()
}

var (
	reFiller     = regexp.MustCompile(`(?i)\b(?:um|uh|er|ah)\b,?`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reSpacePunct = regexp.MustCompile(`\s+([.,!?;:])`)
)

// CleanFillers removes standalone um/uh/er/ah and normalizes whitespace.
func CleanFillers(text string) string {
	text = reFiller.ReplaceAllString(text, "")
	text = reSpaces.ReplaceAllString(text, " ")
	text = reSpacePunct.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
