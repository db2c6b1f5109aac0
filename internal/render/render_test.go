package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

func sampleSections() []transcript.Section {
	return []transcript.Section{
		{
			Start:  0,
			Title:  "Introduction",
			Type:   transcript.TypeIntro,
			Marker: "🎙️",
			Paragraphs: []transcript.Paragraph{
				{Start: 0, End: 12, Text: "Um, welcome to the show ."},
				{Start: 12, End: 20, Text: "uh"},
			},
		},
		{
			Start:   310,
			Title:   "Sponsor: Heart And Soil",
			Type:    transcript.TypeSponsor,
			Marker:  "💡",
			Summary: "A short ad read.",
			Paragraphs: []transcript.Paragraph{
				{Start: 310, End: 330, Text: "This episode is brought to you by Heart and Soil."},
			},
		},
	}
}

func TestRender_Golden(t *testing.T) {
	got := Render(sampleSections(), Metadata{Source: "episode.mp3"}, Options{
		GenerateTOC:    true,
		ContentMarkers: true,
	})

	want := `# Podcast Transcript
**File:** episode.mp3
**Note:** Speaker diarization was not available for this transcript.

---

## Table of Contents

- [00:00 Introduction](#00000-introduction)
- [05:10 Sponsor: Heart And Soil](#00310-sponsor-heart-and-soil)

---

## <a id="00000-introduction"></a>[00:00:00] 🎙️ Introduction

**[00:00:00]** welcome to the show.

## <a id="00310-sponsor-heart-and-soil"></a>[00:05:10] 💡 Sponsor: Heart And Soil

> **Summary:** A short ad read.

**[00:05:10]** This episode is brought to you by Heart and Soil.
`
	if got != want {
		t.Errorf("Render() mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRender_MinimalAndDiarized(t *testing.T) {
	got := Render(sampleSections(), Metadata{Title: "Episode 12", Lines: []string{"**Duration:** 00:05:30"}}, Options{
		MinimalTimestamps:    true,
		DiarizationAvailable: true,
	})

	if !strings.HasPrefix(got, "# Episode 12\n**Duration:** 00:05:30\n**Speakers identified via diarization.**\n") {
		t.Errorf("unexpected header:\n%s", got)
	}
	if strings.Contains(got, "Table of Contents") {
		t.Error("TOC rendered without GenerateTOC")
	}
	if strings.Contains(got, "**[00:") {
		t.Error("paragraph timestamps rendered in minimal mode")
	}
	if strings.Contains(got, "💡") {
		t.Error("markers rendered without ContentMarkers")
	}
	if strings.Count(got, "diarization") != 1 {
		t.Errorf("expected exactly one diarization state line, got:\n%s", got)
	}
}

func TestRender_Empty(t *testing.T) {
	got := Render(nil, Metadata{}, Options{GenerateTOC: true})
	want := "# Podcast Transcript\n**Note:** Speaker diarization was not available for this transcript.\n\n---\n"
	if got != want {
		t.Errorf("Render(nil) = %q, want %q", got, want)
	}
}

func TestRender_Idempotent(t *testing.T) {
	opts := Options{GenerateTOC: true, ContentMarkers: true}
	meta := Metadata{Source: "a.json"}
	sections := sampleSections()

	first := Render(sections, meta, opts)
	second := Render(sections, meta, opts)
	if first != second {
		t.Error("Render() is not deterministic")
	}
}

var (
	reTOCLink = regexp.MustCompile(`\]\(#([^)]+)\)`)
	reAnchor  = regexp.MustCompile(`<a id="([^"]+)"></a>`)
)

func TestRender_AnchorsResolve(t *testing.T) {
	sections := []transcript.Section{
		{Start: 0, Title: "Introduction", Paragraphs: []transcript.Paragraph{{Text: "a"}}},
		{Start: 300.4, Title: "What's next?", Paragraphs: []transcript.Paragraph{{Start: 300.4, Text: "b"}}},
		{Start: 3725, Title: "", Paragraphs: []transcript.Paragraph{{Start: 3725, Text: "c"}}},
	}
	out := Render(sections, Metadata{}, Options{GenerateTOC: true})

	anchors := map[string]int{}
	for _, m := range reAnchor.FindAllStringSubmatch(out, -1) {
		anchors[m[1]]++
	}
	links := reTOCLink.FindAllStringSubmatch(out, -1)
	if len(links) != len(sections) {
		t.Fatalf("expected %d TOC links, got %d", len(sections), len(links))
	}
	for _, l := range links {
		if anchors[l[1]] != 1 {
			t.Errorf("TOC link #%s matches %d anchors, want 1", l[1], anchors[l[1]])
		}
	}
}

func TestAnchorID(t *testing.T) {
	tests := []struct {
		start float64
		title string
		want  string
	}{
		{0, "Introduction", "00000-introduction"},
		{310.6, "Sponsor: Heart And Soil", "00311-sponsor-heart-and-soil"},
		{905, "Section at 00:15:05", "00905-section-at-00-15-05"},
		{12, "  !!  ", "00012-section"},
		{12, "Café — Ärzte", "00012-café-ärzte"},
	}

	for _, tt := range tests {
		if got := AnchorID(tt.start, tt.title); got != tt.want {
			t.Errorf("AnchorID(%v, %q) = %q, want %q", tt.start, tt.title, got, tt.want)
		}
	}
}

func TestCleanFillers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Um, so I was thinking", "so I was thinking"},
		{"it was, uh, great .", "it was, great."},
		{"umbrella and erosion", "umbrella and erosion"},
		{"  lots   of\tspace ", "lots of space"},
		{"uh um er ah", ""},
		{"**Speaker 1:** um hello", "**Speaker 1:** hello"},
	}

	for _, tt := range tests {
		if got := CleanFillers(tt.in); got != tt.want {
			t.Errorf("CleanFillers(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
