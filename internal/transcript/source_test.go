package transcript

import (
	"strings"
	"testing"
)

func TestDecode_WordAndSegmentShapes(t *testing.T) {
	input := `{
		"text": "Hello there. General.",
		"words": [
			{"word": " Hello", "start": 0.0, "end": 0.4},
			{"text": "there.", "start": "0.5", "end": "0.9"},
			{"word": "broken", "start": "abc", "end": null}
		],
		"segments": [
			{"text": "General.", "start": 1.0, "end": 2.0, "words": [{"word": "General.", "start": 1.0, "end": 2.0}]}
		]
	}`

	tr, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tr.Words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(tr.Words))
	}
	if tr.Words[0].Text != " Hello" {
		t.Errorf("expected word key to be read, got %q", tr.Words[0].Text)
	}
	if tr.Words[1].Text != "there." {
		t.Errorf("expected text key fallback, got %q", tr.Words[1].Text)
	}
	if !tr.Words[1].Start.Valid || tr.Words[1].Start.Value != 0.5 {
		t.Errorf("expected numeric string start 0.5, got %+v", tr.Words[1].Start)
	}
	if tr.Words[2].Start.Valid || tr.Words[2].End.Valid {
		t.Errorf("expected invalid timestamps for malformed word, got %+v", tr.Words[2])
	}
	if len(tr.Segments) != 1 || len(tr.Segments[0].Words) != 1 {
		t.Fatalf("expected 1 segment with 1 word, got %+v", tr.Segments)
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSectionText(t *testing.T) {
	s := Section{Paragraphs: []Paragraph{{Text: " first "}, {Text: ""}, {Text: "second"}}}
	if got := s.Text(); got != "first second" {
		t.Errorf("Text() = %q, want %q", got, "first second")
	}
}

func TestSectionClone(t *testing.T) {
	s := Section{Paragraphs: []Paragraph{{Text: "a"}}}
	c := s.Clone()
	c.Paragraphs[0].Text = "b"
	if s.Paragraphs[0].Text != "a" {
		t.Error("Clone() shares paragraph storage with the original")
	}
}
