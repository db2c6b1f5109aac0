package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Seconds is an upstream timestamp that may be missing or unparseable.
// Decoding never fails: anything that is not a number (or a numeric string)
// leaves Valid false.
type Seconds struct {
	Value float64
	Valid bool
}

// At returns a valid Seconds holding v.
func At(v float64) Seconds {
	return Seconds{Value: v, Valid: true}
}

func (s *Seconds) UnmarshalJSON(b []byte) error {
	*s = Seconds{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		unq, err := strconv.Unquote(raw)
		if err != nil {
			return nil
		}
		raw = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	*s = Seconds{Value: v, Valid: true}
	return nil
}

func (s Seconds) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(s.Value, 'f', -1, 64)), nil
}

// Word is a word-level entry from a transcription service.
type Word struct {
	Text  string  `json:"word"`
	Start Seconds `json:"start"`
	End   Seconds `json:"end"`
}

// UnmarshalJSON accepts either "word" or "text" as the token key.
func (w *Word) UnmarshalJSON(b []byte) error {
	var raw struct {
		Word  string  `json:"word"`
		Text  string  `json:"text"`
		Start Seconds `json:"start"`
		End   Seconds `json:"end"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	w.Text = raw.Word
	if w.Text == "" {
		w.Text = raw.Text
	}
	w.Start = raw.Start
	w.End = raw.End
	return nil
}

// Segment is a segment-level entry, optionally carrying its own words.
type Segment struct {
	Text  string  `json:"text"`
	Start Seconds `json:"start"`
	End   Seconds `json:"end"`
	Words []Word  `json:"words,omitempty"`
}

// Transcription is the union of shapes a transcription service may return.
// Any combination of fields may be populated; the normalizer decides which
// representation wins.
type Transcription struct {
	Text     string    `json:"text,omitempty"`
	Language string    `json:"language,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	Words    []Word    `json:"words,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// FromWords builds a transcription from a flat word list.
func FromWords(words []Word) Transcription {
	return Transcription{Words: words}
}

// FromSegments builds a transcription from segments, with or without words.
func FromSegments(segments []Segment) Transcription {
	return Transcription{Segments: segments}
}

// FromText builds a transcription that only carries plain text.
func FromText(text string) Transcription {
	return Transcription{Text: text}
}

// Decode reads a transcription JSON document.
func Decode(r io.Reader) (Transcription, error) {
	var tr Transcription
	if err := json.NewDecoder(r).Decode(&tr); err != nil {
		return Transcription{}, fmt.Errorf("decode transcription: %w", err)
	}
	return tr, nil
}
