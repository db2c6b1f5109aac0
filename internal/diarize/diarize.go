package diarize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nguyentantai21042004/transcript-flow/internal/paragraph"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Load reads diarization output: either a JSON array of
// {speaker, start, end, text?} objects or an object with a "segments" array.
// Segments are returned sorted by start.
func Load(r io.Reader) ([]transcript.SpeakerSegment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read diarization: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("read diarization: empty input")
	}

	var segs []transcript.SpeakerSegment
	if data[0] == '[' {
		if err := json.Unmarshal(data, &segs); err != nil {
			return nil, fmt.Errorf("decode diarization: %w", err)
		}
	} else {
		var wrapped struct {
			Segments []transcript.SpeakerSegment `json:"segments"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode diarization: %w", err)
		}
		segs = wrapped.Segments
	}

	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })
	return segs, nil
}

// LoadFile is Load for a file path.
func LoadFile(path string) ([]transcript.SpeakerSegment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open diarization: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// LoadNames reads a raw-label to display-name map from a YAML or JSON file.
func LoadNames(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read speaker names: %w", err)
	}
	names := map[string]string{}
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parse speaker names: %w", err)
	}
	return names, nil
}

// HasText reports whether any segment carries transcribed text. Turns
// without text need Assign before they can be grouped.
func HasText(segs []transcript.SpeakerSegment) bool {
	for _, s := range segs {
		if strings.TrimSpace(s.Text) != "" {
			return true
		}
	}
	return false
}

// Speakers returns the distinct raw labels in order of first appearance.
func Speakers(segs []transcript.SpeakerSegment) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range segs {
		if seen[s.Speaker] {
			continue
		}
		seen[s.Speaker] = true
		out = append(out, s.Speaker)
	}
	return out
}

// Assign attributes each token to the first turn containing its midpoint
// and merges consecutive tokens of the same speaker into segments. Tokens
// outside every turn go to the unknown speaker.
func Assign(tokens []transcript.Token, turns []transcript.SpeakerSegment) []transcript.SpeakerSegment {
	out := []transcript.SpeakerSegment{}
	for _, tok := range tokens {
		text := strings.TrimSpace(tok.Text)
		if text == "" {
			continue
		}
		mid := (tok.Start + tok.End) / 2
		speaker := paragraph.UnknownSpeaker
		for _, t := range turns {
			if t.Start <= mid && mid <= t.End {
				speaker = t.Speaker
				break
			}
		}

		if n := len(out); n > 0 && out[n-1].Speaker == speaker {
			out[n-1].Text += " " + text
			out[n-1].End = tok.End
			continue
		}
		out = append(out, transcript.SpeakerSegment{Speaker: speaker, Start: tok.Start, End: tok.End, Text: text})
	}
	return out
}
