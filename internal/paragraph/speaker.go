package paragraph

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// DefaultSpeakerDuration caps a single speaker paragraph, in seconds.
const DefaultSpeakerDuration = 30.0

// UnknownSpeaker is used for segments the diarizer could not attribute.
const UnknownSpeaker = "UNKNOWN"

var reSpeakerIndex = regexp.MustCompile(`\d+`)

// SpeakerLabel resolves a raw diarization label to a display name: the
// mapped name when present, otherwise "Speaker N" where N is the first number
// in the raw label plus one.
func SpeakerLabel(raw string, names map[string]string) string {
	if name, ok := names[raw]; ok && strings.TrimSpace(name) != "" {
		return name
	}
	if m := reSpeakerIndex.FindString(raw); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return fmt.Sprintf("Speaker %d", n+1)
		}
	}
	if raw != "" {
		return raw
	}
	return "Speaker"
}

// GroupSpeakers merges consecutive segments of the same speaker into
// paragraphs. A new paragraph starts when the speaker changes or when the
// incoming segment would end maxDuration or more after the paragraph start.
// Paragraph text is prefixed with the bold speaker label.
func GroupSpeakers(segs []transcript.SpeakerSegment, names map[string]string, maxDuration float64) ([]transcript.Paragraph, error) {
	if !(maxDuration > 0) {
		return nil, fmt.Errorf("paragraph: speaker max duration must be positive, got %v", maxDuration)
	}

	out := []transcript.Paragraph{}
	var (
		speaker string
		label   string
		parts   []string
		start   float64
		end     float64
		open    bool
	)

	flush := func() {
		if !open {
			return
		}
		open = false
		text := strings.Join(parts, " ")
		parts = nil
		if text == "" {
			return
		}
		out = append(out, transcript.Paragraph{
			Start:   start,
			End:     end,
			Text:    fmt.Sprintf("**%s:** %s", label, text),
			Speaker: label,
		})
	}

	for _, seg := range segs {
		raw := strings.TrimSpace(seg.Speaker)
		if raw == "" {
			raw = UnknownSpeaker
		}
		segEnd := seg.End
		if segEnd < seg.Start {
			segEnd = seg.Start
		}
		text := strings.TrimSpace(seg.Text)

		if open && (raw != speaker || segEnd-start >= maxDuration) {
			flush()
		}
		if !open {
			open = true
			speaker = raw
			label = SpeakerLabel(raw, names)
			start = seg.Start
		}
		if text != "" {
			parts = append(parts, text)
		}
		end = segEnd
	}
	flush()

	return out, nil
}
