package section

import (
	"fmt"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// DefaultDuration is the section window in seconds.
const DefaultDuration = 300.0

// Group partitions paragraphs into time-boxed sections. A paragraph opens a
// new section once its start is duration seconds or more past the start of
// the current section. Content is not inspected.
func Group(paragraphs []transcript.Paragraph, duration float64) ([]transcript.Section, error) {
	if !(duration > 0) {
		return nil, fmt.Errorf("section: duration must be positive, got %v", duration)
	}

	sections := []transcript.Section{}
	var cur *transcript.Section
	for _, p := range paragraphs {
		if cur != nil && p.Start-cur.Start >= duration {
			sections = append(sections, *cur)
			cur = nil
		}
		if cur == nil {
			cur = &transcript.Section{Start: p.Start}
		}
		cur.Paragraphs = append(cur.Paragraphs, p)
	}
	if cur != nil {
		sections = append(sections, *cur)
	}

	return sections, nil
}
