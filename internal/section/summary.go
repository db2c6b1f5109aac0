package section

import (
	"context"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Summarizer produces a short summary of a section's text. It returns false
// when no summary is available, for any reason.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, bool)
}

// AddSummaries attaches summaries to sections. Sections with no text, and
// sections the summarizer declines, are left without a summary. A nil
// interface skips summarization; a nil pointer inside s is not detected.
func AddSummaries(ctx context.Context, sections []transcript.Section, s Summarizer) []transcript.Section {
	out := make([]transcript.Section, len(sections))
	for i, sec := range sections {
		sec = sec.Clone()
		out[i] = sec
		if s == nil || ctx.Err() != nil {
			continue
		}
		text := sec.Text()
		if text == "" {
			continue
		}
		summary, ok := s.Summarize(ctx, text)
		if summary = strings.TrimSpace(summary); ok && summary != "" {
			out[i].Summary = summary
		}
	}
	return out
}
