package summarizer

import "context"

// Summarizer calls an LLM for section summaries and speaker names.
type Summarizer interface {
	// Summarize returns a short summary of a transcript section, or false
	// when none could be produced.
	Summarize(ctx context.Context, text string) (string, bool)
	// IdentifySpeakers guesses display names for raw diarization labels from
	// the transcript text. Labels it cannot name are left out of the map.
	IdentifySpeakers(ctx context.Context, text string, speakers []string) (map[string]string, error)
}
