package paragraph

import (
	"fmt"
	"math"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Config controls paragraph breaking.
type Config struct {
	MaxSeconds         float64 // hard cap on paragraph duration
	PauseThreshold     float64 // silence (seconds) that may end a paragraph
	MaxWords           int     // soft cap, applied once half of MaxSeconds has elapsed
	MinWords           int     // floor before a sentence end or pause is honored
	SentenceMinSeconds float64 // minimum duration before a sentence end is honored
	MinFragments       int     // MinWords equivalent when grouping legacy fragments
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxSeconds:         30,
		PauseThreshold:     2.5,
		MaxWords:           140,
		MinWords:           12,
		SentenceMinSeconds: 6,
		MinFragments:       2,
	}
}

func (c Config) Validate() error {
	if !(c.MaxSeconds > 0) || math.IsInf(c.MaxSeconds, 0) {
		return fmt.Errorf("paragraph: max seconds must be positive, got %v", c.MaxSeconds)
	}
	if c.PauseThreshold < 0 {
		return fmt.Errorf("paragraph: pause threshold must be >= 0, got %v", c.PauseThreshold)
	}
	if c.SentenceMinSeconds < 0 {
		return fmt.Errorf("paragraph: sentence min seconds must be >= 0, got %v", c.SentenceMinSeconds)
	}
	return nil
}

// unit is one item being folded into paragraphs: a word token or a whole
// legacy fragment.
type unit struct {
	text   string
	start  float64
	end    float64
	weight int
}

// rules is the break policy shared by word and fragment grouping.
type rules struct {
	maxSeconds    float64
	pause         float64
	minWeight     int
	sentenceMin   float64
	softCapWeight int // 0 disables the soft cap
}

type builder struct {
	rules  rules
	out    []transcript.Paragraph
	parts  []string
	start  float64
	end    float64
	weight int
}

func (b *builder) empty() bool { return len(b.parts) == 0 }

func (b *builder) flush() {
	if b.empty() {
		return
	}
	text := strings.Join(b.parts, " ")
	b.parts = nil
	b.weight = 0
	if text == "" {
		return
	}
	b.out = append(b.out, transcript.Paragraph{Start: b.start, End: b.end, Text: text})
}

func (b *builder) add(u unit) {
	r := b.rules
	if !b.empty() {
		hardCap := u.end-b.start > r.maxSeconds
		gap := u.start-b.end >= r.pause && b.weight >= r.minWeight
		if hardCap || gap {
			b.flush()
		}
	}

	if b.empty() {
		b.start = u.start
	}
	b.parts = append(b.parts, u.text)
	b.end = u.end
	b.weight += u.weight

	dur := b.end - b.start
	switch {
	case dur >= r.maxSeconds:
		b.flush()
	case endsSentence(u.text) && dur >= r.sentenceMin && b.weight >= r.minWeight:
		b.flush()
	case r.softCapWeight > 0 && dur >= r.maxSeconds/2 && b.weight >= r.softCapWeight:
		b.flush()
	}
}

func endsSentence(text string) bool {
	text = strings.TrimRight(text, " \t\n\"')]”’")
	return strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") || strings.HasSuffix(text, "?")
}

// Group folds a chronologically ordered token stream into paragraphs.
//
// Before a token is appended the running paragraph is flushed when the token
// would push it past MaxSeconds or when it follows a pause of at least
// PauseThreshold and MinWords words have accumulated. After appending, the
// paragraph breaks on the hard cap, on a sentence end once it is long
// enough, or on the soft word cap.
func Group(tokens []transcript.Token, cfg Config) ([]transcript.Paragraph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &builder{rules: rules{
		maxSeconds:    cfg.MaxSeconds,
		pause:         cfg.PauseThreshold,
		minWeight:     cfg.MinWords,
		sentenceMin:   cfg.SentenceMinSeconds,
		softCapWeight: cfg.MaxWords,
	}}

	for _, tok := range tokens {
		text := strings.TrimSpace(tok.Text)
		if text == "" {
			continue
		}
		b.add(unit{text: text, start: tok.Start, end: tok.End, weight: len(strings.Fields(text))})
	}
	b.flush()

	if b.out == nil {
		return []transcript.Paragraph{}, nil
	}
	return b.out, nil
}

// GroupFragments groups legacy "[HH:MM:SS] text" fragments with the same
// break policy as Group. Each fragment counts once toward MinFragments and
// its end is its own timestamp; there is no soft cap.
func GroupFragments(fragments []transcript.Fragment, cfg Config) ([]transcript.Paragraph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	minFragments := cfg.MinFragments
	if minFragments <= 0 {
		minFragments = 1
	}
	b := &builder{rules: rules{
		maxSeconds:  cfg.MaxSeconds,
		pause:       cfg.PauseThreshold,
		minWeight:   minFragments,
		sentenceMin: cfg.SentenceMinSeconds,
	}}

	for _, f := range fragments {
		text := strings.TrimSpace(f.Text)
		if text == "" {
			continue
		}
		b.add(unit{text: text, start: f.Timestamp, end: f.Timestamp, weight: 1})
	}
	b.flush()

	if b.out == nil {
		return []transcript.Paragraph{}, nil
	}
	return b.out, nil
}
