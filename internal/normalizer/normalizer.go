package normalizer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// epsilon absorbs float noise when comparing a start time against the cursor.
const epsilon = 1e-3

// Config controls normalization.
type Config struct {
	// ResetThreshold is how far (seconds) a token may start before the
	// previous token's end before the stream is treated as restarted.
	ResetThreshold float64
}

// DefaultConfig returns the default reset threshold of 2 seconds.
func DefaultConfig() Config {
	return Config{ResetThreshold: 2.0}
}

func (c Config) Validate() error {
	if c.ResetThreshold < 0 || math.IsNaN(c.ResetThreshold) {
		return fmt.Errorf("normalizer: reset_threshold must be >= 0, got %v", c.ResetThreshold)
	}
	return nil
}

// Stats reports what happened to the input while normalizing.
type Stats struct {
	Accepted         int // tokens in the final output
	Duplicates       int // tokens skipped by the dedup key
	Dropped          int // malformed tokens
	Resets           int // timestamp resets detected
	DiscardedByReset int // tokens thrown away because of resets
}

// Result is the normalized token stream plus diagnostics.
type Result struct {
	Tokens []transcript.Token
	Stats  Stats
}

type dedupKey struct {
	start int64
	end   int64
	text  string
}

// accumulator applies the dedup key and the reset guard to one source path.
// prior holds keys accepted by a higher-priority path; they count as
// duplicates but never move the cursor.
type accumulator struct {
	cfg     Config
	tokens  []transcript.Token
	seen    map[dedupKey]struct{}
	prior   map[dedupKey]struct{}
	cursor  float64
	started bool
	stats   *Stats
}

func newAccumulator(cfg Config, prior map[dedupKey]struct{}, stats *Stats) *accumulator {
	return &accumulator{cfg: cfg, seen: make(map[dedupKey]struct{}), prior: prior, stats: stats}
}

func (a *accumulator) add(text string, start, end transcript.Seconds) {
	text = strings.TrimSpace(text)
	if text == "" || (!start.Valid && !end.Valid) {
		a.stats.Dropped++
		return
	}
	if !start.Valid {
		start = end
	}
	if !end.Valid {
		end = start
	}
	s, e := start.Value, end.Value
	if math.IsNaN(s) || math.IsNaN(e) || math.IsInf(s, 0) || math.IsInf(e, 0) {
		a.stats.Dropped++
		return
	}
	if e < s {
		e = s
	}

	key := dedupKey{start: millis(s), end: millis(e), text: text}
	if _, dup := a.seen[key]; dup {
		a.stats.Duplicates++
		return
	}
	if _, dup := a.prior[key]; dup {
		a.stats.Duplicates++
		return
	}

	if a.started && s+epsilon < a.cursor-a.cfg.ResetThreshold {
		a.stats.Resets++
		a.stats.DiscardedByReset += len(a.tokens)
		a.tokens = a.tokens[:0]
		a.seen = make(map[dedupKey]struct{})
	}

	a.seen[key] = struct{}{}
	a.cursor = e
	a.started = true
	a.tokens = append(a.tokens, transcript.Token{Text: text, Start: s, End: e})
}

func millis(v float64) int64 {
	return int64(math.Round(v * 1000))
}

// Normalize flattens a transcription into one chronologically sorted,
// deduplicated token stream. Top-level words win; segments contribute only
// where no top-level word falls inside their time range, preferring their own
// words over their text. Plain text is the last resort.
//
// Resets are detected within each source path separately, so an uncovered
// segment that starts before the top-level words never discards them.
func Normalize(tr transcript.Transcription, cfg Config) Result {
	var stats Stats

	words := newAccumulator(cfg, nil, &stats)
	for _, w := range tr.Words {
		words.add(w.Text, w.Start, w.End)
	}

	segments := newAccumulator(cfg, words.seen, &stats)
	for _, seg := range tr.Segments {
		if isCovered(seg, words.tokens) {
			continue
		}
		if len(seg.Words) > 0 {
			for _, w := range seg.Words {
				segments.add(w.Text, w.Start, w.End)
			}
			continue
		}
		segments.add(seg.Text, seg.Start, seg.End)
	}

	out := make([]transcript.Token, 0, len(words.tokens)+len(segments.tokens))
	out = append(out, words.tokens...)
	out = append(out, segments.tokens...)

	if len(out) == 0 && strings.TrimSpace(tr.Text) != "" {
		text := newAccumulator(cfg, nil, &stats)
		text.add(tr.Text, transcript.At(0), transcript.At(0))
		out = append(out, text.tokens...)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	stats.Accepted = len(out)
	return Result{Tokens: out, Stats: stats}
}

// isCovered reports whether any top-level token starts inside the segment.
func isCovered(seg transcript.Segment, words []transcript.Token) bool {
	if len(words) == 0 {
		return false
	}
	start, end := seg.Start, seg.End
	if !start.Valid && !end.Valid {
		// Without timing we cannot tell; top-level words already exist, so skip.
		return true
	}
	if !start.Valid {
		start = end
	}
	if !end.Valid {
		end = start
	}
	for _, w := range words {
		if w.Start+epsilon >= start.Value && w.Start-epsilon <= end.Value {
			return true
		}
	}
	return false
}
