package paragraph

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

func evenTokens(n int, step, length float64) []transcript.Token {
	tokens := make([]transcript.Token, n)
	for i := range tokens {
		start := float64(i) * step
		tokens[i] = transcript.Token{Text: fmt.Sprintf("w%d", i), Start: start, End: start + length}
	}
	return tokens
}

func TestGroup_HardCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSeconds = 5

	got, err := Group(evenTokens(10, 1, 0.9), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %+v", len(got), got)
	}
	if got[0].Text != "w0 w1 w2 w3 w4" {
		t.Errorf("first paragraph = %q, want tokens 1-5", got[0].Text)
	}
	if got[1].Start != 5 {
		t.Errorf("second paragraph start = %v, want 5", got[1].Start)
	}
}

func TestGroup_SilenceGap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinWords = 1
	tokens := []transcript.Token{
		{Text: "before", Start: 0, End: 0.5},
		{Text: "after", Start: 3.5, End: 4.0},
	}

	got, err := Group(tokens, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(got))
	}
	if got[0].Text != "before" || got[1].Text != "after" {
		t.Errorf("split = %q / %q, want before / after", got[0].Text, got[1].Text)
	}
}

func TestGroup_SentenceBoundary(t *testing.T) {
	tokens := evenTokens(14, 0.5, 0.4)
	tokens[12].Text = "end."

	got, err := Group(tokens, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(got))
	}
	if !strings.HasSuffix(got[0].Text, "end.") {
		t.Errorf("expected first paragraph to end at the sentence, got %q", got[0].Text)
	}
}

func TestGroup_ShortSentenceDoesNotBreak(t *testing.T) {
	tokens := []transcript.Token{
		{Text: "Hi.", Start: 0, End: 0.3},
		{Text: "Yes.", Start: 0.4, End: 0.8},
	}
	got, err := Group(tokens, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 paragraph, got %d", len(got))
	}
}

func TestGroup_SoftCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxWords = 20

	got, err := Group(evenTokens(25, 1, 0.9), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(got))
	}
	if n := len(strings.Fields(got[0].Text)); n != 20 {
		t.Errorf("first paragraph has %d words, want 20", n)
	}
}

func TestGroup_Invariants(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSeconds = 7
	tokens := evenTokens(200, 0.37, 0.3)
	for i := 0; i < len(tokens); i += 9 {
		tokens[i].Text += "."
	}

	got, err := Group(tokens, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var words []string
	for i, p := range got {
		if p.End < p.Start {
			t.Errorf("paragraph %d ends before it starts", i)
		}
		if p.End-p.Start > cfg.MaxSeconds {
			t.Errorf("paragraph %d spans %v, over hard cap %v", i, p.End-p.Start, cfg.MaxSeconds)
		}
		if i > 0 && p.Start < got[i-1].Start {
			t.Errorf("paragraph %d starts before paragraph %d", i, i-1)
		}
		words = append(words, strings.Fields(p.Text)...)
	}
	if len(words) != len(tokens) {
		t.Fatalf("expected %d words across paragraphs, got %d", len(tokens), len(words))
	}
	for i, w := range words {
		if w != tokens[i].Text {
			t.Fatalf("word %d = %q, want %q", i, w, tokens[i].Text)
		}
	}
}

func TestGroup_Empty(t *testing.T) {
	got, err := Group(nil, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero max seconds", func(c *Config) { c.MaxSeconds = 0 }, true},
		{"negative max seconds", func(c *Config) { c.MaxSeconds = -3 }, true},
		{"negative pause", func(c *Config) { c.PauseThreshold = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if _, gerr := Group(nil, cfg); (gerr != nil) != tt.wantErr {
				t.Errorf("Group() error = %v, wantErr %v", gerr, tt.wantErr)
			}
		})
	}
}

func TestGroupFragments(t *testing.T) {
	fragments := []transcript.Fragment{
		{Timestamp: 0, Text: "Hello."},
		{Timestamp: 3, Text: "World."},
		{Timestamp: 10, Text: "Next one."},
		{Timestamp: 40, Text: "Later"},
		{Timestamp: 41, Text: "   "},
	}

	got, err := GroupFragments(fragments, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []transcript.Paragraph{
		{Start: 0, End: 3, Text: "Hello. World."},
		{Start: 10, End: 40, Text: "Next one. Later"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d paragraphs, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
