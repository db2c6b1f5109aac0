package paragraph

import (
	"testing"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

func TestSpeakerLabel(t *testing.T) {
	names := map[string]string{"SPEAKER_01": "Alice"}
	tests := []struct {
		raw  string
		want string
	}{
		{"SPEAKER_00", "Speaker 1"},
		{"SPEAKER_01", "Alice"},
		{"spk3", "Speaker 4"},
		{"Host", "Host"},
		{"", "Speaker"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := SpeakerLabel(tt.raw, names); got != tt.want {
				t.Errorf("SpeakerLabel(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestGroupSpeakers_MergesTurns(t *testing.T) {
	segs := []transcript.SpeakerSegment{
		{Speaker: "A", Start: 0, End: 10, Text: "hi"},
		{Speaker: "A", Start: 10, End: 18, Text: "there"},
		{Speaker: "B", Start: 18, End: 25, Text: "hello"},
	}

	got, err := GroupSpeakers(segs, nil, DefaultSpeakerDuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(got))
	}
	if got[0].Text != "**A:** hi there" || got[0].Start != 0 || got[0].End != 18 {
		t.Errorf("first paragraph = %+v", got[0])
	}
	if got[1].Text != "**B:** hello" {
		t.Errorf("second paragraph = %+v", got[1])
	}
}

func TestGroupSpeakers_NumberedLabels(t *testing.T) {
	segs := []transcript.SpeakerSegment{
		{Speaker: "SPEAKER_00", Start: 0, End: 10, Text: "hi"},
		{Speaker: "SPEAKER_00", Start: 10, End: 18, Text: "there"},
		{Speaker: "SPEAKER_01", Start: 18, End: 25, Text: "hello"},
	}

	got, err := GroupSpeakers(segs, nil, DefaultSpeakerDuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(got))
	}
	if got[0].Speaker != "Speaker 1" || got[1].Speaker != "Speaker 2" {
		t.Errorf("labels = %q, %q; want Speaker 1, Speaker 2", got[0].Speaker, got[1].Speaker)
	}
	if got[0].Text != "**Speaker 1:** hi there" {
		t.Errorf("text = %q", got[0].Text)
	}
}

func TestGroupSpeakers_DurationCap(t *testing.T) {
	segs := []transcript.SpeakerSegment{
		{Speaker: "A", Start: 0, End: 10, Text: "one"},
		{Speaker: "A", Start: 10, End: 25, Text: "two"},
		{Speaker: "A", Start: 25, End: 35, Text: "three"},
	}

	got, err := GroupSpeakers(segs, map[string]string{"A": "Alice"}, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(got))
	}
	if got[0].Text != "**Alice:** one two" || got[1].Text != "**Alice:** three" {
		t.Errorf("paragraphs = %q / %q", got[0].Text, got[1].Text)
	}
}

func TestGroupSpeakers_UnknownSpeaker(t *testing.T) {
	got, err := GroupSpeakers([]transcript.SpeakerSegment{{Start: 0, End: 1, Text: "who"}}, nil, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Speaker != UnknownSpeaker {
		t.Errorf("expected UNKNOWN label, got %+v", got)
	}
}

func TestGroupSpeakers_InvalidDuration(t *testing.T) {
	if _, err := GroupSpeakers(nil, nil, 0); err == nil {
		t.Error("expected error for zero max duration")
	}
}
