package transcript

import "strings"

// Token is one recognized word (or short text unit) with its timing in seconds.
type Token struct {
	Text  string
	Start float64
	End   float64
}

// Paragraph is a contiguous run of tokens rendered as one prose block.
type Paragraph struct {
	Start   float64
	End     float64
	Text    string
	Speaker string // display label, set only by speaker-aware grouping
}

// SectionType classifies a section for titling and content markers.
type SectionType string

const (
	TypeIntro       SectionType = "intro"
	TypeSponsor     SectionType = "sponsor"
	TypeMainContent SectionType = "main_content"
	TypeResearch    SectionType = "research"
	TypeStatistics  SectionType = "statistics"
	TypeMedication  SectionType = "medication"
	TypeClinical    SectionType = "clinical"
	TypeGeneral     SectionType = "general"
)

// Section is a time-boxed group of paragraphs.
type Section struct {
	Start      float64
	Paragraphs []Paragraph
	Title      string
	Type       SectionType
	Marker     string
	Summary    string
}

// Text returns the section's paragraph text joined by single spaces.
func (s Section) Text() string {
	parts := make([]string, 0, len(s.Paragraphs))
	for _, p := range s.Paragraphs {
		if t := strings.TrimSpace(p.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Clone returns a copy of the section that shares no slices with s.
func (s Section) Clone() Section {
	out := s
	out.Paragraphs = append([]Paragraph(nil), s.Paragraphs...)
	return out
}

// Fragment is one "[HH:MM:SS] text" block from an already rendered transcript.
type Fragment struct {
	Timestamp float64
	Text      string
}

// SpeakerSegment is one diarized utterance.
type SpeakerSegment struct {
	Speaker string  `json:"speaker" yaml:"speaker"`
	Start   float64 `json:"start" yaml:"start"`
	End     float64 `json:"end" yaml:"end"`
	Text    string  `json:"text" yaml:"text"`
}
