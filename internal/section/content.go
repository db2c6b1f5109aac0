package section

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// ContentRule retypes a section whose full text mentions any keyword.
type ContentRule struct {
	Type     transcript.SectionType `yaml:"type"`
	Keywords []string               `yaml:"keywords"`
}

// ContentRules is the ordered rule table and marker set for
// DetectContentTypes. The first matching rule wins.
type ContentRules struct {
	Rules   []ContentRule                     `yaml:"rules"`
	Markers map[transcript.SectionType]string `yaml:"markers"`
}

// DefaultMarkers returns the display marker per section type.
func DefaultMarkers() map[transcript.SectionType]string {
	return map[transcript.SectionType]string{
		transcript.TypeIntro:       "🎙️",
		transcript.TypeSponsor:     "💡",
		transcript.TypeMainContent: "🧠",
		transcript.TypeResearch:    "🔬",
		transcript.TypeStatistics:  "📊",
		transcript.TypeMedication:  "💊",
		transcript.TypeClinical:    "🩺",
		transcript.TypeGeneral:     "📝",
	}
}

// DefaultContentRules returns the built-in rule table.
func DefaultContentRules() ContentRules {
	return ContentRules{
		Rules: []ContentRule{
			{Type: transcript.TypeResearch, Keywords: []string{"study", "studies", "research", "trial", "journal", "published", "meta-analysis"}},
			{Type: transcript.TypeStatistics, Keywords: []string{"percent", "statistic", "odds ratio", "relative risk", "per 100,000"}},
			{Type: transcript.TypeMedication, Keywords: []string{"medication", "prescription", "dosage", "milligram", "drug", "statin"}},
			{Type: transcript.TypeClinical, Keywords: []string{"patient", "clinical", "diagnos", "symptom", "physician"}},
		},
		Markers: DefaultMarkers(),
	}
}

// Validate rejects rules without a type.
func (c ContentRules) Validate() error {
	for i, r := range c.Rules {
		if r.Type == "" {
			return fmt.Errorf("section: content rule %d has no type", i)
		}
	}
	return nil
}

// Marker returns the marker for t, falling back to the general marker.
func (c ContentRules) Marker(t transcript.SectionType) string {
	if m, ok := c.Markers[t]; ok {
		return m
	}
	if m, ok := c.Markers[transcript.TypeGeneral]; ok {
		return m
	}
	return DefaultMarkers()[transcript.TypeGeneral]
}

// DetectContentTypes retypes sections by keyword matches over their full
// text and assigns each a marker. Sponsor and intro sections keep their
// type. Running it twice gives the same result.
func DetectContentTypes(sections []transcript.Section, rules ContentRules) []transcript.Section {
	out := make([]transcript.Section, len(sections))
	for i, s := range sections {
		s = s.Clone()
		if s.Type == "" {
			s.Type = transcript.TypeGeneral
		}
		if s.Type != transcript.TypeSponsor && s.Type != transcript.TypeIntro {
			lowered := strings.ToLower(s.Text())
			for _, r := range rules.Rules {
				if containsAny(lowered, r.Keywords) {
					s.Type = r.Type
					break
				}
			}
		}
		s.Marker = rules.Marker(s.Type)
		out[i] = s
	}
	return out
}
