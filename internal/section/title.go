package section

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Topic maps keywords found in a section's opening paragraph to a title.
type Topic struct {
	Title    string   `yaml:"title"`
	Keywords []string `yaml:"keywords"`
}

// TitleRules are the keyword tables used by Title. Matching is
// case-insensitive substring matching.
type TitleRules struct {
	SponsorKeywords []string `yaml:"sponsor_keywords"`
	// SponsorPatterns extract the brand name. They run against lowercased
	// text; the last capture group (or the whole match) is the brand.
	SponsorPatterns []string `yaml:"sponsor_patterns"`
	Topics          []Topic  `yaml:"topics"`
}

// DefaultTitleRules returns the built-in podcast keyword tables.
func DefaultTitleRules() TitleRules {
	return TitleRules{
		SponsorKeywords: []string{
			"sponsor",
			"brought to you by",
			"promo code",
			"heart and soil",
			"white oak",
			"8sleep",
			"eight sleep",
			"primal pastures",
		},
		SponsorPatterns: []string{
			`(?:sponsor(?:ed)? by|brought to you by)\s+([a-z0-9 &'-]+)`,
			`use code\s+([a-z0-9]+)`,
			`visit\s+([a-z0-9.-]+)\.com`,
			`heart and soil`,
			`white oak`,
			`eight sleep`,
			`eight-sleep`,
		},
		Topics: []Topic{
			{Title: "Hypertension Discussion", Keywords: []string{"hypertension", "blood pressure"}},
		},
	}
}

// Validate reports sponsor patterns that do not compile.
func (r TitleRules) Validate() error {
	for _, p := range r.SponsorPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return fmt.Errorf("section: sponsor pattern %q: %w", p, err)
		}
	}
	for _, t := range r.Topics {
		if strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("section: topic with keywords %v has no title", t.Keywords)
		}
	}
	return nil
}

var reBrandNoise = regexp.MustCompile(`[^a-z0-9 &'-]+`)

// Title assigns a title and type to each section from its first paragraph:
// sponsor reads first, then the opening section is the introduction, then
// configured topics, and finally a generic timestamp title.
func Title(sections []transcript.Section, rules TitleRules) []transcript.Section {
	patterns := compilePatterns(rules.SponsorPatterns)
	caser := cases.Title(language.English)

	out := make([]transcript.Section, len(sections))
	for i, s := range sections {
		s = s.Clone()
		first := ""
		if len(s.Paragraphs) > 0 {
			first = s.Paragraphs[0].Text
		}
		lowered := strings.ToLower(first)

		switch {
		case containsAny(lowered, rules.SponsorKeywords):
			s.Title = sponsorTitle(lowered, patterns, caser)
			s.Type = transcript.TypeSponsor
		case i == 0:
			s.Title = "Introduction"
			s.Type = transcript.TypeIntro
		default:
			if topic, ok := matchTopic(lowered, rules.Topics); ok {
				s.Title = topic
				s.Type = transcript.TypeMainContent
			} else {
				s.Title = "Section at " + transcript.Clock(s.Start)
				s.Type = transcript.TypeGeneral
			}
		}
		out[i] = s
	}
	return out
}

func sponsorTitle(lowered string, patterns []*regexp.Regexp, caser cases.Caser) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(lowered)
		if m == nil {
			continue
		}
		brand := m[0]
		for g := len(m) - 1; g > 0; g-- {
			if m[g] != "" {
				brand = m[g]
				break
			}
		}
		brand = strings.Join(strings.Fields(reBrandNoise.ReplaceAllString(brand, " ")), " ")
		if brand != "" {
			return "Sponsor: " + caser.String(brand)
		}
	}
	return "Sponsor Segment"
}

func matchTopic(lowered string, topics []Topic) (string, bool) {
	for _, t := range topics {
		if containsAny(lowered, t.Keywords) {
			return t.Title, true
		}
	}
	return "", false
}

func containsAny(lowered string, keywords []string) bool {
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		out = append(out, re)
	}
	return out
}
