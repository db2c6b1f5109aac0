package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const summaryPrompt = `Summarize this podcast transcript section in 2 concise sentences.
Focus on the key ideas and avoid marketing fluff. Reply with the summary only.

Section:
%s`

const speakerPrompt = `Analyze this podcast transcript and identify the speakers by name. There are %d speakers, labeled %s.
Look for introductions, name mentions, or contextual clues about who is speaking.

Return ONLY a JSON object mapping speaker numbers to names, like:
{"1": "John Smith", "2": "Jane Doe"}

If you cannot identify a speaker's name, use "Speaker N" for that person.

Transcript excerpt:
%s`

// speakerExcerptRunes bounds how much transcript is sent for name detection.
const speakerExcerptRunes = 3000

var (
	errEmptyResponse = errors.New("empty response from Gemini")
	reJSONObject     = regexp.MustCompile(`\{[^{}]*\}`)
	reGenericSpeaker = regexp.MustCompile(`(?i)^speaker\s*\d*$`)
	reLabelIndex     = regexp.MustCompile(`\d+`)
)

// Summarize asks Gemini for a two-sentence summary. Every failure is
// logged and reported as "no summary".
func (s *implSummarizer) Summarize(ctx context.Context, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	summary, err := s.callGemini(ctx, fmt.Sprintf(summaryPrompt, text))
	if err != nil {
		s.logger.Warn(ctx, "Section summary skipped: %v", err)
		return "", false
	}
	summary = strings.TrimSpace(summary)
	return summary, summary != ""
}

func (s *implSummarizer) IdentifySpeakers(ctx context.Context, text string, speakers []string) (map[string]string, error) {
	if len(speakers) == 0 || strings.TrimSpace(text) == "" {
		return map[string]string{}, nil
	}

	excerpt := []rune(text)
	if len(excerpt) > speakerExcerptRunes {
		excerpt = excerpt[:speakerExcerptRunes]
	}
	prompt := fmt.Sprintf(speakerPrompt, len(speakers), strings.Join(speakers, ", "), string(excerpt))

	reply, err := s.callGemini(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("identify speakers: %w", err)
	}
	names, err := parseSpeakerNames(reply, speakers)
	if err != nil {
		return nil, fmt.Errorf("identify speakers: %w", err)
	}

	s.logger.Info(ctx, "Identified %d of %d speaker names", len(names), len(speakers))
	return names, nil
}

// parseSpeakerNames maps the model's {"1": "Name"} reply back to raw labels.
// Keys may be 1-based positions, label numbers plus one, or the raw labels
// themselves. Generic "Speaker N" answers are dropped.
func parseSpeakerNames(reply string, speakers []string) (map[string]string, error) {
	obj := reJSONObject.FindString(reply)
	if obj == "" {
		return nil, fmt.Errorf("no JSON object in reply")
	}
	var raw map[string]string
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}

	byNumber := map[int]string{}
	for i, label := range speakers {
		n := i + 1
		if m := reLabelIndex.FindString(label); m != "" {
			if idx, err := strconv.Atoi(m); err == nil {
				n = idx + 1
			}
		}
		byNumber[n] = label
	}

	names := map[string]string{}
	for key, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" || reGenericSpeaker.MatchString(name) {
			continue
		}
		key = strings.TrimSpace(key)
		if label, ok := byNumber[atoiOrZero(key)]; ok {
			names[label] = name
			continue
		}
		for _, label := range speakers {
			if label == key {
				names[label] = name
			}
		}
	}
	return names, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// callGemini sends the prompt to Gemini and returns the reply text.
// Rotates API keys on 429 / quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, prompt string) (string, error) {
	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		key, index := s.key()

		text, err := s.generate(ctx, key, s.model, prompt)
		if err != nil {
			if isRateLimited(err) {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", index+1)
				s.rotateKey(index)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return "", errEmptyResponse
		}
		return text, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func (s *implSummarizer) key() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKeys[s.currentKey], s.currentKey
}

// rotateKey advances past the key at index unless another caller already did.
func (s *implSummarizer) rotateKey(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == index {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
}
