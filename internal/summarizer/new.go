package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// generateFunc sends one prompt with one API key and returns the text reply.
type generateFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)

type implSummarizer struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	logger     logger.Logger
	model      string
	generate   generateFunc
}

// New creates a Summarizer that rotates through the supplied Gemini API keys.
// With no keys it returns a Summarizer that never produces anything.
func New(apiKeys []string, model string, log logger.Logger) Summarizer {
	return newWithGenerate(apiKeys, model, log, geminiGenerate)
}

func newWithGenerate(apiKeys []string, model string, log logger.Logger, gen generateFunc) Summarizer {
	keys := make([]string, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return Noop{}
	}
	if model == "" {
		model = DefaultModel
	}
	if log == nil {
		log = logger.Nop()
	}
	return &implSummarizer{
		apiKeys:  keys,
		logger:   log,
		model:    model,
		generate: gen,
	}
}

func geminiGenerate(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return text.String(), nil
	}
	return "", errEmptyResponse
}

// Noop never summarizes and never names speakers.
type Noop struct{}

func (Noop) Summarize(context.Context, string) (string, bool) { return "", false }

func (Noop) IdentifySpeakers(context.Context, string, []string) (map[string]string, error) {
	return map[string]string{}, nil
}
