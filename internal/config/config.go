package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nguyentantai21042004/transcript-flow/internal/formatter"
	"github.com/nguyentantai21042004/transcript-flow/internal/normalizer"
	"github.com/nguyentantai21042004/transcript-flow/internal/paragraph"
	"github.com/nguyentantai21042004/transcript-flow/internal/render"
	"github.com/nguyentantai21042004/transcript-flow/internal/section"
	"github.com/nguyentantai21042004/transcript-flow/internal/summarizer"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcriber"
)

// EnvGeminiAPIKeys overrides gemini.api_keys with a comma separated list.
const EnvGeminiAPIKeys = "GEMINI_API_KEYS"

// Output formats written by the processor.
const (
	FormatMarkdown = "md"
	FormatDocx     = "docx"
	FormatHTML     = "html"
	FormatSRT      = "srt"
)

type Config struct {
	Paths       PathsConfig          `yaml:"paths"`
	Logging     LoggingConfig        `yaml:"logging"`
	Performance PerformanceConfig    `yaml:"performance"`
	Normalizer  NormalizerConfig     `yaml:"normalizer"`
	Paragraph   ParagraphConfig      `yaml:"paragraph"`
	Section     SectionConfig        `yaml:"section"`
	Render      RenderConfig         `yaml:"render"`
	Titles      section.TitleRules   `yaml:"titles"`
	Content     section.ContentRules `yaml:"content"`
	Speakers    SpeakersConfig       `yaml:"speakers"`
	Gemini      GeminiConfig         `yaml:"gemini"`
	Whisper     WhisperConfig        `yaml:"whisper"`
	Server      ServerConfig         `yaml:"server"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type NormalizerConfig struct {
	ResetThreshold float64 `yaml:"reset_threshold"`
}

type ParagraphConfig struct {
	Duration           float64 `yaml:"duration"`
	PauseThreshold     float64 `yaml:"pause_threshold"`
	MaxWords           int     `yaml:"max_words"`
	MinWords           int     `yaml:"min_words"`
	SentenceMinSeconds float64 `yaml:"sentence_min_seconds"`
	MinFragments       int     `yaml:"min_fragments"`
}

type SectionConfig struct {
	Duration float64 `yaml:"duration"`
}

type RenderConfig struct {
	Title             string   `yaml:"title"`
	GenerateTOC       bool     `yaml:"generate_toc"`
	MinimalTimestamps bool     `yaml:"minimal_timestamps"`
	ContentMarkers    bool     `yaml:"content_markers"`
	AddSummaries      bool     `yaml:"add_summaries"`
	Formats           []string `yaml:"formats"`
}

// SpeakersConfig controls diarized output. Identify asks Gemini for speaker
// names when Names does not cover every label.
type SpeakersConfig struct {
	MaxDuration float64           `yaml:"max_duration"`
	Names       map[string]string `yaml:"names"`
	Identify    bool              `yaml:"identify"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	Language   string `yaml:"language"`
	Threads    int    `yaml:"threads"`
	Prompt     string `yaml:"prompt"`
}

// ServerConfig configures the HTTP API. A non-empty APIKey enables bearer
// authentication on /api routes.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	APIKey string `yaml:"api_key"`
}

// Default returns a config with every default filled in.
func Default() *Config {
	pc := paragraph.DefaultConfig()
	cfg := &Config{
		Normalizer: NormalizerConfig{ResetThreshold: normalizer.DefaultConfig().ResetThreshold},
		Paragraph: ParagraphConfig{
			Duration:           pc.MaxSeconds,
			PauseThreshold:     pc.PauseThreshold,
			MaxWords:           pc.MaxWords,
			MinWords:           pc.MinWords,
			SentenceMinSeconds: pc.SentenceMinSeconds,
			MinFragments:       pc.MinFragments,
		},
		Section:  SectionConfig{Duration: section.DefaultDuration},
		Render:   RenderConfig{GenerateTOC: true},
		Titles:   section.DefaultTitleRules(),
		Content:  section.DefaultContentRules(),
		Speakers: SpeakersConfig{MaxDuration: paragraph.DefaultSpeakerDuration},
	}
	cfg.fillDefaults()
	return cfg
}

// Load reads a YAML config file over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		cfg.applyEnv()
		return cfg, nil
	}
	return cfg, err
}

func (c *Config) applyEnv() {
	raw := os.Getenv(EnvGeminiAPIKeys)
	if strings.TrimSpace(raw) == "" {
		return
	}
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	c.Gemini.APIKeys = keys
}

// Validate fills unset values with defaults and rejects invalid ones.
func (c *Config) Validate() error {
	c.fillDefaults()

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	for i, f := range c.Render.Formats {
		f = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(f), "."))
		switch f {
		case FormatMarkdown, FormatDocx, FormatHTML, FormatSRT:
			c.Render.Formats[i] = f
		default:
			return fmt.Errorf("render.formats: unsupported format %q", f)
		}
	}

	if err := c.FormatterOptions().Validate(); err != nil {
		return err
	}
	return nil
}

func (c *Config) fillDefaults() {
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent <= 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = summarizer.DefaultModel
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Render.Title == "" {
		c.Render.Title = render.DefaultTitle
	}

	if len(c.Render.Formats) == 0 {
		c.Render.Formats = []string{FormatMarkdown}
	}
}

// FormatterOptions maps the config onto the formatter's stage settings.
func (c *Config) FormatterOptions() formatter.Options {
	return formatter.Options{
		Normalizer: normalizer.Config{ResetThreshold: c.Normalizer.ResetThreshold},
		Paragraph: paragraph.Config{
			MaxSeconds:         c.Paragraph.Duration,
			PauseThreshold:     c.Paragraph.PauseThreshold,
			MaxWords:           c.Paragraph.MaxWords,
			MinWords:           c.Paragraph.MinWords,
			SentenceMinSeconds: c.Paragraph.SentenceMinSeconds,
			MinFragments:       c.Paragraph.MinFragments,
		},
		SpeakerDuration: c.Speakers.MaxDuration,
		SectionDuration: c.Section.Duration,
		Titles:          c.Titles,
		Content:         c.Content,
		Render: render.Options{
			GenerateTOC:       c.Render.GenerateTOC,
			MinimalTimestamps: c.Render.MinimalTimestamps,
			ContentMarkers:    c.Render.ContentMarkers,
		},
		AddSummaries: c.Render.AddSummaries,
	}
}

// TranscriberConfig returns the whisper.cpp settings.
func (c *Config) TranscriberConfig() transcriber.Config {
	return transcriber.Config{
		BinaryPath: c.Whisper.BinaryPath,
		ModelPath:  c.Whisper.ModelPath,
		Language:   c.Whisper.Language,
		Threads:    c.Whisper.Threads,
		Prompt:     c.Whisper.Prompt,
	}
}

// HasFormat reports whether format is among render.formats.
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Render.Formats {
		if f == format {
			return true
		}
	}
	return false
}
