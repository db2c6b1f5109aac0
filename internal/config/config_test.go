package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Render.Formats = []string{"md", "pdf"} },
			wantErr: true,
		},
		{
			name:    "zero paragraph duration",
			mutate:  func(c *Config) { c.Paragraph.Duration = 0 },
			wantErr: true,
		},
		{
			name:    "negative section duration",
			mutate:  func(c *Config) { c.Section.Duration = -1 },
			wantErr: true,
		},
		{
			name:    "negative reset threshold",
			mutate:  func(c *Config) { c.Normalizer.ResetThreshold = -2 },
			wantErr: true,
		},
		{
			name:    "bad sponsor pattern",
			mutate:  func(c *Config) { c.Titles.SponsorPatterns = []string{"(unclosed"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := &Config{
		Paragraph: ParagraphConfig{Duration: 30},
		Section:   SectionConfig{Duration: 300},
		Speakers:  SpeakersConfig{MaxDuration: 30},
		Render:    RenderConfig{Formats: []string{".DOCX", " srt "}},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Paths.Archived != "data/archived" {
		t.Errorf("Archived = %q, want %q", cfg.Paths.Archived, "data/archived")
	}
	if cfg.Performance.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %d, want 2", cfg.Performance.MaxConcurrent)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.Gemini.Model)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if !cfg.HasFormat(FormatDocx) || !cfg.HasFormat(FormatSRT) || cfg.HasFormat(FormatMarkdown) {
		t.Errorf("Formats = %v", cfg.Render.Formats)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Paths.Input != "data/input" || cfg.Logging.Format != "text" {
		t.Errorf("expected filled defaults, got paths %+v logging %+v", cfg.Paths, cfg.Logging)
	}
	if !cfg.HasFormat(FormatMarkdown) {
		t.Errorf("Formats = %v, want [md]", cfg.Render.Formats)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvGeminiAPIKeys, "")
	path := writeConfig(t, `
paths:
  input: "in"
  output: "out"

paragraph:
  duration: 45
  pause_threshold: 3

section:
  duration: 600

render:
  generate_toc: false
  content_markers: true
  formats: [md, html]

content:
  markers:
    research: "R"

speakers:
  names:
    SPEAKER_00: Alice

gemini:
  api_keys: ["k1"]

whisper:
  model_path: "models/test.bin"
  binary_path: "./whisper-cli"
  prompt: "test"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Paths.Input != "in" {
		t.Errorf("Input = %v, want %v", cfg.Paths.Input, "in")
	}
	if cfg.Paths.Temp != "data/temp" {
		t.Errorf("Temp = %v, want default", cfg.Paths.Temp)
	}

	opts := cfg.FormatterOptions()
	if opts.Paragraph.MaxSeconds != 45 || opts.Paragraph.PauseThreshold != 3 {
		t.Errorf("paragraph options = %+v", opts.Paragraph)
	}
	if opts.Paragraph.MinWords != 12 {
		t.Errorf("MinWords = %d, want default 12", opts.Paragraph.MinWords)
	}
	if opts.SectionDuration != 600 {
		t.Errorf("SectionDuration = %v, want 600", opts.SectionDuration)
	}
	if opts.Render.GenerateTOC || !opts.Render.ContentMarkers {
		t.Errorf("render options = %+v", opts.Render)
	}
	if got := opts.Content.Marker(transcript.TypeResearch); got != "R" {
		t.Errorf("research marker = %q, want %q", got, "R")
	}
	if got := opts.Content.Marker(transcript.TypeIntro); got != "🎙️" {
		t.Errorf("intro marker = %q, want default", got)
	}
	if len(opts.Titles.SponsorKeywords) == 0 {
		t.Error("sponsor keywords should keep their defaults")
	}
	if cfg.Speakers.Names["SPEAKER_00"] != "Alice" {
		t.Errorf("Names = %v", cfg.Speakers.Names)
	}

	tc := cfg.TranscriberConfig()
	if tc.ModelPath != "models/test.bin" || tc.Threads != 8 || tc.Language != "en" {
		t.Errorf("transcriber config = %+v", tc)
	}
}

func TestLoad_EnvKeysOverride(t *testing.T) {
	t.Setenv(EnvGeminiAPIKeys, " a, ,b ")
	path := writeConfig(t, "gemini:\n  api_keys: [file]\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Gemini.APIKeys) != 2 || cfg.Gemini.APIKeys[0] != "a" || cfg.Gemini.APIKeys[1] != "b" {
		t.Errorf("APIKeys = %v, want [a b]", cfg.Gemini.APIKeys)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "paths: [unclosed"},
		{"bad value", "paragraph:\n  duration: -5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() should return error")
			}
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv(EnvGeminiAPIKeys, "k")
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if cfg.Section.Duration != 300 {
		t.Errorf("Section.Duration = %v, want 300", cfg.Section.Duration)
	}
	if len(cfg.Gemini.APIKeys) != 1 {
		t.Errorf("APIKeys = %v", cfg.Gemini.APIKeys)
	}
}
