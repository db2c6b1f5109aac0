package transcriber

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

const whisperFixture = `{
  "result": {"language": "en"},
  "transcription": [
    {
      "offsets": {"from": 0, "to": 2400},
      "text": " Welcome back everyone.",
      "tokens": [
        {"text": "[_BEG_]", "offsets": {"from": 0, "to": 0}},
        {"text": " Wel", "offsets": {"from": 0, "to": 300}},
        {"text": "come", "offsets": {"from": 300, "to": 600}},
        {"text": " back", "offsets": {"from": 600, "to": 1000}},
        {"text": " everyone", "offsets": {"from": 1000, "to": 2000}},
        {"text": ".", "offsets": {"from": 2000, "to": 2400}},
        {"text": "[_TT_120]", "offsets": {"from": 2400, "to": 2400}}
      ]
    },
    {"offsets": {"from": 2400, "to": 3000}, "text": "  ", "tokens": []},
    {
      "offsets": {"from": 3000, "to": 4500},
      "text": " Today, sleep.",
      "tokens": [
        {"text": " Today", "offsets": {"from": 3000, "to": 3600}},
        {"text": ",", "offsets": {"from": 3600, "to": 3700}},
        {"text": " sleep", "offsets": {"from": 3700, "to": 4300}},
        {"text": ".", "offsets": {"from": 4300, "to": 4500}}
      ]
    }
  ]
}`

type fakeExecutor struct {
	output string
	err    error
	args   []string
}

// Execute mimics whisper.cpp by writing the JSON next to --output-file.
func (f *fakeExecutor) Execute(_ context.Context, _ string, args ...string) (string, error) {
	f.args = args
	if f.err != nil {
		return "", f.err
	}
	for i, a := range args {
		if a == "--output-file" && i+1 < len(args) {
			if err := os.WriteFile(args[i+1]+".json", []byte(f.output), 0644); err != nil {
				return "", err
			}
		}
	}
	return "", nil
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, _ string, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{BinaryPath: "whisper-cli", ModelPath: "m.bin"}, false},
		{"no binary", Config{ModelPath: "m.bin"}, true},
		{"no model", Config{BinaryPath: "whisper-cli"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, &fakeExecutor{}, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTranscribe(t *testing.T) {
	dir := t.TempDir()
	audioPath := dir + "/episode_16k.wav"
	exec := &fakeExecutor{output: whisperFixture}

	tr, err := New(Config{BinaryPath: "whisper-cli", ModelPath: "m.bin", Prompt: "sleep, health"}, exec, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := tr.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	joined := strings.Join(exec.args, " ")
	for _, flag := range []string{"-ojf", "-l auto", "-t 4", "--prompt sleep, health", "--output-file " + dir + "/episode_16k"} {
		if !strings.Contains(joined, flag) {
			t.Errorf("args %q missing %q", joined, flag)
		}
	}

	if got.Language != "en" {
		t.Errorf("Language = %q, want %q", got.Language, "en")
	}
	if got.Text != "Welcome back everyone. Today, sleep." {
		t.Errorf("Text = %q", got.Text)
	}
	if got.Duration != 4.5 {
		t.Errorf("Duration = %v, want 4.5", got.Duration)
	}
	if len(got.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(got.Segments))
	}

	var words []string
	for _, w := range got.Segments[0].Words {
		words = append(words, w.Text)
	}
	if strings.Join(words, "|") != "Welcome|back|everyone." {
		t.Errorf("words = %v", words)
	}
	first := got.Segments[0].Words[0]
	if first.Start.Value != 0 || first.End.Value != 0.6 {
		t.Errorf("first word timing = %v-%v, want 0-0.6", first.Start.Value, first.End.Value)
	}
	last := got.Segments[1].Words[len(got.Segments[1].Words)-1]
	if last.Text != "sleep." || last.End.Value != 4.5 {
		t.Errorf("last word = %+v", last)
	}

	if _, err := os.Stat(dir + "/episode_16k.json"); !os.IsNotExist(err) {
		t.Error("whisper JSON output was not removed")
	}
}

func TestTranscribe_Errors(t *testing.T) {
	tests := []struct {
		name string
		exec *fakeExecutor
	}{
		{"whisper failed", &fakeExecutor{err: errors.New("exit status 1")}},
		{"bad json", &fakeExecutor{output: "{not json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := New(Config{BinaryPath: "w", ModelPath: "m"}, tt.exec, nil)
			if _, err := tr.Transcribe(context.Background(), t.TempDir()+"/a.wav"); err == nil {
				t.Error("expected error")
			}
		})
	}
}
