package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Transcribe runs whisper.cpp with full JSON output, which carries
// per-token offsets, and converts the result.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string) (transcript.Transcription, error) {
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	t.logger.Info(ctx, "Starting transcription with %d threads: %s", t.cfg.Threads, audioPath)

	// -ojf: full JSON with token offsets
	// -ml 0 -mc 0: no segment length or context limit
	// -bo 5: best of 5
	args := []string{
		"-m", t.cfg.ModelPath,
		"-f", audioPath,
		"-ojf",
		"-l", t.cfg.Language,
		"-t", strconv.Itoa(t.cfg.Threads),
		"-ml", "0",
		"-mc", "0",
		"-bo", "5",
		"--output-file", outputPrefix,
	}
	if t.cfg.Prompt != "" {
		args = append(args, "--prompt", t.cfg.Prompt)
	}

	if _, err := t.executor.Execute(ctx, t.cfg.BinaryPath, args...); err != nil {
		return transcript.Transcription{}, fmt.Errorf("whisper transcribe: %w", err)
	}

	jsonPath := outputPrefix + ".json"
	defer os.Remove(jsonPath)

	f, err := os.Open(jsonPath)
	if err != nil {
		return transcript.Transcription{}, fmt.Errorf("open whisper output: %w", err)
	}
	defer f.Close()

	tr, err := parseWhisperJSON(f)
	if err != nil {
		return transcript.Transcription{}, err
	}

	t.logger.Info(ctx, "Transcription completed: %d segments", len(tr.Segments))
	return tr, nil
}

type whisperOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []whisperSegment `json:"transcription"`
}

type whisperSegment struct {
	Offsets whisperOffsets `json:"offsets"`
	Text    string         `json:"text"`
	Tokens  []whisperToken `json:"tokens"`
}

type whisperToken struct {
	Text    string         `json:"text"`
	Offsets whisperOffsets `json:"offsets"`
}

// whisperOffsets are milliseconds.
type whisperOffsets struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

func parseWhisperJSON(r io.Reader) (transcript.Transcription, error) {
	var out whisperOutput
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return transcript.Transcription{}, fmt.Errorf("decode whisper output: %w", err)
	}

	tr := transcript.Transcription{Language: out.Result.Language}
	var text []string
	for _, seg := range out.Transcription {
		body := strings.TrimSpace(seg.Text)
		if body == "" {
			continue
		}
		text = append(text, body)
		tr.Segments = append(tr.Segments, transcript.Segment{
			Text:  body,
			Start: transcript.At(ms(seg.Offsets.From)),
			End:   transcript.At(ms(seg.Offsets.To)),
			Words: joinTokens(seg.Tokens),
		})
		if end := ms(seg.Offsets.To); end > tr.Duration {
			tr.Duration = end
		}
	}
	tr.Text = strings.Join(text, " ")
	return tr, nil
}

// joinTokens merges subword tokens into words. A token that starts with a
// space opens a new word; special tokens like [_BEG_] are dropped.
func joinTokens(tokens []whisperToken) []transcript.Word {
	var words []transcript.Word
	for _, tok := range tokens {
		if isSpecial(tok.Text) {
			continue
		}
		piece := tok.Text
		if len(words) == 0 || strings.HasPrefix(piece, " ") {
			if strings.TrimSpace(piece) == "" {
				continue
			}
			words = append(words, transcript.Word{
				Text:  strings.TrimSpace(piece),
				Start: transcript.At(ms(tok.Offsets.From)),
				End:   transcript.At(ms(tok.Offsets.To)),
			})
			continue
		}
		last := &words[len(words)-1]
		last.Text += piece
		last.End = transcript.At(ms(tok.Offsets.To))
	}
	return words
}

func isSpecial(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "[_") && strings.HasSuffix(t, "]")
}

func ms(v int64) float64 {
	return float64(v) / 1000
}
