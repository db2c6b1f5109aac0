package processor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/audio"
	"github.com/nguyentantai21042004/transcript-flow/internal/diarize"
	"github.com/nguyentantai21042004/transcript-flow/internal/formatter"
	"github.com/nguyentantai21042004/transcript-flow/internal/legacy"
	"github.com/nguyentantai21042004/transcript-flow/internal/render"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

const (
	diarizationSuffix = ".diarization.json"
	namesSuffix       = ".names.yaml"
)

type inputKind int

const (
	kindUnknown inputKind = iota
	kindTranscription
	kindAudio
	kindDocument
)

func (k inputKind) String() string {
	switch k {
	case kindTranscription:
		return "transcription"
	case kindAudio:
		return "audio"
	case kindDocument:
		return "reformat"
	default:
		return "unknown"
	}
}

func classify(path string) inputKind {
	if isSidecar(path) {
		return kindUnknown
	}
	switch {
	case strings.EqualFold(filepath.Ext(path), ".json"):
		return kindTranscription
	case audio.IsSupported(path):
		return kindAudio
	case legacy.IsSupported(path):
		return kindDocument
	default:
		return kindUnknown
	}
}

// IsInput reports whether path is a file the processor picks up on its own.
// Diarization and speaker-name sidecars are not inputs.
func IsInput(path string) bool {
	return classify(path) != kindUnknown
}

func isSidecar(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	return strings.HasSuffix(name, diarizationSuffix) ||
		strings.HasSuffix(name, namesSuffix) ||
		strings.HasSuffix(name, ".names.yml") ||
		strings.HasSuffix(name, ".names.json")
}

func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func (p *implProcessor) reformat(ctx context.Context, job Job, meta render.Metadata) (formatter.Document, error) {
	fragments, err := legacy.LoadFile(job.Input)
	if err != nil {
		return formatter.Document{}, fmt.Errorf("load transcript: %w", err)
	}
	p.logger.Info(ctx, "Found %d timestamped fragment(s)", len(fragments))

	doc, err := p.formatter.Reformat(ctx, fragments, meta)
	if err != nil {
		return formatter.Document{}, fmt.Errorf("reformat: %w", err)
	}
	return doc, nil
}

func (p *implProcessor) formatTranscription(ctx context.Context, job Job, meta render.Metadata) (formatter.Document, error) {
	f, err := os.Open(job.Input)
	if err != nil {
		return formatter.Document{}, fmt.Errorf("open transcription: %w", err)
	}
	defer f.Close()

	tr, err := transcript.Decode(f)
	if err != nil {
		return formatter.Document{}, err
	}
	return p.format(ctx, job, tr, meta)
}

func (p *implProcessor) formatAudio(ctx context.Context, job Job, meta render.Metadata) (formatter.Document, error) {
	if p.audio == nil || p.transcriber == nil {
		return formatter.Document{}, ErrNoTranscriber
	}
	if err := os.MkdirAll(p.cfg.Paths.Temp, 0755); err != nil {
		return formatter.Document{}, fmt.Errorf("create temp dir: %w", err)
	}

	wavPath, err := p.audio.Prepare(ctx, job.Input, p.cfg.Paths.Temp)
	if err != nil {
		return formatter.Document{}, fmt.Errorf("prepare audio: %w", err)
	}
	defer p.cleanupTempFile(ctx, wavPath)

	tr, err := p.transcriber.Transcribe(ctx, wavPath)
	if err != nil {
		return formatter.Document{}, fmt.Errorf("transcribe: %w", err)
	}
	if tr.Duration <= 0 {
		if d, err := p.audio.Probe(ctx, job.Input); err != nil {
			p.logger.Warn(ctx, "Failed to probe duration of %s: %v", job.Input, err)
		} else {
			tr.Duration = d
		}
	}
	return p.format(ctx, job, tr, meta)
}

func (p *implProcessor) format(ctx context.Context, job Job, tr transcript.Transcription, meta render.Metadata) (formatter.Document, error) {
	if tr.Duration > 0 {
		meta.Lines = append(meta.Lines, "**Duration:** "+render.FormatTimestamp(tr.Duration))
	}

	segs, err := p.loadSpeakers(ctx, job)
	if err != nil {
		return formatter.Document{}, err
	}
	names, err := p.speakerNames(ctx, job, segs, tr)
	if err != nil {
		return formatter.Document{}, err
	}

	doc, err := p.formatter.Format(ctx, formatter.Request{
		Transcription: tr,
		Speakers:      segs,
		Names:         names,
		Metadata:      meta,
	})
	if err != nil {
		return formatter.Document{}, fmt.Errorf("format: %w", err)
	}
	return doc, nil
}

// loadSpeakers reads the job's diarization file. A missing sidecar is not
// an error; a missing explicit file is.
func (p *implProcessor) loadSpeakers(ctx context.Context, job Job) ([]transcript.SpeakerSegment, error) {
	path, explicit := job.Diarization, job.Diarization != ""
	if !explicit {
		path = stem(job.Input) + diarizationSuffix
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
	}

	segs, err := diarize.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load diarization: %w", err)
	}
	p.logger.Info(ctx, "Loaded %d speaker segment(s) from %s", len(segs), filepath.Base(path))
	return segs, nil
}

// speakerNames merges configured names, the job's names file and, when
// enabled, names guessed by Gemini for labels still unnamed.
func (p *implProcessor) speakerNames(ctx context.Context, job Job, segs []transcript.SpeakerSegment, tr transcript.Transcription) (map[string]string, error) {
	names := map[string]string{}
	for k, v := range p.cfg.Speakers.Names {
		names[k] = v
	}
	if len(segs) == 0 {
		return names, nil
	}

	path, explicit := job.Names, job.Names != ""
	if !explicit {
		path = stem(job.Input) + namesSuffix
	}
	if _, err := os.Stat(path); err == nil || explicit {
		fromFile, err := diarize.LoadNames(path)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			names[k] = v
		}
	}

	if !p.cfg.Speakers.Identify {
		return names, nil
	}
	labels := diarize.Speakers(segs)
	var missing []string
	for _, l := range labels {
		if _, ok := names[l]; !ok {
			missing = append(missing, l)
		}
	}
	if len(missing) == 0 {
		return names, nil
	}

	guessed, err := p.summarizer.IdentifySpeakers(ctx, speakerExcerpt(segs, tr), labels)
	if err != nil {
		p.logger.Warn(ctx, "Speaker identification failed: %v", err)
		return names, nil
	}
	for _, l := range missing {
		if name, ok := guessed[l]; ok {
			names[l] = name
		}
	}
	return names, nil
}

// speakerExcerpt is the text sent for name identification: labelled turns
// when the segments carry text, otherwise the plain transcript.
func speakerExcerpt(segs []transcript.SpeakerSegment, tr transcript.Transcription) string {
	if diarize.HasText(segs) {
		var b strings.Builder
		for _, s := range segs {
			if t := strings.TrimSpace(s.Text); t != "" {
				fmt.Fprintf(&b, "%s: %s\n", s.Speaker, t)
			}
		}
		return b.String()
	}
	if strings.TrimSpace(tr.Text) != "" {
		return tr.Text
	}
	var words []string
	for _, seg := range tr.Segments {
		words = append(words, strings.TrimSpace(seg.Text))
	}
	for _, w := range tr.Words {
		words = append(words, strings.TrimSpace(w.Text))
	}
	return strings.Join(words, " ")
}
