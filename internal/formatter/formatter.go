package formatter

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/transcript-flow/internal/diarize"
	"github.com/nguyentantai21042004/transcript-flow/internal/normalizer"
	"github.com/nguyentantai21042004/transcript-flow/internal/paragraph"
	"github.com/nguyentantai21042004/transcript-flow/internal/render"
	"github.com/nguyentantai21042004/transcript-flow/internal/section"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Validate checks every stage's configuration.
func (o Options) Validate() error {
	if err := o.Normalizer.Validate(); err != nil {
		return err
	}
	if err := o.Paragraph.Validate(); err != nil {
		return err
	}
	if !(o.SpeakerDuration > 0) {
		return fmt.Errorf("formatter: speaker duration must be positive, got %v", o.SpeakerDuration)
	}
	if !(o.SectionDuration > 0) {
		return fmt.Errorf("formatter: section duration must be positive, got %v", o.SectionDuration)
	}
	if err := o.Titles.Validate(); err != nil {
		return err
	}
	return o.Content.Validate()
}

func (f *implFormatter) Format(ctx context.Context, req Request) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	doc := Document{}
	var tokens []transcript.Token
	normalized := false
	normalize := func() []transcript.Token {
		if !normalized {
			tokens = f.normalize(ctx, req.Transcription, &doc)
			normalized = true
		}
		return tokens
	}

	paragraphs, err := f.speakerParagraphs(ctx, req, normalize)
	if err != nil {
		return Document{}, err
	}
	doc.Diarized = len(paragraphs) > 0
	if !doc.Diarized {
		paragraphs, err = paragraph.Group(normalize(), f.opts.Paragraph)
		if err != nil {
			return Document{}, fmt.Errorf("group paragraphs: %w", err)
		}
	}

	f.logger.Debug(ctx, "Grouped %d paragraphs (diarized: %t)", len(paragraphs), doc.Diarized)
	return f.finish(ctx, doc, paragraphs, req.Metadata)
}

// speakerParagraphs groups by speaker turn when the request carries usable
// speaker data. It returns no paragraphs when timing-based grouping should
// be used instead. Turns without text are matched to the normalized tokens.
func (f *implFormatter) speakerParagraphs(ctx context.Context, req Request, normalize func() []transcript.Token) ([]transcript.Paragraph, error) {
	if len(req.Speakers) == 0 {
		return nil, nil
	}

	segs := req.Speakers
	if !diarize.HasText(segs) {
		tokens := normalize()
		segs = diarize.Assign(tokens, req.Speakers)
		f.logger.Debug(ctx, "Assigned %d tokens to %d speaker turns", len(tokens), len(segs))
	}

	paragraphs, err := paragraph.GroupSpeakers(segs, req.Names, f.opts.SpeakerDuration)
	if err != nil {
		return nil, fmt.Errorf("group speakers: %w", err)
	}
	if len(paragraphs) == 0 {
		f.logger.Warn(ctx, "Speaker segments produced no text, falling back to timing-based paragraphs")
	}
	return paragraphs, nil
}

func (f *implFormatter) normalize(ctx context.Context, tr transcript.Transcription, doc *Document) []transcript.Token {
	res := normalizer.Normalize(tr, f.opts.Normalizer)
	doc.Stats = res.Stats

	if res.Stats.Resets > 0 {
		f.logger.Warn(ctx, "Timestamp reset detected %d time(s), discarded %d token(s)",
			res.Stats.Resets, res.Stats.DiscardedByReset)
	}
	if res.Stats.Dropped > 0 || res.Stats.Duplicates > 0 {
		f.logger.Debug(ctx, "Normalizer dropped %d malformed and %d duplicate token(s)",
			res.Stats.Dropped, res.Stats.Duplicates)
	}
	return res.Tokens
}

func (f *implFormatter) Reformat(ctx context.Context, fragments []transcript.Fragment, meta render.Metadata) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if len(fragments) == 0 {
		return Document{}, ErrNoFragments
	}

	paragraphs, err := paragraph.GroupFragments(fragments, f.opts.Paragraph)
	if err != nil {
		return Document{}, fmt.Errorf("group fragments: %w", err)
	}
	if len(paragraphs) == 0 {
		return Document{}, ErrNoFragments
	}

	meta.Lines = append(append([]string(nil), meta.Lines...),
		"**Duration:** "+render.FormatTimestamp(paragraphs[len(paragraphs)-1].End),
		fmt.Sprintf("**Paragraphs:** %d", len(paragraphs)),
	)

	f.logger.Info(ctx, "Reduced %d fragments to %d paragraphs", len(fragments), len(paragraphs))
	return f.finish(ctx, Document{}, paragraphs, meta)
}

func (f *implFormatter) finish(ctx context.Context, doc Document, paragraphs []transcript.Paragraph, meta render.Metadata) (Document, error) {
	sections, err := section.Group(paragraphs, f.opts.SectionDuration)
	if err != nil {
		return Document{}, fmt.Errorf("group sections: %w", err)
	}
	sections = section.Title(sections, f.opts.Titles)
	sections = section.DetectContentTypes(sections, f.opts.Content)
	if f.opts.AddSummaries && f.summarizer != nil {
		sections = section.AddSummaries(ctx, sections, f.summarizer)
	}

	opts := f.opts.Render
	opts.DiarizationAvailable = doc.Diarized

	doc.Paragraphs = paragraphs
	doc.Sections = sections
	doc.Metadata = meta
	doc.Markdown = render.Render(sections, meta, opts)
	return doc, nil
}
