package formatter

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/transcript-flow/internal/normalizer"
	"github.com/nguyentantai21042004/transcript-flow/internal/render"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// ErrNoFragments is returned by Reformat when the input has no
// timestamped fragments.
var ErrNoFragments = errors.New("no timestamped fragments found")

// Formatter turns transcription results into rendered documents.
type Formatter interface {
	// Format builds a document from a transcription, using speaker segments
	// when the request carries them.
	Format(ctx context.Context, req Request) (Document, error)
	// Reformat rebuilds a document from an already rendered, fragmented
	// transcript.
	Reformat(ctx context.Context, fragments []transcript.Fragment, meta render.Metadata) (Document, error)
}

// Request is one document-generation call.
type Request struct {
	Transcription transcript.Transcription
	// Speakers are diarized segments or bare turns. Turns without text are
	// matched to normalized tokens by midpoint.
	Speakers []transcript.SpeakerSegment
	Names    map[string]string
	Metadata render.Metadata
}

// Document is a rendered transcript with the structure behind it.
type Document struct {
	Markdown   string
	Sections   []transcript.Section
	Paragraphs []transcript.Paragraph
	Diarized   bool
	Stats      normalizer.Stats
	// Metadata is the header actually rendered, including lines the
	// formatter added.
	Metadata render.Metadata
}
