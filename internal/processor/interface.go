package processor

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/transcript-flow/internal/formatter"
)

var (
	// ErrUnsupported is returned for files that are neither transcriptions,
	// audio nor rendered transcripts.
	ErrUnsupported = errors.New("unsupported input file")
	// ErrWouldOverwrite is returned when the output path is the input path.
	ErrWouldOverwrite = errors.New("output would overwrite the input file")
	// ErrNoTranscriber is returned for audio input when whisper is not configured.
	ErrNoTranscriber = errors.New("audio input needs a configured transcriber")
)

// Processor turns input files into rendered transcript documents.
type Processor interface {
	// Process handles one file from the input directory and archives it.
	Process(ctx context.Context, path string) error
	// ProcessAll handles every input file currently in the input directory.
	ProcessAll(ctx context.Context) error
	// Run handles one job without archiving unless the job asks for it.
	Run(ctx context.Context, job Job) (Result, error)
}

// Job is one input file plus optional overrides.
type Job struct {
	Input string
	// Output is the markdown path. Other formats are written beside it.
	// Empty means <paths.output>/<input stem>.md.
	Output string
	// Diarization and Names default to <stem>.diarization.json and
	// <stem>.names.yaml next to the input.
	Diarization string
	Names       string
	Archive     bool
}

// Result lists what Run wrote.
type Result struct {
	Outputs  []string
	Document formatter.Document
}
