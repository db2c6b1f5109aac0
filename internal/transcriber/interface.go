package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Transcriber turns an audio file into a timed transcription.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (transcript.Transcription, error)
}
