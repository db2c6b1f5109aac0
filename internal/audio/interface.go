package audio

import "context"

// Audio wraps ffmpeg and ffprobe.
type Audio interface {
	// Prepare converts any audio or video file into the 16kHz mono WAV that
	// whisper.cpp expects and returns the path of the new file.
	Prepare(ctx context.Context, inputPath, tempDir string) (string, error)
	// Probe returns the media duration in seconds.
	Probe(ctx context.Context, path string) (float64, error)
}
