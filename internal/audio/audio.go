package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// SupportedExtensions are the media files ffmpeg is asked to decode.
var SupportedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".aac":  true,
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".m4v":  true,
}

// IsSupported reports whether path looks like an audio or video file.
func IsSupported(path string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(path))]
}

func (a *implAudio) Prepare(ctx context.Context, inputPath, tempDir string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	if tempDir == "" {
		tempDir = filepath.Dir(inputPath)
	}
	audioPath := filepath.Join(tempDir, stem+"_16k.wav")

	a.logger.Info(ctx, "Converting audio: %s", inputPath)

	// -vn: drop any video stream
	// -ar 16000 -ac 1: 16kHz mono
	// -c:a pcm_s16le: 16-bit PCM
	args := []string{
		"-i", inputPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}

	if _, err := a.executor.Execute(ctx, ffmpegBinary, args...); err != nil {
		return "", fmt.Errorf("ffmpeg convert audio: %w", err)
	}

	a.logger.Debug(ctx, "Audio ready: %s", audioPath)
	return audioPath, nil
}

func (a *implAudio) Probe(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	out, err := a.executor.Execute(ctx, ffprobeBinary, args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(out), err)
	}
	return duration, nil
}
