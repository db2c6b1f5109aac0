package processor

import (
	"github.com/nguyentantai21042004/transcript-flow/internal/audio"
	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/formatter"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/summarizer"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcriber"
)

type implProcessor struct {
	cfg         *config.Config
	formatter   formatter.Formatter
	summarizer  summarizer.Summarizer
	audio       audio.Audio
	transcriber transcriber.Transcriber
	logger      logger.Logger
}

// New creates a new Processor instance. media and tr may be nil when only
// transcription JSON and rendered transcripts are processed.
func New(cfg *config.Config, f formatter.Formatter, sum summarizer.Summarizer, media audio.Audio, tr transcriber.Transcriber, log logger.Logger) Processor {
	if sum == nil {
		sum = summarizer.Noop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &implProcessor{
		cfg:         cfg,
		formatter:   f,
		summarizer:  sum,
		audio:       media,
		transcriber: tr,
		logger:      log,
	}
}
