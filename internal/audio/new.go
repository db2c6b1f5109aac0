package audio

import (
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/pkg/executor"
)

const (
	ffmpegBinary  = "ffmpeg"
	ffprobeBinary = "ffprobe"
)

type implAudio struct {
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Audio instance
func New(exec executor.Executor, log logger.Logger) Audio {
	if log == nil {
		log = logger.Nop()
	}
	return &implAudio{
		executor: exec,
		logger:   log,
	}
}
