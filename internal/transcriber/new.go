package transcriber

import (
	"fmt"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/pkg/executor"
)

// Config points at a whisper.cpp build and model.
type Config struct {
	BinaryPath string
	ModelPath  string
	Language   string
	Threads    int
	Prompt     string
}

type implTranscriber struct {
	cfg      Config
	executor executor.Executor
	logger   logger.Logger
}

// New creates a whisper.cpp backed Transcriber.
func New(cfg Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	if cfg.BinaryPath == "" {
		return nil, fmt.Errorf("transcriber: whisper binary path is required")
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("transcriber: whisper model path is required")
	}
	if cfg.Language == "" {
		cfg.Language = "auto"
	}
	if cfg.Threads <= 0 {
		cfg.Threads = 4
	}
	if log == nil {
		log = logger.Nop()
	}
	return &implTranscriber{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}, nil
}
