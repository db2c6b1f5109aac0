package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

// settleDelay gives writers time to finish a new file before it is read.
const settleDelay = 500 * time.Millisecond

// New creates a new Watcher instance with concurrency control. A nil
// filter accepts every file.
func New(inputDir string, handler EventHandler, filter Filter, log logger.Logger, maxConcurrent int) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	if filter == nil {
		filter = func(string) bool { return true }
	}
	if log == nil {
		log = logger.Nop()
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		filter:        filter,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		settle:        settleDelay,
	}, nil
}
