package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/nguyentantai21042004/transcript-flow/internal/formatter"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/render"
)

// Process handles one file picked up from the input directory. Each call
// gets its own run id in the log context.
func (p *implProcessor) Process(ctx context.Context, path string) error {
	ctx = logger.WithRunID(ctx, xid.New().String())
	_, err := p.Run(ctx, Job{Input: path, Archive: true})
	return err
}

// ProcessAll runs Process over every input file, at most
// performance.max_concurrent at a time. Failures do not stop the batch.
func (p *implProcessor) ProcessAll(ctx context.Context) error {
	entries, err := os.ReadDir(p.cfg.Paths.Input)
	if err != nil {
		return fmt.Errorf("read input dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && IsInput(e.Name()) {
			files = append(files, filepath.Join(p.cfg.Paths.Input, e.Name()))
		}
	}
	p.logger.Info(ctx, "Found %d input file(s) in %s", len(files), p.cfg.Paths.Input)

	sem := newSemaphore(p.cfg.Performance.MaxConcurrent)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	addErr := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for _, f := range files {
		if err := sem.acquire(ctx); err != nil {
			addErr(err)
			break
		}
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.release()

			if err := p.Process(ctx, path); err != nil {
				p.logger.Error(ctx, "Failed to process %s: %v", path, err)
				addErr(fmt.Errorf("%s: %w", filepath.Base(path), err))
			}
		}(f)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Run builds the document for one input and writes every configured format.
func (p *implProcessor) Run(ctx context.Context, job Job) (Result, error) {
	startTime := time.Now()

	kind := classify(job.Input)
	if kind == kindUnknown {
		return Result{}, fmt.Errorf("%s: %w", filepath.Base(job.Input), ErrUnsupported)
	}
	targets, err := p.targets(job)
	if err != nil {
		return Result{}, err
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting %s: %s", kind, job.Input)
	p.logger.Info(ctx, "========================================")

	meta := render.Metadata{Title: p.cfg.Render.Title, Source: filepath.Base(job.Input)}

	var doc formatter.Document
	switch kind {
	case kindDocument:
		doc, err = p.reformat(ctx, job, meta)
	case kindTranscription:
		doc, err = p.formatTranscription(ctx, job, meta)
	case kindAudio:
		doc, err = p.formatAudio(ctx, job, meta)
	}
	if err != nil {
		return Result{}, err
	}

	outputs, err := p.writeOutputs(ctx, targets, doc)
	if err != nil {
		return Result{}, fmt.Errorf("write outputs: %w", err)
	}

	if job.Archive {
		p.archive(ctx, job)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed: %d section(s), %d paragraph(s)", len(doc.Sections), len(doc.Paragraphs))
	for _, o := range outputs {
		p.logger.Info(ctx, "Output: %s", o)
	}
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return Result{Outputs: outputs, Document: doc}, nil
}
