package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/api"
	"github.com/nguyentantai21042004/transcript-flow/internal/audio"
	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/formatter"
	"github.com/nguyentantai21042004/transcript-flow/internal/legacy"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/processor"
	"github.com/nguyentantai21042004/transcript-flow/internal/summarizer"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcriber"
	"github.com/nguyentantai21042004/transcript-flow/internal/watcher"
	"github.com/nguyentantai21042004/transcript-flow/pkg/executor"
)

const usage = `Usage: transcript [-config config.yaml] <command> [flags]

Commands:
  format    Format transcription JSON or audio files into documents
  reformat  Rebuild an already rendered transcript with longer paragraphs
  batch     Process every file in the input folder once
  watch     Watch the input folder and process new files
  serve     Run the HTTP API
`

func main() {
	global := flag.NewFlagSet("transcript", flag.ExitOnError)
	configPath := global.String("config", "config.yaml", "path to config file (defaults apply when missing)")
	global.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		global.PrintDefaults()
	}
	global.Parse(os.Args[1:])

	args := global.Args()
	if len(args) == 0 {
		global.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "format":
		err = runFormat(ctx, cfg, args[1:])
	case "reformat":
		err = runReformat(ctx, cfg, args[1:])
	case "batch":
		err = runBatch(ctx, cfg)
	case "watch":
		err = runWatch(ctx, cfg)
	case "serve":
		err = runServe(ctx, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		global.Usage()
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
}

// newProcessor wires the processor and its dependencies. Audio input is
// only available when whisper paths are configured.
func newProcessor(cfg *config.Config, log logger.Logger) (processor.Processor, error) {
	sum := summarizer.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)
	f, err := formatter.New(cfg.FormatterOptions(), sum, log)
	if err != nil {
		return nil, fmt.Errorf("create formatter: %w", err)
	}

	exec := executor.New()
	var tr transcriber.Transcriber
	if cfg.Whisper.BinaryPath != "" && cfg.Whisper.ModelPath != "" {
		if tr, err = transcriber.New(cfg.TranscriberConfig(), exec, log); err != nil {
			return nil, err
		}
	}

	return processor.New(cfg, f, sum, audio.New(exec, log), tr, log), nil
}

func runFormat(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("format", flag.ExitOnError)
	output := fs.String("o", "", "markdown output path (single input only)")
	diarization := fs.String("diarization", "", "speaker segments JSON")
	names := fs.String("names", "", "speaker names YAML or JSON")
	toc := fs.Bool("toc", cfg.Render.GenerateTOC, "generate a table of contents")
	minimal := fs.Bool("minimal", cfg.Render.MinimalTimestamps, "omit per-paragraph timestamps")
	markers := fs.Bool("markers", cfg.Render.ContentMarkers, "show content-type markers in headings")
	summaries := fs.Bool("summaries", cfg.Render.AddSummaries, "add Gemini section summaries")
	identify := fs.Bool("identify", cfg.Speakers.Identify, "ask Gemini for speaker names")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: transcript format [flags] files...")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	files := fs.Args()
	if len(files) == 0 {
		fs.Usage()
		return fmt.Errorf("no input files")
	}
	if len(files) > 1 && (*output != "" || *diarization != "" || *names != "") {
		return fmt.Errorf("-o, -diarization and -names need a single input file")
	}

	cfg.Render.GenerateTOC = *toc
	cfg.Render.MinimalTimestamps = *minimal
	cfg.Render.ContentMarkers = *markers
	cfg.Render.AddSummaries = *summaries
	cfg.Speakers.Identify = *identify

	log := newLogger(cfg)
	proc, err := newProcessor(cfg, log)
	if err != nil {
		return err
	}

	var errs []error
	for _, file := range files {
		res, err := proc.Run(ctx, processor.Job{
			Input:       file,
			Output:      *output,
			Diarization: *diarization,
			Names:       *names,
		})
		if err != nil {
			log.Error(ctx, "Failed to format %s: %v", file, err)
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
			continue
		}
		for _, o := range res.Outputs {
			fmt.Println(o)
		}
	}
	return errors.Join(errs...)
}

func runReformat(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("reformat", flag.ExitOnError)
	paragraphDuration := fs.Float64("paragraph-duration", cfg.Paragraph.Duration, "target paragraph length in seconds")
	sectionDuration := fs.Float64("section-duration", cfg.Section.Duration, "section length in seconds")
	toc := fs.Bool("toc", cfg.Render.GenerateTOC, "generate a table of contents")
	markers := fs.Bool("markers", cfg.Render.ContentMarkers, "show content-type markers in headings")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: transcript reformat [flags] input output")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("reformat needs an input and an output path")
	}
	input, output := fs.Arg(0), fs.Arg(1)
	if !legacy.IsSupported(input) {
		return fmt.Errorf("%s: not a rendered transcript document", input)
	}

	cfg.Paragraph.Duration = *paragraphDuration
	cfg.Section.Duration = *sectionDuration
	cfg.Render.GenerateTOC = *toc
	cfg.Render.ContentMarkers = *markers
	if err := cfg.Validate(); err != nil {
		return err
	}

	proc, err := newProcessor(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	res, err := proc.Run(ctx, processor.Job{Input: input, Output: output})
	if err != nil {
		return err
	}
	for _, o := range res.Outputs {
		fmt.Println(o)
	}
	return nil
}

func runBatch(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg)
	if err := ensureDirectories(cfg); err != nil {
		return err
	}
	proc, err := newProcessor(cfg, log)
	if err != nil {
		return err
	}
	return proc.ProcessAll(ctx)
}

func runWatch(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Transcript Pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Max Concurrent Processing: %d", cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		return err
	}
	proc, err := newProcessor(cfg, log)
	if err != nil {
		return err
	}

	// Files dropped in while the pipeline was down.
	if err := proc.ProcessAll(ctx); err != nil {
		log.Warn(ctx, "Some pending files failed: %v", err)
	}

	w, err := watcher.New(cfg.Paths.Input, proc.Process, processor.IsInput, log, cfg.Performance.MaxConcurrent)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	log.Info(ctx, "Output: %s (%v)", cfg.Paths.Output, cfg.Render.Formats)
	log.Info(ctx, "Press Ctrl+C to stop")

	err = w.Start(ctx)
	log.Info(ctx, "Transcript Pipeline stopped")
	return err
}

func runServe(ctx context.Context, cfg *config.Config) error {
	log := newLogger(cfg)
	sum := summarizer.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)

	handler, err := api.NewServer(cfg.FormatterOptions(), sum, log, cfg.Server.APIKey)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info(ctx, "HTTP API listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
