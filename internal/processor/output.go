package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/transcript-flow/internal/config"
	"github.com/nguyentantai21042004/transcript-flow/internal/export"
	"github.com/nguyentantai21042004/transcript-flow/internal/formatter"
	"github.com/nguyentantai21042004/transcript-flow/internal/render"
)

type target struct {
	format string
	path   string
}

// targets lists the files a job writes. Markdown is always written when
// the job names an output path.
func (p *implProcessor) targets(job Job) ([]target, error) {
	output := job.Output
	if output == "" {
		output = filepath.Join(p.cfg.Paths.Output, filepath.Base(stem(job.Input))+".md")
	}
	base := stem(output)

	var out []target
	if job.Output != "" || p.cfg.HasFormat(config.FormatMarkdown) {
		out = append(out, target{format: config.FormatMarkdown, path: output})
	}
	for _, f := range []string{config.FormatDocx, config.FormatHTML, config.FormatSRT} {
		if p.cfg.HasFormat(f) {
			out = append(out, target{format: f, path: base + "." + f})
		}
	}

	in, err := filepath.Abs(job.Input)
	if err != nil {
		return nil, fmt.Errorf("resolve input path: %w", err)
	}
	for _, t := range out {
		if abs, err := filepath.Abs(t.path); err == nil && abs == in {
			return nil, fmt.Errorf("%s: %w", t.path, ErrWouldOverwrite)
		}
	}
	return out, nil
}

func (p *implProcessor) writeOutputs(ctx context.Context, targets []target, doc formatter.Document) ([]string, error) {
	title := doc.Metadata.Title
	if title == "" {
		title = render.DefaultTitle
	}
	opts := p.cfg.FormatterOptions().Render
	opts.DiarizationAvailable = doc.Diarized

	var written []string
	for _, t := range targets {
		if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
			return written, fmt.Errorf("create output dir: %w", err)
		}

		var err error
		switch t.format {
		case config.FormatMarkdown:
			err = os.WriteFile(t.path, []byte(doc.Markdown), 0644)
		case config.FormatDocx:
			err = export.Docx(doc.Sections, doc.Metadata, opts, t.path)
		case config.FormatHTML:
			err = writeFile(t.path, func(w io.Writer) error { return export.HTML(doc.Markdown, title, w) })
		case config.FormatSRT:
			err = writeFile(t.path, func(w io.Writer) error { return export.SRT(doc.Paragraphs, w) })
		}
		if err != nil {
			return written, fmt.Errorf("write %s: %w", t.format, err)
		}

		p.logger.Debug(ctx, "Wrote %s", t.path)
		written = append(written, t.path)
	}
	return written, nil
}

func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
