package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// archive moves a processed input and its sidecars out of the input folder.
// Failures are logged, not returned: the outputs already exist.
func (p *implProcessor) archive(ctx context.Context, job Job) {
	files := []string{job.Input}
	for _, sidecar := range []string{stem(job.Input) + diarizationSuffix, stem(job.Input) + namesSuffix} {
		if _, err := os.Stat(sidecar); err == nil {
			files = append(files, sidecar)
		}
	}

	for _, f := range files {
		if err := p.moveToArchived(ctx, f); err != nil {
			p.logger.Warn(ctx, "Failed to move %s to archived folder: %v", f, err)
		}
	}
}

// moveToArchived moves a file into the archived folder, copying when a
// rename is not possible.
func (p *implProcessor) moveToArchived(ctx context.Context, path string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}
	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(path))

	p.logger.Info(ctx, "Archiving: %s -> %s", path, destPath)

	if err := os.Rename(path, destPath); err == nil {
		return nil
	}
	if err := copyFile(path, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return os.Remove(path)
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}
