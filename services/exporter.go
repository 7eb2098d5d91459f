package services

import (
	"fmt"
	"os"
	"path/filepath"

	fetch "readalong-editor/internal/http"
	"readalong-editor/internal/logger"
	"readalong-editor/internal/readalong"
	"readalong-editor/internal/regions"
)

// TimingsFromRegions collects the span and text of every region, keyed by
// region ID, which is the word ID it was imported from.
func TimingsFromRegions(list []*regions.Region) readalong.Timings {
	out := make(readalong.Timings, len(list))
	for _, r := range list {
		out[r.ID()] = readalong.Timing{Start: r.Start(), End: r.End(), Text: r.Text()}
	}
	return out
}

// Exporter writes exported documents to disk.
type Exporter struct {
	// OutputDirectory overrides where files go; empty means next to the
	// source document, or the working directory for remote sources.
	OutputDirectory string

	log *logger.Logger
}

func NewExporter(outputDir string) *Exporter {
	return &Exporter{OutputDirectory: outputDir, log: logger.Named("export")}
}

// Path returns where out, exported from doc, will be written.
func (x *Exporter) Path(doc *readalong.Document, out *readalong.Output) string {
	dir := x.OutputDirectory
	if dir == "" {
		dir = sourceDir(doc.Ref)
	}
	name := filepath.Base(out.Name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "read-along.html"
	}
	return filepath.Join(dir, name)
}

// sourceDir returns the directory of a local file reference, or "".
func sourceDir(ref string) string {
	if ref == "" || fetch.IsDataURI(ref) {
		return ""
	}
	loc := fetch.Resolve("", ref)
	if _, err := os.Stat(loc); err != nil {
		return ""
	}
	return filepath.Dir(loc)
}

// Write saves out through a temporary file in the target directory so a
// failed write never truncates an existing document.
func (x *Exporter) Write(doc *readalong.Document, out *readalong.Output) (string, error) {
	path := x.Path(doc, out)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".readalong-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}

	x.log.Info("saved %s (%d bytes)", path, len(out.Data))
	return path, nil
}
