package services

import (
	"fmt"
	"os"

	"readalong-editor/internal/media"
	"readalong-editor/models"
)

// Dependency names reported by CheckDependencies, in display order.
var DependencyOrder = []string{"ffmpeg", "output-directory"}

// CheckDependencies reports, per dependency, nil when it is usable. FFmpeg
// is optional: without it only the built-in audio formats load.
func CheckDependencies(cfg *models.Config) map[string]error {
	results := make(map[string]error)

	results["ffmpeg"] = ffmpegService(cfg).CheckInstalled()

	if dir := cfg.OutputDirectory; dir != "" {
		info, err := os.Stat(dir)
		switch {
		case err != nil:
			results["output-directory"] = err
		case !info.IsDir():
			results["output-directory"] = fmt.Errorf("%s is not a directory", dir)
		default:
			results["output-directory"] = nil
		}
	}
	return results
}

// ffmpegService returns the configured ffmpeg, or the one found on the
// usual install paths.
func ffmpegService(cfg *models.Config) *media.FFmpegService {
	path := cfg.FFmpegPath
	if path == "" {
		path = findExecutable("ffmpeg")
	}
	return media.NewFFmpegServiceWithPath(path)
}
