// Package config provides centralized configuration and constants for the read-along editor.
package config

import (
	"runtime"
	"time"
)

// Waveform zoom
const (
	DefaultMinPxPerSec = 300  // initial zoom
	ZoomFactor         = 1.25 // per zoom-in/zoom-out click
	MinPxPerSec        = 5
	MaxPxPerSec        = 5000
	WaveformHeight     = 200
)

// Region interaction
const (
	EdgeScrollProportion = 0.05 // share of the visible width that triggers auto-scroll
	EdgeScrollSpeed      = 1.0  // px per edge-scroll tick
	EdgeScrollInterval   = 16 * time.Millisecond
	HandleWidth          = 6 // px, resize handle hit area
)

// Read-along documents
const (
	ReadAlongElement = "read-along"
	WordElement      = "w"
	TimePrecision    = 3        // decimals written on export
	MaxLinkDepth     = 4        // nested href documents followed on import
	MaxPayloadBytes  = 16 << 20 // per fetched resource
)

// HTTP client settings
const (
	HTTPTimeout             = 30 * time.Second
	HTTPMaxIdleConns        = 10
	HTTPMaxIdleConnsPerHost = 10
	HTTPIdleConnTimeout     = 90 * time.Second
)

// Audio settings
const (
	TranscodeSampleRate = 44100 // ffmpeg fallback output
	PeakBucketFrames    = 256   // frames folded into one peak at full resolution
	PlaybackBufferTime  = 100 * time.Millisecond
)

// Exec command timeouts (for os/exec calls)
const (
	ExecTimeoutFFmpeg = 10 * time.Minute // Audio transcoding
)

// MaxConcurrentTranscodes caps ffmpeg processes across all loads.
const MaxConcurrentTranscodes = 2

// DynamicWorkerCount returns the optimal worker count based on task type and CPU cores.
// This allows scaling workers based on system resources rather than fixed values.
func DynamicWorkerCount(taskType string) int {
	cpus := runtime.NumCPU()

	switch taskType {
	case "peaks":
		// CPU-bound folding of decoded samples
		return minInt(cpus, 8)
	case "fetch":
		// I/O-bound document and audio downloads
		return minInt(cpus*2, 8)
	default:
		return cpus
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
