// Package waveform decodes audio into memory, folds it into peaks for
// drawing and plays back time ranges.
package waveform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"readalong-editor/internal/config"
	"readalong-editor/internal/worker"
)

// ErrUnsupportedFormat is returned for audio none of the decoders accept.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Codec names a supported container.
type Codec string

const (
	CodecWAV    Codec = "wav"
	CodecMP3    Codec = "mp3"
	CodecFLAC   Codec = "flac"
	CodecVorbis Codec = "vorbis"
)

// Sniff guesses the codec from the leading bytes, then from the file
// extension of name. It returns "" when neither matches.
func Sniff(name string, data []byte) Codec {
	switch {
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return CodecWAV
	case bytes.HasPrefix(data, []byte("fLaC")):
		return CodecFLAC
	case bytes.HasPrefix(data, []byte("OggS")):
		return CodecVorbis
	case bytes.HasPrefix(data, []byte("ID3")):
		return CodecMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return CodecMP3
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav", ".wave":
		return CodecWAV
	case ".mp3":
		return CodecMP3
	case ".flac":
		return CodecFLAC
	case ".ogg", ".oga":
		return CodecVorbis
	}
	return ""
}

// Track is a decoded audio file held in memory.
type Track struct {
	Name   string
	Codec  Codec
	buffer *beep.Buffer
}

// Decode decodes data into a Track. Unknown formats fail with
// ErrUnsupportedFormat so the caller can try a transcoding fallback.
func Decode(name string, data []byte) (*Track, error) {
	codec := Sniff(name, data)

	var (
		stream beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch codec {
	case CodecWAV:
		stream, format, err = wav.Decode(bytes.NewReader(data))
	case CodecMP3:
		stream, format, err = mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	case CodecFLAC:
		stream, format, err = flac.Decode(bytes.NewReader(data))
	case CodecVorbis:
		stream, format, err = vorbis.Decode(io.NopCloser(bytes.NewReader(data)))
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s as %s: %w", name, codec, err)
	}
	defer stream.Close()

	return FromStreamer(name, codec, format, stream)
}

// FromStreamer buffers s completely.
func FromStreamer(name string, codec Codec, format beep.Format, s beep.Streamer) (*Track, error) {
	buf := beep.NewBuffer(format)
	buf.Append(s)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("decode %s: no audio frames", name)
	}
	return &Track{Name: name, Codec: codec, buffer: buf}, nil
}

// Format returns the decoded sample format.
func (t *Track) Format() beep.Format { return t.buffer.Format() }

// Frames returns the number of decoded frames.
func (t *Track) Frames() int { return t.buffer.Len() }

// Duration returns the track length in seconds.
func (t *Track) Duration() float64 {
	return float64(t.buffer.Len()) / float64(t.Format().SampleRate)
}

// frame converts seconds into a clamped frame index.
func (t *Track) frame(seconds float64) int {
	n := t.Format().SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if n < 0 {
		return 0
	}
	if n > t.buffer.Len() {
		return t.buffer.Len()
	}
	return n
}

// Streamer returns a streamer over [start, end) seconds. An end at or before
// start means "to the end of the track".
func (t *Track) Streamer(start, end float64) beep.StreamSeeker {
	from := t.frame(start)
	to := t.buffer.Len()
	if end > start {
		to = t.frame(end)
	}
	if to < from {
		to = from
	}
	return t.buffer.Streamer(from, to)
}

type peakRange struct {
	from, to int // frames
	buckets  int
}

// Peaks folds the track into n buckets holding the largest absolute sample
// of either channel, in [0, 1]. The folding is spread over the worker pool.
func (t *Track) Peaks(ctx context.Context, n int) ([]float64, error) {
	frames := t.buffer.Len()
	if n <= 0 || frames == 0 {
		return nil, nil
	}
	per := int(math.Ceil(float64(frames) / float64(n)))

	// one job per group of buckets keeps goroutine overhead low on long tracks
	const bucketsPerJob = 64
	var jobs []peakRange
	for b := 0; b < n; b += bucketsPerJob {
		count := bucketsPerJob
		if b+count > n {
			count = n - b
		}
		from := b * per
		to := minInt(from+count*per, frames)
		jobs = append(jobs, peakRange{from: minInt(from, frames), to: to, buckets: count})
	}

	chunks, err := worker.Process(ctx, jobs, config.DynamicWorkerCount("peaks"), func(job worker.Job[peakRange]) ([]float64, error) {
		return t.fold(job.Data, per), nil
	}, nil)
	if err != nil {
		return nil, err
	}

	peaks := make([]float64, 0, n)
	for _, c := range chunks {
		peaks = append(peaks, c...)
	}
	return peaks, nil
}

func (t *Track) fold(r peakRange, per int) []float64 {
	out := make([]float64, r.buckets)
	s := t.buffer.Streamer(r.from, r.to)
	samples := make([][2]float64, per)
	for i := 0; i < r.buckets; i++ {
		n, ok := s.Stream(samples)
		var peak float64
		for _, smp := range samples[:n] {
			peak = math.Max(peak, math.Max(math.Abs(smp[0]), math.Abs(smp[1])))
		}
		out[i] = math.Min(peak, 1)
		if !ok {
			break
		}
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
