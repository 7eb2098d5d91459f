package waveform

import (
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"readalong-editor/internal/config"
	"readalong-editor/internal/logger"
)

// Output is where a Player sends audio.
type Output interface {
	// Init prepares the device for rate and returns the rate it runs at.
	Init(rate beep.SampleRate) (beep.SampleRate, error)
	Play(s beep.Streamer)
	Clear()
}

// speakerOutput drives the system audio device. The device is opened once
// at the rate of the first track; later tracks are resampled to it.
type speakerOutput struct {
	once sync.Once
	rate beep.SampleRate
	err  error
}

func (o *speakerOutput) Init(rate beep.SampleRate) (beep.SampleRate, error) {
	o.once.Do(func() {
		o.rate = rate
		o.err = speaker.Init(rate, rate.N(config.PlaybackBufferTime))
	})
	return o.rate, o.err
}

func (o *speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (o *speakerOutput) Clear()               { speaker.Clear() }

// Player plays ranges of the current track.
type Player struct {
	mu    sync.Mutex
	out   Output
	track *Track
	log   *logger.Logger

	// written from the audio goroutine
	playing atomic.Bool
	played  atomic.Int64 // frames of the current range already output
	offset  atomic.Int64 // first frame of the current range
}

// NewPlayer returns a player using the system speaker.
func NewPlayer() *Player {
	return NewPlayerWithOutput(&speakerOutput{})
}

// NewPlayerWithOutput returns a player sending audio to out.
func NewPlayerWithOutput(out Output) *Player {
	return &Player{out: out, log: logger.Named("player")}
}

// SetTrack stops playback and switches to t.
func (p *Player) SetTrack(t *Track) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.track = t
	p.offset.Store(0)
	p.played.Store(0)
}

// Track returns the current track, or nil.
func (p *Player) Track() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track
}

// PlayRange plays [start, end) seconds of the current track, replacing
// whatever was playing.
func (p *Player) PlayRange(start, end float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.track == nil {
		return
	}

	trackRate := p.track.Format().SampleRate
	rate, err := p.out.Init(trackRate)
	if err != nil {
		p.log.Error("audio output unavailable: %v", err)
		return
	}
	p.stopLocked()

	src := &countingStreamer{Streamer: p.track.Streamer(start, end), played: &p.played}
	p.offset.Store(int64(p.track.frame(start)))
	p.played.Store(0)

	var s beep.Streamer = src
	if rate != trackRate {
		s = beep.Resample(4, trackRate, rate, s)
	}
	p.playing.Store(true)
	p.out.Play(beep.Seq(s, beep.Callback(func() { p.playing.Store(false) })))
}

// Stop halts playback.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Rewind stops playback and moves the position back to the start.
func (p *Player) Rewind() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.offset.Store(0)
	p.played.Store(0)
}

func (p *Player) stopLocked() {
	if p.playing.Swap(false) {
		p.out.Clear()
	}
}

// Playing reports whether a range is being played.
func (p *Player) Playing() bool { return p.playing.Load() }

// Position returns the playback position in seconds.
func (p *Player) Position() float64 {
	p.mu.Lock()
	t := p.track
	p.mu.Unlock()
	if t == nil {
		return 0
	}
	frames := p.offset.Load() + p.played.Load()
	return float64(frames) / float64(t.Format().SampleRate)
}

// countingStreamer records how many frames went through it.
type countingStreamer struct {
	beep.Streamer
	played *atomic.Int64
}

func (c *countingStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := c.Streamer.Stream(samples)
	c.played.Add(int64(n))
	return n, ok
}
