package services

import (
	"context"
	"errors"
	"fmt"
	"mime"

	"golang.org/x/sync/errgroup"

	fetch "readalong-editor/internal/http"
	"readalong-editor/internal/logger"
	"readalong-editor/internal/readalong"
	"readalong-editor/internal/waveform"
	"readalong-editor/models"
)

// Transcoder converts audio the built-in decoders reject into WAV.
type Transcoder interface {
	TranscodeToWAV(ctx context.Context, name string, data []byte) ([]byte, error)
}

// Loaded is the outcome of loading a read-along document. A failed audio
// or link fetch only aborts its own part: the matching error is set and
// the rest of the result is still usable.
type Loaded struct {
	Document *readalong.Document
	Words    []readalong.Word
	Track    *waveform.Track // nil when no audio was named or it failed

	AudioErr error
	LinkErr  error
}

// Loader reads documents and audio from files, URLs and data URIs.
type Loader struct {
	fetcher    readalong.Fetcher
	resolver   *readalong.Resolver
	transcoder Transcoder
	precision  int
	log        *logger.Logger
}

// NewLoader builds a loader from the settings. A nil transcoder disables
// the ffmpeg fallback.
func NewLoader(cfg *models.Config, f readalong.Fetcher, t Transcoder) *Loader {
	return &Loader{
		fetcher:    f,
		resolver:   readalong.NewResolver(f, cfg.MaxLinkDepth, cfg.MaxPayloadBytes),
		transcoder: t,
		precision:  cfg.TimePrecision,
		log:        logger.Named("loader"),
	}
}

// NewDefaultLoader wires the pooled HTTP fetcher and ffmpeg.
func NewDefaultLoader(cfg *models.Config) *Loader {
	clientCfg := fetch.DefaultClientConfig()
	clientCfg.Timeout = cfg.FetchTimeout()
	f := fetch.NewFetcher(fetch.NewPooledClient(clientCfg), cfg.MaxPayloadBytes)
	return NewLoader(cfg, f, ffmpegService(cfg))
}

// LoadDocument reads the document at ref. When the document has no
// read-along element it returns readalong.ErrNoReadAlong and nothing else
// is fetched. Otherwise the audio and the linked alignment body are
// fetched concurrently.
//
// The outermost document's audio wins; when it names none, the first audio
// found along the link chain is loaded once the links are resolved.
func (l *Loader) LoadDocument(ctx context.Context, ref string) (*Loaded, error) {
	res, err := l.fetcher.Fetch(ctx, "", ref)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := readalong.FromResource(res)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", res.Name, err)
	}
	if l.precision > 0 {
		doc.Precision = l.precision
	}
	if doc.ReadAlong == nil {
		return nil, readalong.ErrNoReadAlong
	}

	out := &Loaded{Document: doc}
	audioRef, hasAudio := doc.Audio()

	g, gctx := errgroup.WithContext(ctx)
	if hasAudio {
		g.Go(func() error {
			out.Track, out.AudioErr = l.LoadAudio(gctx, doc.Ref, audioRef)
			return nil
		})
	}
	g.Go(func() error {
		out.LinkErr = l.resolver.Resolve(gctx, doc)
		return nil
	})
	g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !hasAudio {
		for _, d := range doc.Chain()[1:] {
			if ref, ok := d.Audio(); ok {
				out.Track, out.AudioErr = l.LoadAudio(ctx, d.Ref, ref)
				break
			}
		}
	}
	if out.AudioErr != nil {
		l.log.Warn("audio of %s not loaded: %v", doc.Name, out.AudioErr)
	}
	if out.LinkErr != nil {
		// a broken link leaves nothing to align
		l.log.Warn("alignment body of %s not loaded: %v", doc.Name, out.LinkErr)
		return out, nil
	}

	out.Words = doc.Words()
	return out, nil
}

// LoadAudio fetches ref relative to base and decodes it, going through
// ffmpeg when the built-in decoders do not know the format.
func (l *Loader) LoadAudio(ctx context.Context, base, ref string) (*waveform.Track, error) {
	res, err := l.fetcher.Fetch(ctx, base, ref)
	if err != nil {
		return nil, err
	}
	name := audioName(res)

	track, err := waveform.Decode(name, res.Data)
	if err == nil || !errors.Is(err, waveform.ErrUnsupportedFormat) || l.transcoder == nil {
		return track, err
	}

	l.log.Info("%s is not a built-in format, trying ffmpeg", name)
	wav, terr := l.transcoder.TranscodeToWAV(ctx, name, res.Data)
	if terr != nil {
		return nil, fmt.Errorf("%w (ffmpeg: %v)", err, terr)
	}
	track, err = waveform.Decode(name+".wav", wav)
	if err != nil {
		return nil, err
	}
	track.Name = name
	return track, nil
}

// audioName returns a name whose extension hints at the format, for the
// decoders and ffmpeg. Data URIs only have a media type.
func audioName(res *fetch.Resource) string {
	if res.Name != "" {
		return res.Name
	}
	if exts, _ := mime.ExtensionsByType(res.MediaType); len(exts) > 0 {
		return "audio" + exts[0]
	}
	return "audio"
}
