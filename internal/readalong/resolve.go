package readalong

import (
	"context"
	"fmt"
	"unicode/utf8"

	"readalong-editor/internal/config"
	fetch "readalong-editor/internal/http"
	"readalong-editor/internal/logger"
)

// Fetcher loads the resource ref points at, resolved against base.
type Fetcher interface {
	Fetch(ctx context.Context, base, ref string) (*fetch.Resource, error)
}

// Resolver follows href attributes from a document to its alignment body.
type Resolver struct {
	Fetcher  Fetcher
	MaxDepth int
	MaxBytes int64

	log *logger.Logger
}

// NewResolver returns a resolver with the configured limits; zero values
// fall back to config.MaxLinkDepth and config.MaxPayloadBytes.
func NewResolver(f Fetcher, maxDepth int, maxBytes int64) *Resolver {
	if maxDepth <= 0 {
		maxDepth = config.MaxLinkDepth
	}
	if maxBytes <= 0 {
		maxBytes = config.MaxPayloadBytes
	}
	return &Resolver{Fetcher: f, MaxDepth: maxDepth, MaxBytes: maxBytes, log: logger.Named("readalong")}
}

// Resolve links doc to the chain of documents its href attributes name.
// A linked document without a read-along element ends the chain; Words on
// the result is then empty. Following more than MaxDepth links fails with
// ErrLinkDepth.
func (r *Resolver) Resolve(ctx context.Context, doc *Document) error {
	cur := doc
	for depth := 0; ; depth++ {
		href, ok := cur.Href()
		if !ok {
			return nil
		}
		if depth >= r.MaxDepth {
			return fmt.Errorf("%w: more than %d links from %s", ErrLinkDepth, r.MaxDepth, doc.Name)
		}

		res, err := r.Fetcher.Fetch(ctx, cur.Ref, href)
		if err != nil {
			return fmt.Errorf("resolve href %q: %w", shorten(href), err)
		}
		if int64(len(res.Data)) > r.MaxBytes {
			return fmt.Errorf("resolve href %q: %w (%d bytes)", shorten(href), ErrPayloadTooLarge, len(res.Data))
		}

		next, err := FromResource(res)
		if err != nil {
			return fmt.Errorf("resolve href %q: %w", shorten(href), err)
		}
		next.Precision = doc.Precision
		cur.linked = next
		if res.IsData() {
			cur.link = LinkData
			cur.dataURL = res.DataURL
			// relative references inside an embedded body resolve
			// against the embedding document
			next.Ref = cur.Ref
			next.Name = cur.Name
		} else {
			cur.link = LinkExternal
		}
		r.log.Debug("followed href of %s (%s, depth %d)", cur.Name, next.Tree.Syntax, depth+1)

		if next.ReadAlong == nil {
			r.log.Debug("%s has no read-along element", next.Name)
			return nil
		}
		cur = next
	}
}

// shorten keeps long hrefs, such as data URIs, readable in errors. It cuts
// on a rune boundary.
func shorten(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}
	cut := limit - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
