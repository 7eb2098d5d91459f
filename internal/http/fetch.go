package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vincent-petithory/dataurl"

	"readalong-editor/internal/config"
	"readalong-editor/internal/logger"
)

var (
	// ErrPayloadTooLarge is returned when a resource exceeds the fetcher's limit.
	ErrPayloadTooLarge = errors.New("payload exceeds size limit")

	// ErrStatus is wrapped by errors for non-2xx HTTP responses.
	ErrStatus = errors.New("unexpected HTTP status")
)

// Resource is the content a reference resolved to.
type Resource struct {
	Ref       string // resolved location: URL, file path or the data URI itself
	Name      string // base name, empty for data URIs
	MediaType string // type/subtype without parameters; may be empty
	Data      []byte

	// DataURL is set when Ref was a data URI; it keeps the original media
	// type parameters and encoding so the payload can be re-encoded.
	DataURL *dataurl.DataURL
}

// IsData reports whether the resource came from a data URI.
func (r *Resource) IsData() bool { return r.DataURL != nil }

// Fetcher loads http(s) URLs, local files and data URIs with a size limit.
// It never retries.
type Fetcher struct {
	Client   *http.Client
	MaxBytes int64
	log      *logger.Logger
}

// NewFetcher returns a fetcher using client; a nil client gets the pooled
// default and maxBytes <= 0 gets config.MaxPayloadBytes.
func NewFetcher(client *http.Client, maxBytes int64) *Fetcher {
	if client == nil {
		client = NewDefaultClient()
	}
	if maxBytes <= 0 {
		maxBytes = config.MaxPayloadBytes
	}
	return &Fetcher{Client: client, MaxBytes: maxBytes, log: logger.Named("fetch")}
}

// IsDataURI reports whether ref is a data URI.
func IsDataURI(ref string) bool {
	return len(ref) >= 5 && strings.EqualFold(ref[:5], "data:")
}

func isHTTP(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

// parseRef parses ref as a URL, treating Windows drive letters and
// unparsable strings as plain paths.
func parseRef(ref string) *url.URL {
	u, err := url.Parse(ref)
	if err != nil || len(u.Scheme) == 1 {
		return &url.URL{Path: ref}
	}
	return u
}

// Resolve returns ref resolved against base. Base is the location of the
// referring document: a URL, a file path, or empty for the working directory.
func Resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if IsDataURI(ref) {
		return ref
	}
	u := parseRef(ref)
	if isHTTP(u) {
		return u.String()
	}
	if u.Scheme == "file" {
		return filepath.FromSlash(u.Path)
	}
	if u.Scheme != "" {
		return ref
	}

	b := parseRef(base)
	if isHTTP(b) {
		return b.ResolveReference(u).String()
	}
	if filepath.IsAbs(ref) || base == "" {
		return filepath.FromSlash(ref)
	}
	dir := base
	if b.Scheme == "file" {
		dir = filepath.FromSlash(b.Path)
	}
	return filepath.Join(filepath.Dir(dir), filepath.FromSlash(ref))
}

// Fetch resolves ref against base and reads the resource it points at.
func (f *Fetcher) Fetch(ctx context.Context, base, ref string) (*Resource, error) {
	loc := Resolve(base, ref)
	if IsDataURI(loc) {
		return f.fetchData(loc)
	}
	u := parseRef(loc)
	switch {
	case isHTTP(u):
		return f.fetchHTTP(ctx, u)
	case u.Scheme != "":
		return nil, fmt.Errorf("fetch %s: unsupported scheme %q", loc, u.Scheme)
	}
	return f.fetchFile(ctx, loc)
}

func (f *Fetcher) fetchData(ref string) (*Resource, error) {
	du, err := dataurl.DecodeString(ref)
	if err != nil {
		return nil, fmt.Errorf("decode data URI: %w", err)
	}
	if int64(len(du.Data)) > f.MaxBytes {
		return nil, fmt.Errorf("data URI: %w (%d > %d bytes)", ErrPayloadTooLarge, len(du.Data), f.MaxBytes)
	}
	return &Resource{
		Ref:       ref,
		MediaType: du.MediaType.ContentType(),
		Data:      du.Data,
		DataURL:   du,
	}, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, u *url.URL) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	f.log.Debug("GET %s", u)
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %w: %s", u, ErrStatus, resp.Status)
	}
	if resp.ContentLength > f.MaxBytes {
		return nil, fmt.Errorf("GET %s: %w (%d > %d bytes)", u, ErrPayloadTooLarge, resp.ContentLength, f.MaxBytes)
	}

	data, err := readLimited(resp.Body, f.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", u, err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "" {
		mediaType = mime.TypeByExtension(path.Ext(u.Path))
	}
	return &Resource{
		Ref:       u.String(),
		Name:      path.Base(u.Path),
		MediaType: stripParams(mediaType),
		Data:      data,
	}, nil
}

func (f *Fetcher) fetchFile(ctx context.Context, name string) (*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := readLimited(file, f.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return &Resource{
		Ref:       name,
		Name:      filepath.Base(name),
		MediaType: stripParams(mime.TypeByExtension(filepath.Ext(name))),
		Data:      data,
	}, nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (limit %d bytes)", ErrPayloadTooLarge, limit)
	}
	return data, nil
}

func stripParams(mediaType string) string {
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
