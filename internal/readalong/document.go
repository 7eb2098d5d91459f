// Package readalong parses read-along markup documents, follows their linked
// alignment bodies, lists the timed words they contain and writes corrected
// timings back.
package readalong

import (
	"errors"
	"fmt"
	"math"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vincent-petithory/dataurl"

	"readalong-editor/internal/config"
	fetch "readalong-editor/internal/http"
)

var (
	ErrNoReadAlong    = errors.New("no read-along element")
	ErrMissingSegment = errors.New("word has no segment")
	ErrLinkDepth      = errors.New("read-along link depth exceeded")

	// ErrPayloadTooLarge matches the fetcher's limit error as well.
	ErrPayloadTooLarge = fetch.ErrPayloadTooLarge
)

// Link describes how a document reached its alignment body.
type Link int

const (
	LinkNone     Link = iota // words are inline
	LinkData                 // href is a data URI
	LinkExternal             // href is a URL or file path
)

// Document is a parsed read-along document and, once resolved, the chain
// of documents its href attributes point at.
type Document struct {
	Name      string // file name used when saving
	Ref       string // base for relative references
	MediaType string
	Tree      *Tree
	ReadAlong *Node // first read-along element; nil when absent

	// Precision is the number of decimals written on export.
	Precision int

	linked  *Document
	link    Link
	dataURL *dataurl.DataURL
}

// Parse parses data read from ref. The syntax is picked from mediaType and
// the content; see DetectSyntax.
func Parse(ref string, data []byte, mediaType string) (*Document, error) {
	tree, err := ParseTree(data, mediaType)
	if err != nil {
		return nil, err
	}
	doc := &Document{
		Ref:       ref,
		MediaType: mediaType,
		Tree:      tree,
		ReadAlong: tree.Root.Find(config.ReadAlongElement),
		Precision: config.TimePrecision,
	}
	if ref != "" && !fetch.IsDataURI(ref) {
		if strings.Contains(ref, "://") {
			doc.Name = path.Base(ref)
		} else {
			doc.Name = filepath.Base(ref)
		}
	}
	return doc, nil
}

// FromResource parses a fetched resource.
func FromResource(res *fetch.Resource) (*Document, error) {
	doc, err := Parse(res.Ref, res.Data, res.MediaType)
	if err != nil {
		return nil, err
	}
	if res.Name != "" {
		doc.Name = res.Name
	}
	return doc, nil
}

func (d *Document) attr(key string) (string, bool) {
	if d.ReadAlong == nil {
		return "", false
	}
	v, ok := d.ReadAlong.Attr(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Audio returns the document's own audio reference.
func (d *Document) Audio() (string, bool) { return d.attr("audio") }

// Href returns the reference to the document's alignment body.
func (d *Document) Href() (string, bool) { return d.attr("href") }

// Link reports how the alignment body was reached; LinkNone until resolved.
func (d *Document) Link() Link { return d.link }

// Linked returns the document the href resolved to, or nil.
func (d *Document) Linked() *Document { return d.linked }

// Chain returns d followed by every linked document, outermost first.
func (d *Document) Chain() []*Document {
	var out []*Document
	for cur := d; cur != nil; cur = cur.linked {
		out = append(out, cur)
	}
	return out
}

// Body returns the innermost document of the chain, which holds the words.
func (d *Document) Body() *Document {
	cur := d
	for cur.linked != nil {
		cur = cur.linked
	}
	return cur
}

// Word is one w element carrying an id.
type Word struct {
	ID    string
	Text  string // trimmed text content
	Start float64
	Dur   float64
	// Timed is false when time or dur is missing or not a number.
	Timed bool

	node *Node
}

// End returns Start + Dur.
func (w Word) End() float64 { return w.Start + w.Dur }

func parseSeconds(n *Node, key string) (float64, bool) {
	s, ok := n.Attr(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isWord(n *Node) bool {
	if n.LocalName() != config.WordElement {
		return false
	}
	_, ok := n.Attr("id")
	return ok
}

// Words lists every w[id] of the body's read-along element in document
// order, timed or not. It returns nil when the body has no read-along.
func (d *Document) Words() []Word {
	body := d.Body()
	if body.ReadAlong == nil {
		return nil
	}
	nodes := body.ReadAlong.FindAll(isWord)
	words := make([]Word, 0, len(nodes))
	for _, n := range nodes {
		id, _ := n.Attr("id")
		w := Word{ID: id, Text: strings.TrimSpace(n.Text()), node: n}
		start, okStart := parseSeconds(n, "time")
		dur, okDur := parseSeconds(n, "dur")
		if okStart && okDur {
			w.Start, w.Dur, w.Timed = start, dur, true
		}
		words = append(words, w)
	}
	return words
}

// Timing is the corrected span and text of one word.
type Timing struct {
	Start float64
	End   float64
	Text  string
}

// Timings maps word IDs to their corrected timing.
type Timings map[string]Timing

// Timings returns the current timing of every timed word.
func (d *Document) Timings() Timings {
	out := make(Timings)
	for _, w := range d.Words() {
		if w.Timed {
			out[w.ID] = Timing{Start: w.Start, End: w.End(), Text: w.Text}
		}
	}
	return out
}

// Shift returns a copy with every span moved by seconds. Spans that would
// start before zero are pinned to zero with their duration kept.
func (t Timings) Shift(seconds float64) Timings {
	out := make(Timings, len(t))
	for id, tm := range t {
		dur := tm.End - tm.Start
		start := math.Max(tm.Start+seconds, 0)
		out[id] = Timing{Start: start, End: start + dur, Text: tm.Text}
	}
	return out
}

// Output is an exported document ready to be saved.
type Output struct {
	Name      string
	MediaType string
	Data      []byte
}

// Export writes t into the body's words and renders the result. Every w[id]
// must have a timing; otherwise nothing is changed and the error wraps
// ErrMissingSegment with the offending IDs.
//
// A body reached through a data URI is re-encoded into the outer document,
// which is what gets returned. A body reached through an external href is
// returned on its own.
func (d *Document) Export(t Timings) (*Output, error) {
	body := d.Body()
	if body.ReadAlong == nil {
		return nil, ErrNoReadAlong
	}
	words := d.Words()

	var missing []string
	for _, w := range words {
		if _, ok := t[w.ID]; !ok {
			missing = append(missing, w.ID)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingSegment, strings.Join(missing, ", "))
	}

	prec := d.Precision
	if prec <= 0 {
		prec = config.TimePrecision
	}
	for _, w := range words {
		tm := t[w.ID]
		w.node.SetAttr("time", strconv.FormatFloat(tm.Start, 'f', prec, 64))
		w.node.SetAttr("dur", strconv.FormatFloat(tm.End-tm.Start, 'f', prec, 64))
		if strings.TrimSpace(w.node.Text()) != tm.Text {
			w.node.SetText(tm.Text)
		}
	}
	return d.render()
}

func (d *Document) render() (*Output, error) {
	if d.linked == nil || d.link == LinkNone {
		data, err := d.Tree.Bytes()
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", d.Name, err)
		}
		return &Output{Name: d.Name, MediaType: d.MediaType, Data: data}, nil
	}

	inner, err := d.linked.render()
	if err != nil {
		return nil, err
	}
	if d.link == LinkExternal {
		return inner, nil
	}

	du := &dataurl.DataURL{
		MediaType: d.dataURL.MediaType,
		Encoding:  d.dataURL.Encoding,
		Data:      inner.Data,
	}
	d.ReadAlong.SetAttr("href", du.String())
	data, err := d.Tree.Bytes()
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", d.Name, err)
	}
	return &Output{Name: d.Name, MediaType: d.MediaType, Data: data}, nil
}
