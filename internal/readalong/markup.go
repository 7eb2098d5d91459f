package readalong

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Syntax is the markup language a tree was parsed from and is written back in.
type Syntax int

const (
	SyntaxHTML Syntax = iota
	SyntaxXML
)

func (s Syntax) String() string {
	if s == SyntaxXML {
		return "xml"
	}
	return "html"
}

// NodeType identifies the kind of a Node.
type NodeType int

const (
	DocumentNode NodeType = iota
	ElementNode
	TextNode
	CommentNode
	DoctypeNode   // HTML doctype
	DirectiveNode // XML <!...> directive
	ProcInstNode  // XML <?target ...?>
)

// Attr is one attribute. Key carries any XML prefix ("xml:lang").
type Attr struct {
	Namespace string
	Key       string
	Val       string
}

// Node is a syntax-neutral markup node.
type Node struct {
	Type      NodeType
	Name      string // element name, doctype name or proc-inst target
	Data      string // text, comment, directive or proc-inst content
	Namespace string // HTML foreign content namespace
	Attrs     []Attr
	Children  []*Node
	Parent    *Node
}

// Attr returns the value of the attribute key.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr replaces or appends the attribute key.
func (n *Node) SetAttr(key, val string) {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

// AppendChild adds c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// Text returns the concatenated text of n and its descendants.
func (n *Node) Text() string {
	var sb strings.Builder
	n.walk(func(c *Node) bool {
		if c.Type == TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// SetText replaces the children of n with a single text node.
func (n *Node) SetText(s string) {
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
	n.AppendChild(&Node{Type: TextNode, Data: s})
}

// LocalName is the element name without any XML prefix.
func (n *Node) LocalName() string {
	if i := strings.LastIndexByte(n.Name, ':'); i >= 0 {
		return n.Name[i+1:]
	}
	return n.Name
}

// walk visits n and its descendants in document order until fn returns false.
func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

// Find returns the first element below n whose local name is name.
func (n *Node) Find(name string) *Node {
	var found *Node
	for _, c := range n.Children {
		c.walk(func(e *Node) bool {
			if e.Type == ElementNode && e.LocalName() == name {
				found = e
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every element below n, in document order, for which match
// reports true.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	for _, c := range n.Children {
		c.walk(func(e *Node) bool {
			if e.Type == ElementNode && match(e) {
				out = append(out, e)
			}
			return true
		})
	}
	return out
}

// Tree is a parsed markup document.
type Tree struct {
	Root   *Node
	Syntax Syntax

	// fragment trees are written back without the html/head/body wrapper
	// the HTML parser would otherwise synthesize.
	fragment bool
}

// DetectSyntax picks XML for an XML media type or an XML declaration and
// HTML for everything else.
func DetectSyntax(data []byte, mediaType string) Syntax {
	mt := strings.ToLower(mediaType)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	mt = strings.TrimSpace(mt)
	if strings.HasSuffix(mt, "/xml") || strings.HasSuffix(mt, "+xml") {
		return SyntaxXML
	}
	if bytes.HasPrefix(trimLeading(data), []byte("<?xml")) {
		return SyntaxXML
	}
	return SyntaxHTML
}

func trimLeading(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return bytes.TrimLeft(data, " \t\r\n")
}

// ParseTree parses data in the syntax DetectSyntax picks.
func ParseTree(data []byte, mediaType string) (*Tree, error) {
	if DetectSyntax(data, mediaType) == SyntaxXML {
		return parseXML(data)
	}
	return parseHTML(data)
}

// Render writes the tree back in the syntax it was parsed from.
func (t *Tree) Render(w io.Writer) error {
	if t.Syntax == SyntaxXML {
		return renderXML(w, t.Root)
	}
	return renderHTML(w, t.Root, t.fragment)
}

// Bytes renders the tree into a new slice.
func (t *Tree) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func parseXML(data []byte) (*Tree, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = true
	d.Entity = xml.HTMLEntity

	root := &Node{Type: DocumentNode}
	cur := root
	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			el := &Node{Type: ElementNode, Name: joinName(tok.Name)}
			for _, a := range tok.Attr {
				el.Attrs = append(el.Attrs, Attr{Key: joinName(a.Name), Val: a.Value})
			}
			cur.AppendChild(el)
			cur = el
		case xml.EndElement:
			if cur == root || cur.Name != joinName(tok.Name) {
				line, _ := d.InputPos()
				return nil, fmt.Errorf("parse xml: line %d: unexpected </%s>", line, joinName(tok.Name))
			}
			cur = cur.Parent
		case xml.CharData:
			cur.AppendChild(&Node{Type: TextNode, Data: string(tok)})
		case xml.Comment:
			cur.AppendChild(&Node{Type: CommentNode, Data: string(tok)})
		case xml.ProcInst:
			cur.AppendChild(&Node{Type: ProcInstNode, Name: tok.Target, Data: string(tok.Inst)})
		case xml.Directive:
			cur.AppendChild(&Node{Type: DirectiveNode, Data: string(tok)})
		}
	}
	if cur != root {
		return nil, fmt.Errorf("parse xml: unclosed <%s>", cur.Name)
	}
	return &Tree{Root: root, Syntax: SyntaxXML}, nil
}

var (
	xmlTextEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	xmlAttrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", `"`, "&quot;", "\t", "&#x9;", "\n", "&#xA;", "\r", "&#xD;")
)

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) write(parts ...string) {
	for _, s := range parts {
		if e.err != nil {
			return
		}
		_, e.err = io.WriteString(e.w, s)
	}
}

func renderXML(w io.Writer, root *Node) error {
	ew := &errWriter{w: w}
	var render func(n *Node)
	render = func(n *Node) {
		switch n.Type {
		case DocumentNode:
			for _, c := range n.Children {
				render(c)
			}
		case ElementNode:
			ew.write("<", n.Name)
			for _, a := range n.Attrs {
				ew.write(" ", a.Key, `="`, xmlAttrEscaper.Replace(a.Val), `"`)
			}
			if len(n.Children) == 0 {
				ew.write("/>")
				return
			}
			ew.write(">")
			for _, c := range n.Children {
				render(c)
			}
			ew.write("</", n.Name, ">")
		case TextNode:
			ew.write(xmlTextEscaper.Replace(n.Data))
		case CommentNode:
			ew.write("<!--", n.Data, "-->")
		case ProcInstNode:
			if n.Data == "" {
				ew.write("<?", n.Name, "?>")
			} else {
				ew.write("<?", n.Name, " ", n.Data, "?>")
			}
		case DirectiveNode:
			ew.write("<!", n.Data, ">")
		}
	}
	render(root)
	return ew.err
}

// isFullHTML reports whether data is a whole HTML document rather than a
// fragment such as a bare <read-along> element.
func isFullHTML(data []byte) bool {
	head := trimLeading(data)
	if len(head) > 512 {
		head = head[:512]
	}
	head = bytes.ToLower(head)
	return bytes.HasPrefix(head, []byte("<!doctype")) || bytes.Contains(head, []byte("<html"))
}

func parseHTML(data []byte) (*Tree, error) {
	root := &Node{Type: DocumentNode}
	if isFullHTML(data) {
		doc, err := html.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			root.AppendChild(fromHTML(c))
		}
		return &Tree{Root: root, Syntax: SyntaxHTML}, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(data), body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	for _, c := range nodes {
		root.AppendChild(fromHTML(c))
	}
	return &Tree{Root: root, Syntax: SyntaxHTML, fragment: true}, nil
}

func fromHTML(h *html.Node) *Node {
	n := &Node{Namespace: h.Namespace}
	switch h.Type {
	case html.ElementNode:
		n.Type, n.Name = ElementNode, h.Data
	case html.TextNode:
		n.Type, n.Data = TextNode, h.Data
	case html.CommentNode:
		n.Type, n.Data = CommentNode, h.Data
	case html.DoctypeNode:
		n.Type, n.Name = DoctypeNode, h.Data
	default:
		n.Type, n.Data = TextNode, h.Data
	}
	for _, a := range h.Attr {
		n.Attrs = append(n.Attrs, Attr{Namespace: a.Namespace, Key: a.Key, Val: a.Val})
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		n.AppendChild(fromHTML(c))
	}
	return n
}

func toHTML(n *Node) *html.Node {
	h := &html.Node{Namespace: n.Namespace}
	switch n.Type {
	case DocumentNode:
		h.Type = html.DocumentNode
	case ElementNode:
		h.Type, h.Data, h.DataAtom = html.ElementNode, n.Name, atom.Lookup([]byte(n.Name))
	case CommentNode:
		h.Type, h.Data = html.CommentNode, n.Data
	case DoctypeNode:
		h.Type, h.Data = html.DoctypeNode, n.Name
	default:
		h.Type, h.Data = html.TextNode, n.Data
	}
	for _, a := range n.Attrs {
		h.Attr = append(h.Attr, html.Attribute{Namespace: a.Namespace, Key: a.Key, Val: a.Val})
	}
	for _, c := range n.Children {
		h.AppendChild(toHTML(c))
	}
	return h
}

func renderHTML(w io.Writer, root *Node, fragment bool) error {
	doc := toHTML(root)
	if !fragment {
		return html.Render(w, doc)
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}
