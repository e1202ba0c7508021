package xmlstream

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/beevik/etree"

	"xmlbind/qname"
)

// ErrNoRoot is returned by Root when the input holds no element.
var ErrNoRoot = errors.New("document has no root element")

// Reader is a pull cursor over an XML document. Elements are handed out one
// level at a time; an element's content is consumed by exactly one of
// Children, Text, Subtree or Skip.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	dec   *xml.Decoder
	depth int
	cur   *Element
	err   error
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithStrict toggles the decoder's strict mode. Strict is the default.
func WithStrict(strict bool) ReaderOption {
	return func(r *Reader) {
		r.dec.Strict = strict
	}
}

// WithCharsetReader installs a converter for non UTF-8 input.
func WithCharsetReader(fn func(charset string, input io.Reader) (io.Reader, error)) ReaderOption {
	return func(r *Reader) {
		r.dec.CharsetReader = fn
	}
}

// NewReader creates a Reader over in.
func NewReader(in io.Reader, opts ...ReaderOption) *Reader {
	r := &Reader{dec: xml.NewDecoder(in)}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Root advances to the document element.
func (r *Reader) Root() (*Element, error) {
	for {
		tok, err := r.next()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoRoot
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read root element: %w", err)
		}

		if _, ok := tok.(xml.StartElement); ok {
			return r.cur, nil
		}
	}
}

// Err returns the first tokenizer error seen, if any. Iterators stop silently
// on error, so callers check Err once they are done.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) next() (xml.Token, error) {
	if r.err != nil {
		return nil, r.err
	}

	line, col := r.dec.InputPos()

	tok, err := r.dec.Token()
	if err != nil {
		r.err = err
		return nil, err
	}

	switch t := tok.(type) {
	case xml.StartElement:
		r.depth++
		r.cur = newElement(r, t, r.cur, r.depth, line, col)
	case xml.EndElement:
		r.depth--
		r.cur.closed = true
		r.cur = r.cur.parent
	}

	return tok, nil
}

// skipTo consumes tokens until the open element depth is at most depth.
func (r *Reader) skipTo(depth int) bool {
	for r.depth > depth {
		if _, err := r.next(); err != nil {
			return false
		}
	}

	return true
}

// Attr is one attribute of an element. Namespace declarations are not
// reported as attributes.
type Attr struct {
	Name  qname.QName
	Value string
}

type binding struct {
	prefix string
	uri    string
}

// Element is the cursor position of one start tag.
type Element struct {
	r        *Reader
	parent   *Element
	name     qname.QName
	attrs    []Attr
	bindings []binding
	depth    int
	line     int
	col      int
	closed   bool
}

func newElement(r *Reader, t xml.StartElement, parent *Element, depth, line, col int) *Element {
	e := &Element{
		r:      r,
		parent: parent,
		name:   qname.New(t.Name.Space, t.Name.Local),
		depth:  depth,
		line:   line,
		col:    col,
	}

	for _, a := range t.Attr {
		switch {
		case a.Name.Space == "xmlns":
			e.bindings = append(e.bindings, binding{prefix: a.Name.Local, uri: a.Value})
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			e.bindings = append(e.bindings, binding{uri: a.Value})
		default:
			e.attrs = append(e.attrs, Attr{Name: qname.New(a.Name.Space, a.Name.Local), Value: a.Value})
		}
	}

	return e
}

// Name returns the element's qualified name.
func (e *Element) Name() qname.QName {
	return e.name
}

// Attrs returns the element's attributes in document order.
func (e *Element) Attrs() []Attr {
	return e.attrs
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name qname.QName) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}

	return "", false
}

// IsNil reports whether the element carries xsi:nil="true".
func (e *Element) IsNil() bool {
	v, ok := e.Attr(qname.XSINil)
	if !ok {
		return false
	}

	v = strings.TrimSpace(v)

	return v == "true" || v == "1"
}

// XsiType returns the resolved xsi:type annotation, if present.
func (e *Element) XsiType() (qname.QName, bool, error) {
	v, ok := e.Attr(qname.XSIType)
	if !ok {
		return qname.QName{}, false, nil
	}

	name, err := qname.Resolve(strings.TrimSpace(v), e, true)
	if err != nil {
		return qname.QName{}, true, fmt.Errorf("invalid xsi:type %q: %w", v, err)
	}

	return name, true, nil
}

// LookupNamespace resolves prefix in the element's scope. The empty prefix
// yields the default namespace.
func (e *Element) LookupNamespace(prefix string) (string, bool) {
	for el := e; el != nil; el = el.parent {
		for _, b := range el.bindings {
			if b.prefix == prefix {
				return b.uri, true
			}
		}
	}

	if prefix == qname.XMLPrefix {
		return qname.XMLNamespace, true
	}

	return "", false
}

// Err returns the reader's first error, the same as Reader.Err.
func (e *Element) Err() error {
	return e.r.err
}

// Pos returns the approximate line and column of the start tag.
func (e *Element) Pos() (line, column int) {
	return e.line, e.col
}

// Path returns the slash separated local names from the root to e.
func (e *Element) Path() string {
	var names []string
	for el := e; el != nil; el = el.parent {
		names = append(names, el.name.Local)
	}

	var b strings.Builder

	for i := len(names) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(names[i])
	}

	return b.String()
}

// Children iterates the child elements in document order, skipping whatever
// the loop body leaves unread of the previous child. Character data between
// children is discarded. Iteration stops at the end tag or on a read error,
// reported by Reader.Err.
func (e *Element) Children() iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		for {
			child := e.nextChild()
			if child == nil {
				return
			}

			if !yield(child) {
				return
			}
		}
	}
}

func (e *Element) nextChild() *Element {
	r := e.r
	if e.closed || !r.skipTo(e.depth) {
		return nil
	}

	for {
		tok, err := r.next()
		if err != nil {
			return nil
		}

		switch tok.(type) {
		case xml.StartElement:
			return r.cur
		case xml.EndElement:
			if e.closed {
				return nil
			}
		}
	}
}

// Text consumes the rest of the element and returns its character data
// coalesced, with child element content left out.
func (e *Element) Text() (string, error) {
	r := e.r
	if e.closed {
		return "", nil
	}

	if !r.skipTo(e.depth) {
		return "", r.err
	}

	var b strings.Builder

	for !e.closed {
		tok, err := r.next()
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if !r.skipTo(e.depth) {
				return "", r.err
			}
		}
	}

	return b.String(), nil
}

// Skip consumes the rest of the element.
func (e *Element) Skip() error {
	if e.closed {
		return nil
	}

	if !e.r.skipTo(e.depth - 1) {
		return e.r.err
	}

	return nil
}

// Subtree consumes the element and returns it as a standalone etree element.
// The namespace bindings in scope are declared on the returned root so it
// can be written anywhere.
func (e *Element) Subtree() (*etree.Element, error) {
	r := e.r
	if e.closed || r.depth != e.depth {
		return nil, fmt.Errorf("subtree of %s: content already consumed", e.name)
	}

	root := e.etree(true)
	stack := []*etree.Element{root}

	for !e.closed {
		tok, err := r.next()
		if err != nil {
			return nil, err
		}

		top := stack[len(stack)-1]

		switch t := tok.(type) {
		case xml.StartElement:
			child := r.cur.etree(false)
			top.AddChild(child)
			stack = append(stack, child)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			top.CreateText(string(t))
		case xml.Comment:
			top.CreateComment(string(t))
		case xml.ProcInst:
			top.CreateProcInst(t.Target, string(t.Inst))
		}
	}

	return root, nil
}

func (e *Element) etree(root bool) *etree.Element {
	el := etree.NewElement(e.name.Local)

	decls := e.bindings
	if root {
		decls = e.inScope()
	}

	for _, b := range decls {
		if b.prefix == "" {
			el.CreateAttr("xmlns", b.uri)
		} else {
			el.CreateAttr("xmlns:"+b.prefix, b.uri)
		}
	}

	el.Space = e.prefixOf(e.name.Space, true)

	for _, a := range e.attrs {
		key := a.Name.Local
		if a.Name.Space != "" {
			if p := e.prefixOf(a.Name.Space, false); p != "" {
				key = p + ":" + key
			}
		}

		el.CreateAttr(key, a.Value)
	}

	return el
}

// inScope returns every binding visible at e, outermost first, with inner
// declarations replacing outer ones.
func (e *Element) inScope() []binding {
	var chain []*Element
	for el := e; el != nil; el = el.parent {
		chain = append(chain, el)
	}

	var out []binding

	index := map[string]int{}

	for i := len(chain) - 1; i >= 0; i-- {
		for _, b := range chain[i].bindings {
			if j, ok := index[b.prefix]; ok {
				out[j] = b
				continue
			}

			index[b.prefix] = len(out)
			out = append(out, b)
		}
	}

	return out
}

// prefixOf finds a prefix bound to uri in scope. The default namespace is
// only considered when allowDefault is set, as attributes never use it.
func (e *Element) prefixOf(uri string, allowDefault bool) string {
	if uri == qname.XMLNamespace {
		return qname.XMLPrefix
	}

	for el := e; el != nil; el = el.parent {
		for _, b := range el.bindings {
			if b.uri != uri || (b.prefix == "" && !allowDefault) {
				continue
			}

			if bound, _ := e.LookupNamespace(b.prefix); bound == uri {
				return b.prefix
			}
		}
	}

	return ""
}
