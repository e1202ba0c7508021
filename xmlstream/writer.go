package xmlstream

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"xmlbind/qname"
)

// ErrNoOpenTag is returned when an attribute or namespace declaration is
// written after the start tag has been closed by content.
var ErrNoOpenTag = errors.New("no open start tag")

const declaration = `<?xml version="1.0" encoding="UTF-8"?>`

// Writer is a push-style XML writer. A start tag stays open until content,
// a child or the end tag is written, so attributes and namespace
// declarations can be added to it in the meantime.
//
// Elements use the default namespace unless a preferred prefix is configured
// with WithPrefix; namespaced attributes always get a prefix. Errors are
// sticky: after the first failure every call returns it.
type Writer struct {
	w        *bufio.Writer
	indent   string
	decl     bool
	prefixes map[string]string
	stack    []*frame
	open     bool
	started  bool
	seq      int
	err      error
}

type frame struct {
	name     qname.QName
	tag      string
	bindings []binding
	children bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithIndent indents nested elements by indent per level. Elements holding
// only character data stay on one line.
func WithIndent(indent string) WriterOption {
	return func(w *Writer) {
		w.indent = indent
	}
}

// WithPrefix makes the writer bind space to prefix instead of declaring it as
// the default namespace.
func WithPrefix(prefix, space string) WriterOption {
	return func(w *Writer) {
		w.prefixes[space] = prefix
	}
}

// WithDeclaration writes an XML declaration before the root element.
func WithDeclaration() WriterOption {
	return func(w *Writer) {
		w.decl = true
	}
}

// NewWriter creates a Writer on out. Call Flush when done.
func NewWriter(out io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{
		w:        bufio.NewWriter(out),
		prefixes: map[string]string{qname.XSINamespace: qname.XSIPrefix},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Depth returns the number of open elements.
func (w *Writer) Depth() int {
	return len(w.stack)
}

// Err returns the first error the writer hit, if any.
func (w *Writer) Err() error {
	return w.err
}

// Path returns the slash separated local names of the open elements.
func (w *Writer) Path() string {
	var b strings.Builder

	for _, f := range w.stack {
		b.WriteByte('/')
		b.WriteString(f.name.Local)
	}

	return b.String()
}

// StartElement opens an element.
func (w *Writer) StartElement(name qname.QName) error {
	if w.err != nil {
		return w.err
	}

	if name.IsZero() {
		return w.fail(errors.New("empty element name"))
	}

	if !w.started {
		w.started = true

		if w.decl {
			w.writeString(declaration)

			if w.indent != "" {
				w.writeString("\n")
			}
		}
	}

	w.closeStart()

	if parent := w.top(); parent != nil {
		parent.children = true
		w.newline(len(w.stack))
	}

	var decls []binding

	tag := name.Local
	def, _ := w.LookupNamespace("")

	switch p := w.prefixes[name.Space]; {
	case name.Space == "":
		if def != "" {
			decls = append(decls, binding{})
		}
	case p != "":
		if bound, ok := w.LookupNamespace(p); !ok || bound != name.Space {
			decls = append(decls, binding{prefix: p, uri: name.Space})
		}

		tag = p + ":" + name.Local
	case def != name.Space:
		decls = append(decls, binding{uri: name.Space})
	}

	w.stack = append(w.stack, &frame{name: name, tag: tag})

	w.writeString("<")
	w.writeString(tag)
	w.open = true

	for _, b := range decls {
		w.declare(b.prefix, b.uri)
	}

	return w.err
}

// Attr writes an attribute on the open start tag.
func (w *Writer) Attr(name qname.QName, value string) error {
	if w.err != nil {
		return w.err
	}

	if !w.open {
		return w.fail(fmt.Errorf("attribute %s: %w", name, ErrNoOpenTag))
	}

	key := name.Local

	if name.Space != "" {
		p, err := w.attrPrefix(name.Space)
		if err != nil {
			return w.fail(err)
		}

		key = p + ":" + name.Local
	}

	w.writeAttr(key, value)

	return w.err
}

// Characters writes escaped character data.
func (w *Writer) Characters(text string) error {
	if w.err != nil {
		return w.err
	}

	if len(w.stack) == 0 {
		return w.fail(errors.New("character data outside the root element"))
	}

	w.closeStart()

	if err := xml.EscapeText(w.w, []byte(text)); err != nil {
		return w.fail(err)
	}

	return nil
}

// Nil marks the open element with xsi:nil="true".
func (w *Writer) Nil() error {
	return w.Attr(qname.XSINil, "true")
}

// XsiType annotates the open element with its runtime type.
func (w *Writer) XsiType(name qname.QName) error {
	if w.err != nil {
		return w.err
	}

	p, err := w.PrefixFor(name.Space)
	if err != nil {
		return w.fail(err)
	}

	value := name.Local
	if p != "" {
		value = p + ":" + name.Local
	}

	return w.Attr(qname.XSIType, value)
}

// EndElement closes the innermost element.
func (w *Writer) EndElement() error {
	if w.err != nil {
		return w.err
	}

	f := w.top()
	if f == nil {
		return w.fail(errors.New("end element without start element"))
	}

	if w.open {
		w.writeString("/>")
		w.open = false
	} else {
		if f.children {
			w.newline(len(w.stack) - 1)
		}

		w.writeString("</")
		w.writeString(f.tag)
		w.writeString(">")
	}

	w.stack = w.stack[:len(w.stack)-1]

	if len(w.stack) == 0 && w.indent != "" {
		w.writeString("\n")
	}

	return w.err
}

// Subtree writes an etree element as a child of the current element. The
// element must declare the namespaces it uses.
func (w *Writer) Subtree(el *etree.Element) error {
	if w.err != nil {
		return w.err
	}

	if el == nil {
		return nil
	}

	w.closeStart()

	if parent := w.top(); parent != nil {
		parent.children = true
		w.newline(len(w.stack))
	}

	var sb strings.Builder

	el.WriteTo(&sb, &etree.WriteSettings{})
	w.writeString(sb.String())

	return w.err
}

// LookupNamespace resolves prefix against the open elements.
func (w *Writer) LookupNamespace(prefix string) (string, bool) {
	for i := len(w.stack) - 1; i >= 0; i-- {
		for _, b := range w.stack[i].bindings {
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

// LookupPrefix returns a prefix bound to space in scope. The default
// namespace yields the empty prefix.
func (w *Writer) LookupPrefix(space string) (string, bool) {
	if space == qname.XMLNamespace {
		return qname.XMLPrefix, true
	}

	for i := len(w.stack) - 1; i >= 0; i-- {
		for _, b := range w.stack[i].bindings {
			if b.uri != space {
				continue
			}

			if bound, _ := w.LookupNamespace(b.prefix); bound == space {
				return b.prefix, true
			}
		}
	}

	if space == "" {
		def, _ := w.LookupNamespace("")
		return "", def == ""
	}

	return "", false
}

// PrefixFor returns a prefix usable for space in QName-valued content of the
// open element, declaring one on the open start tag if needed.
func (w *Writer) PrefixFor(space string) (string, error) {
	if p, ok := w.LookupPrefix(space); ok {
		return p, nil
	}

	if space == "" {
		return "", errors.New("cannot refer to the empty namespace while a default namespace is in scope")
	}

	if !w.open {
		return "", fmt.Errorf("namespace %s: %w", space, ErrNoOpenTag)
	}

	p := w.newPrefix(space)
	w.declare(p, space)

	return p, w.err
}

// Flush writes buffered output.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}

	if err := w.w.Flush(); err != nil {
		return w.fail(err)
	}

	return nil
}

func (w *Writer) attrPrefix(space string) (string, error) {
	if space == qname.XMLNamespace {
		return qname.XMLPrefix, nil
	}

	for i := len(w.stack) - 1; i >= 0; i-- {
		for _, b := range w.stack[i].bindings {
			if b.prefix == "" || b.uri != space {
				continue
			}

			if bound, _ := w.LookupNamespace(b.prefix); bound == space {
				return b.prefix, nil
			}
		}
	}

	p := w.newPrefix(space)
	w.declare(p, space)

	return p, w.err
}

func (w *Writer) newPrefix(space string) string {
	if p := w.prefixes[space]; p != "" {
		if bound, ok := w.LookupNamespace(p); !ok || bound == space {
			return p
		}
	}

	for {
		w.seq++

		p := "ns" + strconv.Itoa(w.seq)
		if _, ok := w.LookupNamespace(p); !ok {
			return p
		}
	}
}

func (w *Writer) declare(prefix, uri string) {
	f := w.top()
	f.bindings = append(f.bindings, binding{prefix: prefix, uri: uri})

	if prefix == "" {
		w.writeAttr("xmlns", uri)
	} else {
		w.writeAttr("xmlns:"+prefix, uri)
	}
}

func (w *Writer) writeAttr(key, value string) {
	w.writeString(" ")
	w.writeString(key)
	w.writeString(`="`)

	if err := xml.EscapeText(w.w, []byte(value)); err != nil {
		w.fail(err)
		return
	}

	w.writeString(`"`)
}

func (w *Writer) closeStart() {
	if w.open {
		w.writeString(">")
		w.open = false
	}
}

func (w *Writer) newline(depth int) {
	if w.indent == "" {
		return
	}

	w.writeString("\n")
	w.writeString(strings.Repeat(w.indent, depth))
}

func (w *Writer) top() *frame {
	if len(w.stack) == 0 {
		return nil
	}

	return w.stack[len(w.stack)-1]
}

func (w *Writer) writeString(s string) {
	if w.err != nil {
		return
	}

	if _, err := w.w.WriteString(s); err != nil {
		w.err = err
	}
}

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}

	return w.err
}
