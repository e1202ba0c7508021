package codec

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"xmlbind/descriptor"
	"xmlbind/qname"
	"xmlbind/xmlstream"
)

// ErrNotSealed is returned when a Decoder or Encoder is used with a registry
// that has not been sealed.
var ErrNotSealed = errors.New("registry is not sealed")

// Decoder reads whole documents against a sealed registry.
type Decoder struct {
	reg  *descriptor.Registry
	opts options
}

// NewDecoder creates a Decoder.
func NewDecoder(reg *descriptor.Registry, opts ...Option) *Decoder {
	return &Decoder{reg: reg, opts: newOptions(opts)}
}

// Decode reads a document whose root element is registered as a global
// element of some type. An unregistered root is an *descriptor.UnknownTypeError.
func (d *Decoder) Decode(in io.Reader) (*Result, error) {
	return d.decode(in, nil)
}

// DecodeAs reads a document whose root element is of type t, whatever its name.
func (d *Decoder) DecodeAs(in io.Reader, t *descriptor.Type) (*Result, error) {
	if t == nil {
		return nil, errors.New("nil type")
	}

	return d.decode(in, t)
}

func (d *Decoder) decode(in io.Reader, t *descriptor.Type) (*Result, error) {
	if !d.reg.Sealed() {
		return nil, ErrNotSealed
	}

	r := xmlstream.NewReader(in, d.opts.reader...)

	root, err := r.Root()
	if err != nil {
		return nil, err
	}

	if t == nil {
		if t, err = d.reg.ResolveElement(root.Name()); err != nil {
			return nil, err
		}
	}

	log := d.opts.logger.With(zap.Stringer("root", root.Name()))
	log.Debug("Decoding document", zap.String("type", t.Label()))

	s := d.opts.session()
	s.Logger = log

	v, err := Read(s, root, t)
	if err != nil {
		if r.Err() != nil {
			return nil, fmt.Errorf("failed to read document: %w", r.Err())
		}

		return nil, err
	}

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	res := s.result(v, root.Name())
	log.Debug("Decoded document", zap.Int("anomalies", len(res.Anomalies)), zap.Int("ids", len(res.IDs)))

	return res, nil
}

// Encoder writes whole documents against a sealed registry.
type Encoder struct {
	reg  *descriptor.Registry
	opts options
}

// NewEncoder creates an Encoder.
func NewEncoder(reg *descriptor.Registry, opts ...Option) *Encoder {
	return &Encoder{reg: reg, opts: newOptions(opts)}
}

// Encode writes node as the global element of t.
func (e *Encoder) Encode(out io.Writer, node any, t *descriptor.Type) (*Result, error) {
	if t == nil {
		return nil, errors.New("nil type")
	}

	if t.Element.IsZero() {
		return nil, fmt.Errorf("type %s has no global element, use EncodeAs", t.Label())
	}

	return e.EncodeAs(out, t.Element, node, t)
}

// EncodeAs writes node as an element named name.
func (e *Encoder) EncodeAs(out io.Writer, name qname.QName, node any, t *descriptor.Type) (*Result, error) {
	if !e.reg.Sealed() {
		return nil, ErrNotSealed
	}

	if t == nil {
		return nil, errors.New("nil type")
	}

	log := e.opts.logger.With(zap.Stringer("root", name))
	log.Debug("Encoding document", zap.String("type", t.Label()))

	w := xmlstream.NewWriter(out, e.opts.writer...)

	s := e.opts.session()
	s.Logger = log

	if err := Write(s, w, name, node, t); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	return s.result(node, name), nil
}
