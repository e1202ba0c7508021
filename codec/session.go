package codec

import (
	"errors"
	"maps"

	"go.uber.org/zap"

	"xmlbind/diagnostic"
	"xmlbind/qname"
)

// Session is the explicit state of one read or write call: where anomalies
// go and which nodes were registered under an ID. It must not be shared
// between concurrent calls.
type Session struct {
	Sink    *diagnostic.Sink
	Logger  *zap.Logger
	suggest bool
	ids     map[string]any
}

// NewSession creates a session reporting to sink. A nil sink collects.
func NewSession(sink *diagnostic.Sink, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	if sink == nil {
		sink = diagnostic.NewSink(diagnostic.ModeCollect, diagnostic.WithLogger(logger))
	}

	return &Session{
		Sink:    sink,
		Logger:  logger,
		suggest: true,
		ids:     make(map[string]any),
	}
}

func (o options) session() *Session {
	s := NewSession(diagnostic.NewSink(o.mode, diagnostic.WithLogger(o.logger)), o.logger)
	s.suggest = o.suggest

	return s
}

// Lookup returns the node registered under id.
func (s *Session) Lookup(id string) (any, bool) {
	n, ok := s.ids[id]
	return n, ok
}

func (s *Session) registerID(id string, node any) {
	if id == "" {
		return
	}

	if _, dup := s.ids[id]; dup {
		s.Logger.Warn("Duplicate id, keeping the first node", zap.String("id", id))
		return
	}

	s.ids[id] = node
}

func (s *Session) report(a diagnostic.Anomaly) error {
	return s.Sink.Report(a)
}

func (s *Session) result(value any, root qname.QName) *Result {
	return &Result{
		Value:     value,
		Root:      root,
		Anomalies: s.Sink.Anomalies(),
		IDs:       maps.Clone(s.ids),
	}
}

// Result is the outcome of a whole-document call.
type Result struct {
	// Value is the decoded root node, nil when the root was nil or rejected.
	Value any
	// Root is the document element name.
	Root      qname.QName
	Anomalies []diagnostic.Anomaly
	// IDs indexes nodes by the value of their ID attribute.
	IDs map[string]any
}

// Lookup resolves an ID reference.
func (r *Result) Lookup(id string) (any, bool) {
	n, ok := r.IDs[id]
	return n, ok
}

// Err joins the anomalies, or returns nil when the call was clean.
func (r *Result) Err() error {
	if len(r.Anomalies) == 0 {
		return nil
	}

	errs := make([]error, len(r.Anomalies))
	for i, a := range r.Anomalies {
		errs[i] = a
	}

	return errors.Join(errs...)
}

// Count returns the number of anomalies of kind k.
func (r *Result) Count(k diagnostic.Kind) int {
	n := 0

	for _, a := range r.Anomalies {
		if a.Kind == k {
			n++
		}
	}

	return n
}
