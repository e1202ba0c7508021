package diagnostic

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Mode is the escalation policy of a Sink.
type Mode int

const (
	// ModeCollect accumulates every anomaly and lets processing continue.
	ModeCollect Mode = iota
	// ModeFailFast turns the first anomaly into a hard failure.
	ModeFailFast
)

func (m Mode) String() string {
	switch m {
	case ModeCollect:
		return "collect"
	case ModeFailFast:
		return "fail-fast"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "collect" or "fail-fast". The empty string means ModeCollect.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "collect":
		return ModeCollect, nil
	case "fail-fast":
		return ModeFailFast, nil
	default:
		return ModeCollect, fmt.Errorf("invalid mode %q (want collect or fail-fast)", s)
	}
}

// Sink receives the anomalies of one read or write call. It is not safe for
// concurrent use; every call owns its own Sink.
type Sink struct {
	mode      Mode
	logger    *zap.Logger
	anomalies []Anomaly
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithLogger logs every reported anomaly at warn level.
func WithLogger(l *zap.Logger) SinkOption {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSink creates an empty sink.
func NewSink(mode Mode, opts ...SinkOption) *Sink {
	s := &Sink{mode: mode, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Mode returns the escalation policy.
func (s *Sink) Mode() Mode {
	return s.mode
}

// Report records a. In fail-fast mode it returns a as the error that must
// stop processing; otherwise it returns nil.
func (s *Sink) Report(a Anomaly) error {
	s.anomalies = append(s.anomalies, a)

	fields := []zap.Field{
		zap.Stringer("kind", a.Kind),
		zap.Stringer("name", a.Name),
	}

	if a.Line > 0 {
		fields = append(fields, zap.Int("line", a.Line), zap.Int("column", a.Column))
	}

	if a.Path != "" {
		fields = append(fields, zap.String("path", a.Path))
	}

	if a.Err != nil {
		fields = append(fields, zap.Error(a.Err))
	}

	msg := a.Message
	if msg == "" {
		msg = a.Kind.String()
	}

	s.logger.Warn(msg, fields...)

	if s.mode == ModeFailFast {
		return a
	}

	return nil
}

// Anomalies returns the reported anomalies in report order.
func (s *Sink) Anomalies() []Anomaly {
	return slices.Clone(s.anomalies)
}

// Len returns the number of reported anomalies.
func (s *Sink) Len() int {
	return len(s.anomalies)
}

// Count returns the number of reported anomalies of kind k.
func (s *Sink) Count(k Kind) int {
	n := 0

	for _, a := range s.anomalies {
		if a.Kind == k {
			n++
		}
	}

	return n
}

// Err joins all reported anomalies, or returns nil when there are none.
func (s *Sink) Err() error {
	if len(s.anomalies) == 0 {
		return nil
	}

	errs := make([]error, len(s.anomalies))
	for i, a := range s.anomalies {
		errs[i] = a
	}

	return errors.Join(errs...)
}
