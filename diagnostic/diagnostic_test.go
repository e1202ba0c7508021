package diagnostic

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"xmlbind/qname"
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "unexpected-attribute", KindUnexpectedAttribute.String())
	assert.Equal(t, "missing-required-value", KindMissingRequiredValue.String())
	assert.Equal(t, "lifecycle-hook", KindLifecycleHook.String())
	assert.Equal(t, "Kind(0)", Kind(0).String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestAnomaly_Is(t *testing.T) {
	a := Anomaly{Kind: KindUnexpectedElement, Name: qname.Local("bogus")}

	assert.ErrorIs(t, a, ErrUnexpectedElement)
	assert.NotErrorIs(t, a, ErrUnexpectedAttribute)

	wrapped := fmt.Errorf("reading: %w", a)

	var got Anomaly

	require.ErrorAs(t, wrapped, &got)
	assert.Equal(t, KindUnexpectedElement, got.Kind)
	assert.ErrorIs(t, wrapped, ErrUnexpectedElement)
}

func TestAnomaly_UnwrapsCause(t *testing.T) {
	cause := errors.New("not a number")
	a := Anomaly{Kind: KindAdapterDecode, Err: cause}

	assert.ErrorIs(t, a, cause)
	assert.ErrorIs(t, a, ErrAdapterDecode)
}

func TestAnomaly_Error(t *testing.T) {
	a := Anomaly{
		Kind:        KindUnexpectedElement,
		Name:        qname.New("urn:x", "nmae"),
		Line:        3,
		Column:      7,
		Path:        "/widget",
		Expected:    []qname.QName{qname.New("urn:x", "name"), qname.New("urn:x", "tag")},
		Suggestions: []string{"name"},
	}

	assert.Equal(t,
		"unexpected-element {urn:x}nmae at 3:7 in /widget (expected {urn:x}name, {urn:x}tag) (did you mean name?)",
		a.Error())
}

func TestSink_Collect(t *testing.T) {
	s := NewSink(ModeCollect)

	require.NoError(t, s.Report(Anomaly{Kind: KindUnexpectedAttribute, Name: qname.Local("a")}))
	require.NoError(t, s.Report(Anomaly{Kind: KindUnexpectedElement, Name: qname.Local("b")}))
	require.NoError(t, s.Report(Anomaly{Kind: KindUnexpectedElement, Name: qname.Local("c")}))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Count(KindUnexpectedElement))
	assert.Equal(t, 0, s.Count(KindAdapterDecode))

	got := s.Anomalies()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].Name.Local)
	assert.Equal(t, "c", got[2].Name.Local)

	err := s.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedAttribute)
	assert.ErrorIs(t, err, ErrUnexpectedElement)
}

func TestSink_FailFast(t *testing.T) {
	s := NewSink(ModeFailFast)

	err := s.Report(Anomaly{Kind: KindMissingRequiredValue, Name: qname.Local("name")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequiredValue)
	assert.Equal(t, 1, s.Len())
}

func TestSink_EmptyErr(t *testing.T) {
	assert.NoError(t, NewSink(ModeCollect).Err())
}

func TestSink_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewSink(ModeCollect, WithLogger(zap.New(core)))

	require.NoError(t, s.Report(Anomaly{
		Kind:    KindUnexpectedElement,
		Name:    qname.Local("extra"),
		Line:    4,
		Column:  2,
		Message: "unexpected element, ignoring",
	}))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "unexpected element, ignoring", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "unexpected-element", fields["kind"])
	assert.Equal(t, "extra", fields["name"])
	assert.EqualValues(t, 4, fields["line"])
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeCollect, false},
		{"collect", ModeCollect, false},
		{"fail-fast", ModeFailFast, false},
		{"strict", ModeCollect, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, must(ParseMode(got.String())))
		})
	}
}

func must(m Mode, err error) Mode {
	if err != nil {
		panic(err)
	}

	return m
}

func TestDiagnostics(t *testing.T) {
	var d Diagnostics

	assert.False(t, d.HasErrors())
	assert.NoError(t, d.Err())

	d.AddWarning("unused_type", "type is never referenced", "{urn:x}orphan", "")
	assert.False(t, d.HasErrors())

	d.AddError("unknown_type", "type not found", "{urn:x}widget", "part")
	d.Suggest("{urn:x}parts")

	require.True(t, d.HasErrors())
	require.Len(t, d.Errors(), 1)
	require.Len(t, d.Warnings(), 1)

	err := d.Err()
	assert.Equal(t,
		"[{urn:x}widget] part: [unknown_type] type not found (did you mean {urn:x}parts?)",
		err.Error())

	var found Diagnostic
	require.ErrorAs(t, err, &found)
	assert.Equal(t, "unknown_type", found.Code)

	all := d.All()
	require.Len(t, all, 2)
	assert.Equal(t, SeverityError, all[0].Severity)
	assert.Equal(t, SeverityWarning, all[1].Severity)
	assert.Equal(t, "warning", all[1].Severity.String())
	assert.Equal(t, "[{urn:x}orphan]: [unused_type] type is never referenced", all[1].String())
	assert.Equal(t, "unknown", Severity(9).String())
}
