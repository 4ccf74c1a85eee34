package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name:     "overflow with context",
			err:      BufferOverflow(PhaseMutate, 12, 8),
			contains: []string{"[mutate]", "buffer_overflow", "probable buffer overflow: 12 for 8"},
		},
		{
			name:     "negative size",
			err:      NegativeSize(PhaseConstruct, -1),
			contains: []string{"[construct]", "invalid_argument", "negative string size"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseConvert,
				Kind:   KindConversion,
				Detail: "invalid byte sequence",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[convert]", "conversion", "invalid byte sequence", "caused by", "underlying error"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseMaterialize,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[materialize]", "out_of_bounds"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseConvert, KindConversion, cause, "transcode")

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap did not return the cause")
	}
}

func TestError_Is(t *testing.T) {
	a := BufferOverflow(PhaseMutate, 10, 5)
	b := BufferOverflow(PhaseMutate, 99, 1)
	c := NegativeSize(PhaseMutate, -3)

	if !errors.Is(a, b) {
		t.Error("same phase+kind should match")
	}
	if errors.Is(a, c) {
		t.Error("different kind should not match")
	}
	if errors.Is(a, BufferOverflow(PhaseConstruct, 10, 5)) {
		t.Error("different phase should not match")
	}
}

func TestError_Context(t *testing.T) {
	err := BufferOverflow(PhaseMutate, 12, 8)
	if err.Requested != 12 || err.Limit != 8 {
		t.Fatalf("expected requested=12 limit=8, got %d/%d", err.Requested, err.Limit)
	}

	err = SizeTooBig(1<<40, 1<<31-1)
	if err.Requested != 1<<40 {
		t.Fatalf("expected requested to carry the oversized value, got %d", err.Requested)
	}
}

func TestUnknownEncoding(t *testing.T) {
	err := UnknownEncoding("KOI8-X")
	if err.Kind != KindUnknownEncoding {
		t.Fatalf("expected unknown_encoding kind, got %s", err.Kind)
	}
	if !strings.Contains(err.Error(), "KOI8-X") {
		t.Errorf("message should name the encoding: %q", err.Error())
	}
}
