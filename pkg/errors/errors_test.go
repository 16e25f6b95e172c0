package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/stackfetch/pkg/position"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeFetchingDependencies, cause, "fetching dependencies")

	if err.Code != ErrCodeFetchingDependencies {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFetchingDependencies)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestWithPositionsCopies(t *testing.T) {
	base := New(ErrCodeMissingScalaVersion, "no scala")
	a := base.WithPositions(position.Position{File: "a.scala", Line: 1})
	b := a.WithPositions(position.Position{File: "b.scala", Line: 2})

	if len(base.Positions) != 0 {
		t.Errorf("base mutated: %v", base.Positions)
	}
	if len(a.Positions) != 1 || len(b.Positions) != 2 {
		t.Errorf("positions = %v / %v", a.Positions, b.Positions)
	}
	if got := Positions(b); len(got) != 2 || got[1].File != "b.scala" {
		t.Errorf("Positions() = %v", got)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeRepositoryFormat, "test"),
			code:     ErrCodeRepositoryFormat,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeFetchingDependencies, New(ErrCodeNetwork, "inner"), "outer"),
			code:     ErrCodeFetchingDependencies,
			expected: true,
		},
		{
			name:     "composite",
			err:      Aggregate(New(ErrCodeMissingScalaVersion, "x")),
			code:     ErrCodeComposite,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeMissingScalaVersion, "test"),
			expected: ErrCodeMissingScalaVersion,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCombine(t *testing.T) {
	a := New(ErrCodeNetwork, "a")
	b := New(ErrCodeNotFound, "b")

	if Combine() != nil || Combine(nil, nil) != nil {
		t.Error("Combine of nothing should be nil")
	}
	if got := Combine(nil, a); got != a {
		t.Errorf("Combine(single) = %v, want the error itself", got)
	}
	got := Combine(a, nil, b)
	c, ok := got.(*Composite)
	if !ok {
		t.Fatalf("Combine(two) = %T, want *Composite", got)
	}
	if len(c.Errors) != 2 {
		t.Errorf("Errors = %d, want 2", len(c.Errors))
	}
	if !errors.Is(got, a) || !errors.Is(got, b) {
		t.Error("composite should unwrap to both members")
	}
}

func TestAggregateWrapsSingle(t *testing.T) {
	a := New(ErrCodeMissingScalaVersion, "a")
	got := Aggregate(a)
	if _, ok := got.(*Composite); !ok {
		t.Fatalf("Aggregate(single) = %T, want *Composite", got)
	}
	var e *Error
	if !errors.As(got, &e) || e.Code != ErrCodeMissingScalaVersion {
		t.Error("errors.As should find the member")
	}
	if Aggregate(nil) != nil {
		t.Error("Aggregate(nil) should be nil")
	}
}

func TestFlattenAndReport(t *testing.T) {
	a := New(ErrCodeMissingScalaVersion, "needs scala").
		WithPositions(position.Position{File: "main.scala", Line: 2, Column: 5})
	b := New(ErrCodeRepositoryFormat, "bad repo")
	c := New(ErrCodeFetchingDependencies, "fetch failed")
	nested := Combine(Combine(a, b), c)

	leaves := Flatten(nested)
	if len(leaves) != 3 {
		t.Fatalf("Flatten() = %d leaves, want 3", len(leaves))
	}

	lines := Report(nested)
	if len(lines) != 3 {
		t.Fatalf("Report() = %v", lines)
	}
	if !strings.HasPrefix(lines[0], "main.scala:2:5: ") {
		t.Errorf("first line should carry position, got %q", lines[0])
	}
	if !strings.Contains(lines[1], ": bad repo") {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidDependency,
		ErrCodeRepositoryFormat,
		ErrCodeMissingScalaVersion,
		ErrCodeFetchingDependencies,
		ErrCodeComposite,
		ErrCodeNotFound,
		ErrCodePackageNotFound,
		ErrCodeNetwork,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
