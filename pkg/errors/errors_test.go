package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "no manifest under %s", "/tmp/x")

	if err.Code != ErrCodeNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNotFound)
	}

	if err.Message != "no manifest under /tmp/x" {
		t.Errorf("Message = %v, want %v", err.Message, "no manifest under /tmp/x")
	}

	expected := "NOT_FOUND: no manifest under /tmp/x"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("expected '=' after key")
	err := Wrap(ErrCodeParse, cause, "parse manifest")

	if err.Code != ErrCodeParse {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeParse)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestWithPath(t *testing.T) {
	base := New(ErrCodeIO, "read failed")
	withPath := base.WithPath("/ws/crate/src/lib.rs")

	if withPath.Path != "/ws/crate/src/lib.rs" {
		t.Errorf("Path = %q, want %q", withPath.Path, "/ws/crate/src/lib.rs")
	}
	if base.Path != "" {
		t.Errorf("WithPath mutated the receiver: Path = %q", base.Path)
	}
	if got := GetPath(withPath); got != "/ws/crate/src/lib.rs" {
		t.Errorf("GetPath() = %q", got)
	}
	if got := GetPath(errors.New("plain")); got != "" {
		t.Errorf("GetPath(plain) = %q, want empty", got)
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
			err:      New(ErrCodeGlob, "test"),
			code:     ErrCodeGlob,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeGlob, "test"),
			code:     ErrCodeParse,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeParse, New(ErrCodeIO, "inner"), "outer"),
			code:     ErrCodeParse,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeParse,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeParse,
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
		{"Error type", New(ErrCodeInvalidManifest, "test"), ErrCodeInvalidManifest},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
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
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"wrapped", Wrap(ErrCodeParse, errors.New("bad key"), "parse x"), "parse x: bad key"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeNotFound, true},
		{ErrCodeGlob, true},
		{ErrCodeInternal, true},
		{ErrCodeParse, false},
		{ErrCodeIO, false},
		{ErrCodeInvalidManifest, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsFatal(New(tt.code, "x")); got != tt.want {
				t.Errorf("IsFatal(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
