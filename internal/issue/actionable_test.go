// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name: "operation only",
			err: &ActionableError{
				Operation: "load add-on",
			},
			expected: "failed to load add-on",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "load add-on",
				Resource:  "./my-addon",
			},
			expected: "failed to load add-on: ./my-addon",
		},
		{
			name: "operation with cause",
			err: &ActionableError{
				Operation: "parse manifest",
				Cause:     errors.New("syntax error at line 5"),
			},
			expected: "failed to parse manifest: syntax error at line 5",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load add-on",
				Resource:  "./my-addon",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to load add-on: ./my-addon: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ActionableError{
		Operation: "test",
		Cause:     cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap() should return the cause error")
	}

	errNoCause := &ActionableError{Operation: "test"}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := &ActionableError{
		Operation: "test",
		Cause:     cause,
	}

	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Run("suggestions are listed", func(t *testing.T) {
		err := &ActionableError{
			Operation:   "package add-on",
			Suggestions: []string{"Check the path", "Run 'blendpack validate'"},
		}

		out := err.Format(false)
		if !strings.Contains(out, "• Check the path") {
			t.Errorf("Format() missing first suggestion: %q", out)
		}
		if !strings.Contains(out, "• Run 'blendpack validate'") {
			t.Errorf("Format() missing second suggestion: %q", out)
		}
	})

	t.Run("verbose includes error chain", func(t *testing.T) {
		inner := errors.New("root cause")
		err := &ActionableError{
			Operation: "package add-on",
			Cause:     fmt.Errorf("mid layer: %w", inner),
		}

		concise := err.Format(false)
		if strings.Contains(concise, "Error chain:") {
			t.Errorf("non-verbose Format() should not include the chain: %q", concise)
		}

		out := err.Format(true)
		if !strings.Contains(out, "Error chain:") {
			t.Errorf("verbose Format() missing error chain: %q", out)
		}
		if !strings.Contains(out, "root cause") {
			t.Errorf("verbose Format() missing root cause: %q", out)
		}
	})
}

func TestErrorContext_Build(t *testing.T) {
	t.Run("full builder", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewErrorContext().
			WithOperation("open registry").
			WithResource("registry.db").
			WithSuggestion("Check file permissions").
			WithSuggestions("Delete the database to reset history").
			Wrap(cause).
			Build()

		if err == nil {
			t.Fatal("Build() returned nil")
		}
		if err.Operation != "open registry" {
			t.Errorf("Operation = %q", err.Operation)
		}
		if err.Resource != "registry.db" {
			t.Errorf("Resource = %q", err.Resource)
		}
		if len(err.Suggestions) != 2 {
			t.Errorf("Suggestions = %v", err.Suggestions)
		}
		if !errors.Is(err, cause) {
			t.Error("cause not wrapped")
		}
		if !err.HasSuggestions() {
			t.Error("HasSuggestions() = false")
		}
	})

	t.Run("missing operation returns nil", func(t *testing.T) {
		if NewErrorContext().WithResource("x").Build() != nil {
			t.Error("Build() without operation should return nil")
		}
		if NewErrorContext().WithResource("x").BuildError() != nil {
			t.Error("BuildError() without operation should return nil")
		}
	})
}

func TestWrapHelpers(t *testing.T) {
	if WrapWithOperation(nil, "op") != nil {
		t.Error("WrapWithOperation(nil) should return nil")
	}
	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}

	cause := errors.New("boom")
	wrapped := WrapWithContext(cause, "stage files", "./src")
	if wrapped.Error() != "failed to stage files: ./src: boom" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}
