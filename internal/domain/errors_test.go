package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"direct", NewError(KindTransport, "caption.post", base), KindTransport},
		{"wrapped", fmt.Errorf("upload: %w", NewError(KindIO, "storage.save", base)), KindIO},
		{"validation", NewValidationError("media.upload", "No file uploaded"), KindValidation},
		{"plain", base, KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessageIncludesDetail(t *testing.T) {
	err := &Error{
		Kind:   KindUpstream,
		Op:     "caption.post",
		Path:   "http://localhost:5000/generate_caption",
		Status: 503,
		Err:    errors.New("model loading"),
	}

	msg := err.Error()
	for _, want := range []string{"caption.post", "upstream", "status 503", "model loading"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	if !errors.Is(err, err.Err) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
}
