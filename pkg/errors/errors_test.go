package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty vocabulary", ErrEmptyVocabulary, http.StatusUnprocessableEntity},
		{"wrapped pattern", fmt.Errorf("compiling: %w", ErrInvalidPattern), http.StatusBadRequest},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"unavailable", ErrUnavailable, http.StatusServiceUnavailable},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"app error status", New(ErrInternal, http.StatusTeapot, "short and stout"), http.StatusTeapot},
		{"app error without status", Newf(ErrNotFound, 0, "card %q", "x"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("HTTPStatusCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := Newf(ErrInvalidPattern, http.StatusBadRequest, "missing ) at offset %d", 4)
	want := "invalid pattern: missing ) at offset 4"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
