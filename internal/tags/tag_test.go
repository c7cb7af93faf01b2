package tags_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/JaimeStill/docman/internal/tags"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"finance":    "finance",
		"  Finance ": "finance",
		"Q3-Report":  "q3-report",
		"\tlegal\n":  "legal",
		"   ":        "",
	}

	for in, want := range tests {
		assert.Equal(t, want, tags.Normalize(in), "Normalize(%q)", in)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{tags.ErrNotFound, http.StatusNotFound},
		{tags.ErrDuplicate, http.StatusConflict},
		{tags.ErrNameRequired, http.StatusBadRequest},
		{fmt.Errorf("attach: %w", access.ErrForbidden), http.StatusForbidden},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tags.MapHTTPStatus(tt.err), tt.err.Error())
	}
}
