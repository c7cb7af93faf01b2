package annotations

import (
	"net/http"
	"testing"

	"github.com/JaimeStill/docman/internal/access"
	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestCreateCommand_Validate(t *testing.T) {
	tests := []struct {
		name string
		cmd  CreateCommand
		want error
	}{
		{"page only", CreateCommand{Page: 1, Content: "typo"}, nil},
		{"corners", CreateCommand{Page: 3, Content: "x", X: ptr(0), Y: ptr(1)}, nil},
		{"no content", CreateCommand{Page: 1}, ErrContentRequired},
		{"page zero", CreateCommand{Page: 0, Content: "x"}, ErrInvalidPosition},
		{"x outside page", CreateCommand{Page: 1, Content: "x", X: ptr(1.5)}, ErrInvalidPosition},
		{"negative y", CreateCommand{Page: 1, Content: "x", Y: ptr(-0.1)}, ErrInvalidPosition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cmd.validate(), tt.want)
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, MapHTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, MapHTTPStatus(ErrInvalidPosition))
	assert.Equal(t, http.StatusForbidden, MapHTTPStatus(access.ErrForbidden))
}
