package decode_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/JaimeStill/docman/pkg/decode"
)

type rename struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func TestJSON(t *testing.T) {
	got, err := decode.JSON[rename](strings.NewReader(`{"name":"Q3 report"}`))
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if got.Name != "Q3 report" || got.Description != nil {
		t.Errorf("JSON() = %+v", got)
	}
}

func TestJSON_Errors(t *testing.T) {
	if _, err := decode.JSON[rename](strings.NewReader("")); !errors.Is(err, decode.ErrEmptyBody) {
		t.Errorf("empty body error = %v, want %v", err, decode.ErrEmptyBody)
	}
	if _, err := decode.JSON[rename](strings.NewReader(`{"nmae":"x"}`)); err == nil {
		t.Error("unknown field should be rejected")
	}
}

func TestFromMap(t *testing.T) {
	got, err := decode.FromMap[rename](map[string]any{"name": "notes", "description": "draft"})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}
	if got.Name != "notes" || got.Description == nil || *got.Description != "draft" {
		t.Errorf("FromMap() = %+v", got)
	}
}
