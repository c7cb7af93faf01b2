// Package decode converts loosely typed request payloads into typed values.
package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrEmptyBody is returned by JSON when the reader holds no document.
var ErrEmptyBody = errors.New("request body is empty")

// JSON decodes a single JSON document from r, rejecting unknown fields.
func JSON[T any](r io.Reader) (T, error) {
	var result T

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&result); err != nil {
		if errors.Is(err, io.EOF) {
			return result, ErrEmptyBody
		}
		return result, fmt.Errorf("decode body: %w", err)
	}
	return result, nil
}

// FromMap re-encodes data as JSON and decodes it into T.
func FromMap[T any](data map[string]any) (T, error) {
	var result T
	b, err := json.Marshal(data)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(b, &result)
	return result, err
}
