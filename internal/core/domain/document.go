package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// DecodeDocument parses persisted bytes into a generic document.
//
// A JSON null yields (nil, nil) and is treated by callers as an absent
// document. Anything that is not a single JSON object fails with
// ErrDeserialization. Numbers are kept as json.Number so that re-encoding
// reproduces them exactly.
func DecodeDocument(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, ErrDeserialization.WithCause(err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, ErrDeserialization.WithDetails("trailing data after document")
	}

	if v == nil {
		return nil, nil
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, ErrDeserialization.WithDetails("document is not an object")
	}
	return doc, nil
}

// EncodeDocument serializes a generic document without HTML escaping, so
// that markup is stored as-is.
func EncodeDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
