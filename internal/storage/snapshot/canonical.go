package snapshot

import (
	"bytes"
	"encoding/json"
	"slices"
	"unicode/utf16"

	"github.com/yndnr/pagekeep/internal/core/domain"
)

// Canonical returns the canonical JSON form of v. Object keys are sorted
// by UTF-16 code units at every depth, array order is kept, and markup is
// not HTML-escaped. Two documents that differ only in key order have the
// same canonical form.
func Canonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case domain.Snapshot:
		return writeCanonical(buf, t.Document())

	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareUTF16)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, t[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case []string:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case nil, string, bool, json.Number, float64, int, int64:
		return writeScalar(buf, t)

	default:
		// Anything else is normalized through its JSON form first.
		data, err := domain.EncodeDocument(t)
		if err != nil {
			return err
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var generic any
		if err := dec.Decode(&generic); err != nil {
			return err
		}
		return writeCanonical(buf, generic)
	}
}

func writeScalar(buf *bytes.Buffer, v any) error {
	data, err := domain.EncodeDocument(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// compareUTF16 orders strings the way a UTF-16 string sort does, which
// differs from byte order only for characters outside the BMP.
func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}
