package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats data as YAML.
type YAMLFormatter struct{}

// Format formats data as YAML. Values implementing json.Marshaler (such
// as domain.Snapshot) are rendered through their JSON form so both
// formats show the same document.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	if m, ok := data.(json.Marshaler); ok {
		raw, err := m.MarshalJSON()
		if err != nil {
			return err
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		data = doc
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}
