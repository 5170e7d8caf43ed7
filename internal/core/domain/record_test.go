package domain

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"list":     KindList,
		"number":   KindNumber,
		" list ":   KindList,
		"":         KindPlain,
		"text":     KindPlain,
		"whatever": KindPlain,
	}
	for in, want := range tests {
		if got := ParseKind(in); got != want {
			t.Errorf("ParseKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSnapshotFromDocument(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{
		"plain": {"data": "<b>Hi</b>"},
		"list": {"type": "list", "data": ["Alpha", 3, "Beta", "Alpha"]},
		"gauge": {"type": "number", "originalValue": "75%", "percentageValue": "75"},
		"plain-bad": {"data": 12},
		"list-bad": {"type": "list", "data": "Alpha"},
		"gauge-bad": {"type": "number", "percentageValue": "lots"},
		"gauge-missing": {"type": "number", "originalValue": "x"},
		"gauge-nan": {"type": "number", "originalValue": "x", "percentageValue": "NaN"},
		"gauge-inf": {"type": "number", "originalValue": "x", "percentageValue": "Inf"},
		"gauge-high": {"type": "number", "originalValue": "x", "percentageValue": "500"},
		"gauge-negative": {"type": "number", "originalValue": "x", "percentageValue": "-20"},
		"other-type": {"type": "chart", "data": "x"},
		"scalar": "just a string"
	}`))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}

	snap := SnapshotFromDocument(doc)

	want := map[RegionKey]Record{
		"plain": PlainRecord{HTML: "<b>Hi</b>"},
		"list":  ListRecord{Items: []string{"Alpha", "Beta", "Alpha"}},
		"gauge": GaugeRecord{DisplayText: "75%", Percentage: 75},
	}
	for k, w := range want {
		if got := snap[k]; !reflect.DeepEqual(got, w) {
			t.Errorf("snap[%q] = %#v, want %#v", k, got, w)
		}
	}

	for _, k := range []RegionKey{"plain-bad", "list-bad", "gauge-bad", "gauge-missing", "gauge-nan", "gauge-inf", "gauge-high", "gauge-negative", "other-type", "scalar"} {
		if got := snap[k]; got == nil || got.Kind() != KindUnknown {
			t.Errorf("snap[%q] = %#v, want RawRecord", k, got)
		}
	}
}

func TestSnapshot_DocumentRoundTrip(t *testing.T) {
	snap := Snapshot{
		"a": PlainRecord{HTML: `<p class="x">a & b</p>`},
		"b": ListRecord{Items: []string{"one", "<two>"}},
		"c": GaugeRecord{DisplayText: "75,5", Percentage: 75.5},
	}

	data, err := snap.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	doc, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	got := SnapshotFromDocument(doc)
	if !reflect.DeepEqual(got, snap) {
		t.Errorf("round trip = %#v, want %#v", got, snap)
	}
}

func TestSnapshot_MarshalJSONKeepsMarkup(t *testing.T) {
	data, err := Snapshot{"k": PlainRecord{HTML: "<i>&</i>"}}.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"k":{"data":"<i>&</i>"}}`
	if string(data) != want {
		t.Errorf("MarshalJSON = %s, want %s", data, want)
	}
}

func TestGaugeRecordDocument(t *testing.T) {
	doc := Snapshot{"g": GaugeRecord{DisplayText: "3", Percentage: 3}}.Document()
	want := map[string]any{"type": "number", "originalValue": "3", "percentageValue": "3"}
	if !reflect.DeepEqual(doc["g"], want) {
		t.Errorf("document = %#v, want %#v", doc["g"], want)
	}
}

func TestDecodeDocument_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated", `{"a": {"data": "x"`},
		{"not json", `hello`},
		{"array", `[1, 2]`},
		{"number", `5`},
		{"trailing", `{} {}`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(tt.input))
			if !errors.Is(err, ErrDeserialization) {
				t.Errorf("DecodeDocument(%q) error = %v, want ErrDeserialization", tt.input, err)
			}
		})
	}
}

func TestDecodeDocument_Null(t *testing.T) {
	doc, err := DecodeDocument([]byte(" null "))
	if err != nil {
		t.Fatalf("DecodeDocument(null) error = %v", err)
	}
	if doc != nil {
		t.Errorf("DecodeDocument(null) = %v, want nil", doc)
	}
}

func TestSnapshot_Keys(t *testing.T) {
	snap := Snapshot{"b": PlainRecord{}, "a": PlainRecord{}, "c": PlainRecord{}}
	got := snap.Keys()
	want := []RegionKey{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestValidPercentage(t *testing.T) {
	tests := []struct {
		in   float64
		want bool
	}{
		{0, true},
		{55.5, true},
		{100, true},
		{-0.1, false},
		{100.01, false},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}
	for _, tt := range tests {
		if got := ValidPercentage(tt.in); got != tt.want {
			t.Errorf("ValidPercentage(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
