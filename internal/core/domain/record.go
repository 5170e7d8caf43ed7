package domain

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the declared kind of an editable region.
type Kind string

const (
	// KindPlain is free-form rich text stored as markup.
	KindPlain Kind = "plain"
	// KindList is an ordered list of text items.
	KindList Kind = "list"
	// KindNumber is a percentage-style numeric gauge.
	KindNumber Kind = "number"
	// KindUnknown marks records that match no known variant.
	KindUnknown Kind = "unknown"
)

// Wire values of the "type" field in a persisted record.
const (
	wireTypeList   = "list"
	wireTypeNumber = "number"
)

// ParseKind maps a declared kind discriminator to a Kind.
// Anything other than "list" or "number" declares a plain region.
func ParseKind(s string) Kind {
	switch strings.TrimSpace(s) {
	case wireTypeList:
		return KindList
	case wireTypeNumber:
		return KindNumber
	default:
		return KindPlain
	}
}

// RegionKey identifies a region within a Snapshot.
type RegionKey string

// Record is the serialized state of one region.
//
// The set of variants is closed: PlainRecord, ListRecord, GaugeRecord and
// RawRecord. RawRecord carries stored values that match no variant and is
// never accepted by a codec.
type Record interface {
	Kind() Kind
	document() any
}

// PlainRecord holds the inner markup of a rich-text region.
type PlainRecord struct {
	HTML string
}

// Kind implements Record.
func (PlainRecord) Kind() Kind { return KindPlain }

func (r PlainRecord) document() any {
	return map[string]any{"data": r.HTML}
}

// ListRecord holds the ordered items of a list region. Duplicates are allowed.
type ListRecord struct {
	Items []string
}

// Kind implements Record.
func (ListRecord) Kind() Kind { return KindList }

func (r ListRecord) document() any {
	items := make([]any, len(r.Items))
	for i, item := range r.Items {
		items[i] = item
	}
	return map[string]any{"type": wireTypeList, "data": items}
}

// GaugeRecord holds the display text and percentage of a numeric gauge.
type GaugeRecord struct {
	DisplayText string
	Percentage  float64
}

// Kind implements Record.
func (GaugeRecord) Kind() Kind { return KindNumber }

func (r GaugeRecord) document() any {
	return map[string]any{
		"type":            wireTypeNumber,
		"originalValue":   r.DisplayText,
		"percentageValue": FormatPercentage(r.Percentage),
	}
}

// RawRecord preserves a stored value that is not a well-formed record.
type RawRecord struct {
	Value any
}

// Kind implements Record.
func (RawRecord) Kind() Kind { return KindUnknown }

func (r RawRecord) document() any { return r.Value }

// ValidPercentage reports whether p is a finite value in [0,100].
func ValidPercentage(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 100
}

// FormatPercentage renders a percentage the way it is persisted: the shortest
// decimal representation, without exponent.
func FormatPercentage(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// Snapshot maps region keys to their records. Order is irrelevant.
type Snapshot map[RegionKey]Record

// Keys returns the snapshot keys in ascending order.
func (s Snapshot) Keys() []RegionKey {
	keys := make([]RegionKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Document returns the generic JSON form of the snapshot.
func (s Snapshot) Document() map[string]any {
	doc := make(map[string]any, len(s))
	for k, r := range s {
		if r == nil {
			continue
		}
		doc[string(k)] = r.document()
	}
	return doc
}

// MarshalJSON encodes the snapshot in its persisted form.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return EncodeDocument(s.Document())
}

// SnapshotFromDocument converts a parsed document into a Snapshot.
// Malformed entries become RawRecords; they never fail the conversion.
func SnapshotFromDocument(doc map[string]any) Snapshot {
	snap := make(Snapshot, len(doc))
	for k, v := range doc {
		snap[RegionKey(k)] = recordFromValue(v)
	}
	return snap
}

func recordFromValue(v any) Record {
	m, ok := v.(map[string]any)
	if !ok {
		return RawRecord{Value: v}
	}

	typ, hasType := m["type"]
	if !hasType {
		if html, ok := m["data"].(string); ok {
			return PlainRecord{HTML: html}
		}
		return RawRecord{Value: v}
	}

	switch typ {
	case wireTypeList:
		data, ok := m["data"].([]any)
		if !ok {
			return RawRecord{Value: v}
		}
		items := make([]string, 0, len(data))
		for _, item := range data {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
		return ListRecord{Items: items}

	case wireTypeNumber:
		raw, ok := m["percentageValue"].(string)
		if !ok {
			return RawRecord{Value: v}
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || !ValidPercentage(p) {
			return RawRecord{Value: v}
		}
		display, _ := m["originalValue"].(string)
		return GaugeRecord{DisplayText: display, Percentage: p}
	}

	return RawRecord{Value: v}
}
