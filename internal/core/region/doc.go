// Package region derives stable keys for editable regions and converts their
// live state to and from domain records.
//
// A Region is a caller-owned handle: codecs read and mutate it in place and
// never retain it. Three codecs exist, one per declared kind:
//
//   - PlainCodec: inner markup, minus transient ripple decoration
//   - ListCodec: trimmed text of immediate children, rebuilt as <li> items
//   - GaugeCodec: display text plus a percentage in [0,100]
//
// Decoding is forgiving. An absent record, or a record of another variant,
// leaves the region untouched and is never reported as an error.
package region
