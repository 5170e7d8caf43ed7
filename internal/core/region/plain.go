package region

import (
	"strings"

	"github.com/yndnr/pagekeep/internal/core/domain"
)

// PlainCodec stores the inner markup of a rich-text region.
type PlainCodec struct{}

// Kind implements Codec.
func (*PlainCodec) Kind() domain.Kind { return domain.KindPlain }

// Encode copies the inner markup, dropping ripple decoration subtrees.
func (*PlainCodec) Encode(r Region) domain.Record {
	markup := r.InnerHTML()
	if strings.Contains(markup, RippleClass) {
		markup = stripClassSubtrees(markup, RippleClass)
	}
	return domain.PlainRecord{HTML: markup}
}

// Decode sets the inner markup verbatim.
func (*PlainCodec) Decode(r Region, rec domain.Record) {
	p, ok := rec.(domain.PlainRecord)
	if !ok {
		return
	}
	r.SetInnerHTML(p.HTML)
}
