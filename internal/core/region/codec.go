package region

import (
	"log/slog"

	"github.com/yndnr/pagekeep/internal/core/domain"
)

// Codec converts one kind of region to and from its record.
type Codec interface {
	Kind() domain.Kind
	Encode(r Region) domain.Record
	// Decode applies rec to r. A nil record or one of another variant is a
	// no-op.
	Decode(r Region, rec domain.Record)
}

// Codecs dispatches on a region's declared kind.
type Codecs struct {
	Plain *PlainCodec
	List  *ListCodec
	Gauge *GaugeCodec
}

// NewCodecs returns the default codec set.
func NewCodecs(logger *slog.Logger, opts ...GaugeOption) *Codecs {
	return &Codecs{
		Plain: &PlainCodec{},
		List:  &ListCodec{},
		Gauge: NewGaugeCodec(logger, opts...),
	}
}

// For returns the codec responsible for kind. Unknown kinds are plain.
func (c *Codecs) For(kind domain.Kind) Codec {
	switch kind {
	case domain.KindList:
		return c.List
	case domain.KindNumber:
		return c.Gauge
	default:
		return c.Plain
	}
}
