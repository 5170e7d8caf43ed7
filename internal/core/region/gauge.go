package region

import (
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/yndnr/pagekeep/internal/core/domain"
)

// Attribute keys cached on numeric regions.
const (
	DataOriginalValue   = "originalValue"
	DataPercentageValue = "percentageValue"
)

const (
	minPercent   = 0.0
	maxPercent   = 100.0
	percentScale = 100.0
)

var (
	lettersOnly = regexp.MustCompile(`^[a-zA-Zа-яА-Я\s\p{Zs}]+$`)
	nonNumeric  = regexp.MustCompile(`[^\d.,]`)
)

// ParsePercentage extracts a percentage in [0,100] from free text.
//
// Values above 1 are taken as percentages already ("75%" is 75); values up
// to 1 are fractions ("0.5" is 50). A comma is accepted as decimal
// separator. Empty text, text made only of letters, and text without any
// digit fail.
func ParsePercentage(text string) (float64, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}
	if lettersOnly.MatchString(trimmed) {
		return 0, false
	}

	clean := nonNumeric.ReplaceAllString(trimmed, "")
	if clean == "" {
		return 0, false
	}

	n, ok := leadingFloat(strings.ReplaceAll(clean, ",", "."))
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) || n < 0 {
		return 0, false
	}

	if n > 1 {
		return clamp(n), true
	}
	return clamp(n * percentScale), true
}

// leadingFloat parses the longest "digits[.digits]" prefix of s, which holds
// only digits and periods. "1.2.3" yields 1.2.
func leadingFloat(s string) (float64, bool) {
	end := len(s)
	if first := strings.IndexByte(s, '.'); first >= 0 {
		if second := strings.IndexByte(s[first+1:], '.'); second >= 0 {
			end = first + 1 + second
		}
	}
	prefix := s[:end]
	if strings.Trim(prefix, ".") == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func clamp(n float64) float64 {
	return math.Min(math.Max(n, minPercent), maxPercent)
}

// GaugeDefaults are the contextual percentages used when text cannot be
// parsed.
type GaugeDefaults struct {
	// MarkerClass on the region itself selects MarkerValue.
	MarkerClass string
	MarkerValue float64
	// Any of GroupClasses on an ancestor selects GroupValue.
	GroupClasses []string
	GroupValue   float64
	// Value applies otherwise.
	Value float64
}

// DefaultGaugeDefaults returns the built-in fallback tiers.
func DefaultGaugeDefaults() GaugeDefaults {
	return GaugeDefaults{
		MarkerClass:  "language-box__level",
		MarkerValue:  50,
		GroupClasses: []string{"tools-box", "skills-box"},
		GroupValue:   30,
		Value:        60,
	}
}

// GaugeOption configures a GaugeCodec.
type GaugeOption func(*GaugeCodec)

// WithGaugeDefaults overrides the fallback tiers.
func WithGaugeDefaults(d GaugeDefaults) GaugeOption {
	return func(c *GaugeCodec) {
		c.defaults = d
	}
}

// WithFallbackHook registers a function called on every parse fallback.
func WithFallbackHook(fn func()) GaugeOption {
	return func(c *GaugeCodec) {
		c.onFallback = fn
	}
}

// GaugeCodec stores a numeric region as display text plus percentage.
type GaugeCodec struct {
	defaults   GaugeDefaults
	logger     *slog.Logger
	onFallback func()
}

// NewGaugeCodec creates a gauge codec.
func NewGaugeCodec(logger *slog.Logger, opts ...GaugeOption) *GaugeCodec {
	if logger == nil {
		logger = slog.Default()
	}
	c := &GaugeCodec{
		defaults: DefaultGaugeDefaults(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Kind implements Codec.
func (*GaugeCodec) Kind() domain.Kind { return domain.KindNumber }

// Encode prefers the cached display text and percentage. Without a valid
// cached percentage the live text is parsed, falling back to the contextual
// default; a cached display text is kept either way.
func (c *GaugeCodec) Encode(r Region) domain.Record {
	text := strings.TrimSpace(r.TextContent())
	cachedDisplay, _ := r.Data(DataOriginalValue)

	if cached, ok := r.Data(DataPercentageValue); ok {
		p, err := strconv.ParseFloat(strings.TrimSpace(cached), 64)
		if err == nil && domain.ValidPercentage(p) {
			display := cachedDisplay
			if display == "" {
				display = text
			}
			return domain.GaugeRecord{DisplayText: display, Percentage: p}
		}
	}

	p, measured := c.Measure(r, text)
	if cachedDisplay != "" {
		measured = cachedDisplay
	}
	return domain.GaugeRecord{DisplayText: measured, Percentage: p}
}

// Measure parses text and returns its percentage and display string. On
// failure the contextual default is returned with "<n>%" as display.
func (c *GaugeCodec) Measure(r Region, text string) (float64, string) {
	if p, ok := ParsePercentage(text); ok {
		return p, strings.TrimSpace(text)
	}

	p := c.Default(r)
	display := domain.FormatPercentage(p) + "%"
	c.logger.Warn("invalid number input, using default",
		"input", text,
		"default", display,
	)
	if c.onFallback != nil {
		c.onFallback()
	}
	return p, display
}

// Default returns the contextual default percentage for r.
func (c *GaugeCodec) Default(r Region) float64 {
	if c.defaults.MarkerClass != "" && r.HasClass(c.defaults.MarkerClass) {
		return c.defaults.MarkerValue
	}
	for _, g := range c.defaults.GroupClasses {
		if r.HasAncestorClass(g) {
			return c.defaults.GroupValue
		}
	}
	return c.defaults.Value
}

// Decode caches display text and percentage as attributes and sets the live
// text to the display string.
func (c *GaugeCodec) Decode(r Region, rec domain.Record) {
	g, ok := rec.(domain.GaugeRecord)
	if !ok || !domain.ValidPercentage(g.Percentage) {
		return
	}

	pct := domain.FormatPercentage(g.Percentage)
	r.SetData(DataPercentageValue, pct)

	text := g.DisplayText
	if text != "" {
		r.SetData(DataOriginalValue, text)
	} else {
		r.DeleteData(DataOriginalValue)
		text = pct + "%"
	}
	r.SetTextContent(text)
}
