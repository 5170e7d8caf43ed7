package service

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/yndnr/pagekeep/internal/core/domain"
	"github.com/yndnr/pagekeep/internal/core/region"
)

// progressWidthProperty is the style property a presented gauge renders from.
const progressWidthProperty = "--progress-width"

// DataManager converts between a region sequence and a snapshot.
type DataManager struct {
	codecs *region.Codecs
	logger *slog.Logger
}

// NewDataManager creates a DataManager. A nil codecs uses region.NewCodecs.
func NewDataManager(codecs *region.Codecs, logger *slog.Logger) *DataManager {
	if logger == nil {
		logger = slog.Default()
	}
	if codecs == nil {
		codecs = region.NewCodecs(logger)
	}
	return &DataManager{codecs: codecs, logger: logger}
}

// Codecs returns the codec set in use.
func (m *DataManager) Codecs() *region.Codecs { return m.codecs }

// CollectSnapshot encodes every region, keyed by its derived key.
func (m *DataManager) CollectSnapshot(regions []region.Region) domain.Snapshot {
	snap := make(domain.Snapshot, len(regions))
	for i, r := range regions {
		snap[region.DeriveKey(r, i)] = m.codecs.For(r.Kind()).Encode(r)
	}
	return snap
}

// RestoreSnapshot decodes the matching record into each region and
// returns how many regions had one. Regions without a record are left
// untouched.
func (m *DataManager) RestoreSnapshot(regions []region.Region, snap domain.Snapshot) int {
	restored := 0
	for i, r := range regions {
		rec, ok := snap[region.DeriveKey(r, i)]
		if !ok || rec == nil {
			continue
		}
		m.codecs.For(r.Kind()).Decode(r, rec)
		restored++
	}
	return restored
}

// NormalizeListRegion rewrites r's markup as one escaped item per
// non-blank child.
func (m *DataManager) NormalizeListRegion(r region.Region) {
	m.codecs.List.Decode(r, m.codecs.List.Encode(r))
}

// NormalizeNumericRegion re-reads r's live text as the source of truth.
// Cached values are dropped, the text is parsed (falling back to the
// contextual default), and the result is cached and shown as text.
func (m *DataManager) NormalizeNumericRegion(r region.Region) {
	r.DeleteData(region.DataOriginalValue)
	r.DeleteData(region.DataPercentageValue)
	m.codecs.Gauge.Decode(r, m.codecs.Gauge.Encode(r))
}

// PresentGauge switches r to its progress-bar presentation. A region
// without a usable cached percentage is normalized first.
func (m *DataManager) PresentGauge(r region.Region) {
	p, ok := cachedPercentage(r)
	if !ok {
		m.NormalizeNumericRegion(r)
		p, _ = cachedPercentage(r)
	}

	r.AddClass(region.ProgressClass)
	r.SetStyleProperty(progressWidthProperty, domain.FormatPercentage(p)+"%")
	r.SetTextContent("")
}

// ReleaseGauge leaves the progress-bar presentation and puts editable text
// back: the cached display text, else the cached percentage, else the
// contextual default.
func (m *DataManager) ReleaseGauge(r region.Region) {
	r.RemoveClass(region.ProgressClass)
	r.RemoveStyleProperty(progressWidthProperty)

	if display, ok := r.Data(region.DataOriginalValue); ok {
		r.SetTextContent(display)
		return
	}
	if pct, ok := r.Data(region.DataPercentageValue); ok {
		r.SetTextContent(pct + "%")
		return
	}
	r.SetTextContent(domain.FormatPercentage(m.codecs.Gauge.Default(r)) + "%")
}

// InitializeGauges presents every numeric region that is not presented
// yet and returns how many it presented.
func (m *DataManager) InitializeGauges(regions []region.Region) int {
	n := 0
	for _, r := range regions {
		if r.Kind() != domain.KindNumber || r.HasClass(region.ProgressClass) {
			continue
		}
		m.PresentGauge(r)
		n++
	}
	return n
}

// ReleaseGauges releases every presented numeric region.
func (m *DataManager) ReleaseGauges(regions []region.Region) int {
	n := 0
	for _, r := range regions {
		if r.Kind() != domain.KindNumber || !r.HasClass(region.ProgressClass) {
			continue
		}
		m.ReleaseGauge(r)
		n++
	}
	return n
}

func cachedPercentage(r region.Region) (float64, bool) {
	raw, ok := r.Data(region.DataPercentageValue)
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, false
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !domain.ValidPercentage(p) {
		return 0, false
	}
	return p, true
}
