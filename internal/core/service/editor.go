package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yndnr/pagekeep/internal/core/domain"
	"github.com/yndnr/pagekeep/internal/core/region"
	"github.com/yndnr/pagekeep/internal/storage/snapshot"
)

// Editor drives one page: it restores the stored snapshot on Open, runs
// edit sessions on individual regions, autosaves after edits and flushes
// on Close. All methods are safe for concurrent use.
type Editor struct {
	manager   *DataManager
	gateway   *snapshot.Gateway
	autosaver *Autosaver
	logger    *slog.Logger

	mu      sync.Mutex
	regions []region.Region
	closed  bool
}

// EditorConfig configures an Editor.
type EditorConfig struct {
	// SaveDelay is the autosave quiet period. Default: DefaultSaveDelay.
	SaveDelay time.Duration

	// OnSave receives every save outcome.
	OnSave func(SaveResult)

	Logger *slog.Logger
}

// NewEditor creates an editor over regions, which must be in document order.
func NewEditor(regions []region.Region, manager *DataManager, gateway *snapshot.Gateway, cfg EditorConfig) *Editor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Editor{
		manager: manager,
		gateway: gateway,
		logger:  logger,
		regions: regions,
	}
	e.autosaver = NewAutosaver(cfg.SaveDelay, e.Save,
		WithSaveLogger(logger),
		WithResultHandler(cfg.OnSave),
	)
	return e
}

// Open restores the stored snapshot and presents numeric gauges. Gauges
// are presented even when loading fails; the load error is returned.
func (e *Editor) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return domain.ErrStoreClosed.WithDetails("editor closed")
	}

	// Gauges presented in the source page would hide restored text.
	e.manager.ReleaseGauges(e.regions)

	snap, ok, err := e.gateway.Load(ctx)
	if err == nil && ok {
		n := e.manager.RestoreSnapshot(e.regions, snap)
		e.logger.Debug("snapshot restored", "regions", len(e.regions), "restored", n)
	}

	e.manager.InitializeGauges(e.regions)
	return err
}

// BeginEdit starts an edit session on the region at index.
func (e *Editor) BeginEdit(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, err := e.regionLocked(index)
	if err != nil {
		return err
	}

	r.AddClass(region.EditingClass)
	if r.Kind() == domain.KindNumber {
		e.manager.ReleaseGauge(r)
	}
	return nil
}

// EndEdit finishes the edit session on the region at index, normalizes it
// and schedules an autosave.
func (e *Editor) EndEdit(index int) error {
	e.mu.Lock()
	r, err := e.regionLocked(index)
	if err != nil {
		e.mu.Unlock()
		return err
	}

	r.RemoveClass(region.EditingClass)
	switch r.Kind() {
	case domain.KindList:
		e.manager.NormalizeListRegion(r)
	case domain.KindNumber:
		e.manager.NormalizeNumericRegion(r)
		e.manager.PresentGauge(r)
	}
	e.autosaver.Schedule()
	e.mu.Unlock()
	return nil
}

// Edit runs fn on the region at index inside an edit session.
func (e *Editor) Edit(index int, fn func(region.Region)) error {
	if err := e.BeginEdit(index); err != nil {
		return err
	}

	e.mu.Lock()
	r, err := e.regionLocked(index)
	if err == nil {
		fn(r)
	}
	e.mu.Unlock()
	if err != nil {
		return err
	}

	return e.EndEdit(index)
}

// Snapshot collects the current snapshot.
func (e *Editor) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.manager.CollectSnapshot(e.regions)
}

// Save collects and saves now. Returns false when nothing changed.
func (e *Editor) Save(ctx context.Context) (bool, error) {
	e.mu.Lock()
	snap := e.manager.CollectSnapshot(e.regions)
	e.mu.Unlock()

	return e.gateway.Save(ctx, snap)
}

// Replace swaps in a new region sequence, e.g. after the page was reloaded.
func (e *Editor) Replace(regions []region.Region) {
	e.mu.Lock()
	e.regions = regions
	e.mu.Unlock()
}

// ScheduleSave starts or restarts the autosave quiet period. It does nothing
// once the editor is closed.
func (e *Editor) ScheduleSave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.autosaver.Schedule()
}

// PendingSave reports whether an autosave is scheduled.
func (e *Editor) PendingSave() bool { return e.autosaver.Pending() }

// Close cancels any pending autosave, saves once and marks the editor closed.
func (e *Editor) Close(ctx context.Context) (bool, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false, nil
	}
	e.closed = true
	e.mu.Unlock()

	return e.autosaver.Flush(ctx)
}

func (e *Editor) regionLocked(index int) (region.Region, error) {
	if e.closed {
		return nil, domain.ErrStoreClosed.WithDetails("editor closed")
	}
	if index < 0 || index >= len(e.regions) {
		return nil, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("region index %d out of range [0, %d)", index, len(e.regions)))
	}
	return e.regions[index], nil
}
