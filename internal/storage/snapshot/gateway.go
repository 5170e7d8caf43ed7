package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/yndnr/pagekeep/internal/core/domain"
	"github.com/yndnr/pagekeep/internal/storage"
)

// Load outcomes.
const (
	LoadAbsent    = "absent"
	LoadLoaded    = "loaded"
	LoadMalformed = "malformed"
	LoadError     = "error"
)

// Save outcomes.
const (
	SaveWritten   = "written"
	SaveUnchanged = "unchanged"
	SaveError     = "error"
)

// Observer receives gateway outcomes, typically for metrics.
type Observer interface {
	ObserveLoad(outcome string, elapsed time.Duration)
	ObserveSave(outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveLoad(string, time.Duration) {}
func (nopObserver) ObserveSave(string, time.Duration) {}

// Gateway reads and writes the snapshot stored under one key.
//
// The fingerprint cache holds the hash of the last document loaded or
// successfully written. It is cleared when the stored document is absent
// and left untouched when a write fails, so the same data is retried on
// the next save.
type Gateway struct {
	store    storage.Store
	key      string
	hasher   Hasher
	logger   *slog.Logger
	observer Observer

	mu       sync.Mutex
	lastHash string
	hasHash  bool
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithHasher sets the fingerprint function. Default: RollingHasher.
func WithHasher(h Hasher) GatewayOption {
	return func(g *Gateway) {
		if h != nil {
			g.hasher = h
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithObserver sets the outcome observer.
func WithObserver(o Observer) GatewayOption {
	return func(g *Gateway) {
		if o != nil {
			g.observer = o
		}
	}
}

// NewGateway creates a gateway for key in store.
func NewGateway(store storage.Store, key string, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		store:    store,
		key:      key,
		hasher:   RollingHasher{},
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Key returns the storage key.
func (g *Gateway) Key() string { return g.key }

// Load reads the stored snapshot.
//
// An absent document (missing key, empty value or JSON null) returns
// (nil, false, nil) and clears the fingerprint cache. A stored value that
// is not a JSON object fails with domain.ErrDeserialization and a store
// failure with domain.ErrPersistence; neither changes the cache.
func (g *Gateway) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	start := time.Now()

	raw, err := g.store.Get(ctx, g.key)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		g.observer.ObserveLoad(LoadError, time.Since(start))
		g.logger.Error("snapshot load failed", "key", g.key, "error", err)
		return nil, false, domain.ErrPersistence.WithDetails("read " + g.key).WithCause(err)
	}

	var doc map[string]any
	if err == nil && raw != "" {
		doc, err = domain.DecodeDocument([]byte(raw))
		if err != nil {
			g.observer.ObserveLoad(LoadMalformed, time.Since(start))
			g.logger.Error("snapshot malformed", "key", g.key, "error", err)
			return nil, false, err
		}
	}

	if doc == nil {
		g.ResetCache()
		g.observer.ObserveLoad(LoadAbsent, time.Since(start))
		g.logger.Debug("snapshot absent", "key", g.key)
		return nil, false, nil
	}

	hash, err := Fingerprint(g.hasher, doc)
	if err != nil {
		g.observer.ObserveLoad(LoadMalformed, time.Since(start))
		return nil, false, domain.ErrDeserialization.WithCause(err)
	}

	g.mu.Lock()
	g.lastHash, g.hasHash = hash, true
	g.mu.Unlock()

	snap := domain.SnapshotFromDocument(doc)
	g.observer.ObserveLoad(LoadLoaded, time.Since(start))
	g.logger.Debug("snapshot loaded", "key", g.key, "regions", len(snap), "fingerprint", hash)
	return snap, true, nil
}

// Save writes snap unless its fingerprint equals the cached one.
// Returns true when a write happened. On failure the cache is unchanged
// and the error wraps domain.ErrPersistence.
func (g *Gateway) Save(ctx context.Context, snap domain.Snapshot) (bool, error) {
	start := time.Now()

	doc := snap.Document()
	canonical, err := Canonical(doc)
	if err != nil {
		g.observer.ObserveSave(SaveError, time.Since(start))
		return false, domain.ErrPersistence.WithDetails("encode snapshot").WithCause(err)
	}
	hash := g.hasher.Sum(canonical)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hasHash && g.lastHash == hash {
		g.observer.ObserveSave(SaveUnchanged, time.Since(start))
		g.logger.Debug("snapshot unchanged", "key", g.key, "fingerprint", hash)
		return false, nil
	}

	if err := g.store.Set(ctx, g.key, string(canonical)); err != nil {
		g.observer.ObserveSave(SaveError, time.Since(start))
		g.logger.Error("snapshot save failed", "key", g.key, "error", err)
		return false, domain.ErrPersistence.WithDetails("write " + g.key).WithCause(err)
	}

	g.lastHash, g.hasHash = hash, true
	g.observer.ObserveSave(SaveWritten, time.Since(start))
	g.logger.Debug("snapshot saved", "key", g.key, "regions", len(snap), "fingerprint", hash)
	return true, nil
}

// Delete removes the stored snapshot and clears the cache.
func (g *Gateway) Delete(ctx context.Context) error {
	if err := g.store.Delete(ctx, g.key); err != nil {
		return domain.ErrPersistence.WithDetails("delete " + g.key).WithCause(err)
	}
	g.ResetCache()
	return nil
}

// ResetCache forgets the last fingerprint, so the next Save always writes.
func (g *Gateway) ResetCache() {
	g.mu.Lock()
	g.lastHash, g.hasHash = "", false
	g.mu.Unlock()
}

// Fingerprint returns the cached fingerprint, if any.
func (g *Gateway) Fingerprint() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastHash, g.hasHash
}
