package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/yndnr/pagekeep/internal/core/domain"
	"github.com/yndnr/pagekeep/internal/storage"
	"github.com/yndnr/pagekeep/internal/storage/snapshot"
)

// Verify validates the configuration. Errors match domain.ErrInvalidConfig.
func Verify(cfg *Config) error {
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if _, err := snapshot.NewHasher(cfg.Snapshot.Fingerprint); err != nil {
		return invalid("snapshot.fingerprint: %v", err)
	}
	if err := verifyAutosave(&cfg.Autosave); err != nil {
		return err
	}
	if cfg.Backup.RetentionCount < 1 {
		return invalid("backup.retention_count must be at least 1")
	}
	if err := verifyGauge(&cfg.Gauge); err != nil {
		return err
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", "text", "console", "json":
	default:
		return invalid("log.format %q is not one of text, json", cfg.Log.Format)
	}
	return nil
}

func verifyStorage(s *StorageSection) error {
	switch s.Engine {
	case storage.EngineMemory:
	case storage.EngineFile, storage.EngineBadger, storage.EngineSQLite:
		if s.Dir == "" {
			return invalid("storage.dir is required for engine %s", s.Engine)
		}
	default:
		return invalid("storage.engine %q is not one of memory, file, badger, sqlite", s.Engine)
	}

	if s.Key == "" {
		return invalid("storage.key is required")
	}

	switch storage.CipherType(s.Cipher) {
	case "", storage.CipherAuto, storage.CipherAESGCM, storage.CipherChaCha20:
	default:
		return invalid("storage.cipher %q is not supported", s.Cipher)
	}
	if s.EncryptionKey != "" {
		if _, err := storage.ParseKey(s.EncryptionKey); err != nil {
			return invalid("storage.encryption_key: %v", err)
		}
	}

	if s.Engine == storage.EngineBadger {
		if _, err := time.ParseDuration(s.Badger.GCInterval); err != nil {
			return invalid("storage.badger.gc_interval: %v", err)
		}
		if s.Badger.GCThreshold <= 0 || s.Badger.GCThreshold >= 1 {
			return invalid("storage.badger.gc_threshold must be in (0, 1)")
		}
	}
	return nil
}

func verifyAutosave(a *AutosaveSection) error {
	d, err := time.ParseDuration(a.Delay)
	if err != nil {
		return invalid("autosave.delay: %v", err)
	}
	if d <= 0 {
		return invalid("autosave.delay must be positive")
	}
	t, err := time.ParseDuration(a.ShutdownTimeout)
	if err != nil {
		return invalid("autosave.shutdown_timeout: %v", err)
	}
	if t <= 0 {
		return invalid("autosave.shutdown_timeout must be positive")
	}
	return nil
}

func verifyGauge(g *GaugeSection) error {
	for name, v := range map[string]float64{
		"gauge.marker_value": g.MarkerValue,
		"gauge.group_value":  g.GroupValue,
		"gauge.value":        g.Value,
	} {
		if v < 0 || v > 100 {
			return invalid("%s must be within [0, 100]", name)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return domain.ErrInvalidConfig.WithDetails(fmt.Sprintf(format, args...))
}
