package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/pagekeep/internal/core/domain"
	"github.com/yndnr/pagekeep/internal/infra/confloader"
	"github.com/yndnr/pagekeep/internal/storage"
	"github.com/yndnr/pagekeep/internal/storage/snapshot"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestDefault_Verifies(t *testing.T) {
	cfg := Default()
	if err := Verify(cfg); err != nil {
		t.Fatalf("Verify(Default()) error = %v", err)
	}
	if cfg.Storage.Engine != storage.EngineFile {
		t.Errorf("Engine = %q, want file", cfg.Storage.Engine)
	}
	if cfg.Storage.Key != "resume-data" {
		t.Errorf("Key = %q, want resume-data", cfg.Storage.Key)
	}
	if cfg.AutosaveDelay() != 100*time.Millisecond {
		t.Errorf("AutosaveDelay() = %v, want 100ms", cfg.AutosaveDelay())
	}
	if got := cfg.GaugeDefaults().GroupClasses; len(got) != 2 {
		t.Errorf("default GroupClasses = %v, want built-in pair", got)
	}
	if cfg.Snapshot.Fingerprint != "rolling" {
		t.Errorf("Fingerprint = %q, want rolling", cfg.Snapshot.Fingerprint)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown engine", func(c *Config) { c.Storage.Engine = "redis" }, "storage.engine"},
		{"file without dir", func(c *Config) { c.Storage.Dir = "" }, "storage.dir"},
		{"memory without dir", func(c *Config) { c.Storage.Engine = "memory"; c.Storage.Dir = "" }, ""},
		{"empty key", func(c *Config) { c.Storage.Key = "" }, "storage.key"},
		{"bad cipher", func(c *Config) { c.Storage.Cipher = "rot13" }, "storage.cipher"},
		{"bad encryption key", func(c *Config) { c.Storage.EncryptionKey = "abc" }, "storage.encryption_key"},
		{"good encryption key", func(c *Config) { c.Storage.EncryptionKey = testKey }, ""},
		{"bad gc interval", func(c *Config) {
			c.Storage.Engine = "badger"
			c.Storage.Badger.GCInterval = "soon"
		}, "gc_interval"},
		{"bad gc threshold", func(c *Config) {
			c.Storage.Engine = "badger"
			c.Storage.Badger.GCThreshold = 1.5
		}, "gc_threshold"},
		{"unknown fingerprint", func(c *Config) { c.Snapshot.Fingerprint = "md5" }, "snapshot.fingerprint"},
		{"murmur3 fingerprint", func(c *Config) { c.Snapshot.Fingerprint = "murmur3" }, ""},
		{"zero delay", func(c *Config) { c.Autosave.Delay = "0s" }, "autosave.delay"},
		{"bad delay", func(c *Config) { c.Autosave.Delay = "fast" }, "autosave.delay"},
		{"bad shutdown timeout", func(c *Config) { c.Autosave.ShutdownTimeout = "" }, "shutdown_timeout"},
		{"retention", func(c *Config) { c.Backup.RetentionCount = 0 }, "retention_count"},
		{"gauge range", func(c *Config) { c.Gauge.Value = 120 }, "gauge.value"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Verify(cfg)
			if tt.errMsg == "" {
				if err != nil {
					t.Fatalf("Verify() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Verify() should fail with %q", tt.errMsg)
			}
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("error %v should match ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error %q should mention %q", err, tt.errMsg)
			}
		})
	}
}

func TestLoad_FromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagekeep.yaml")
	content := `
storage:
  engine: sqlite
  dir: /tmp/pk
  badger:
    gc_interval: 1m
snapshot:
  fingerprint: sha256
gauge:
  group_classes: [tools-box]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("PAGEKEEP_STORAGE_KEY", "cv-data")
	t.Setenv("PAGEKEEP_AUTOSAVE_DELAY", "250ms")

	cfg := Default()
	if err := confloader.NewLoader(confloader.WithConfigFile(path)).Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := Verify(cfg); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if cfg.Storage.Engine != "sqlite" || cfg.Storage.Dir != "/tmp/pk" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Key != "cv-data" {
		t.Errorf("Key = %q, want cv-data from env", cfg.Storage.Key)
	}
	if cfg.AutosaveDelay() != 250*time.Millisecond {
		t.Errorf("AutosaveDelay() = %v", cfg.AutosaveDelay())
	}
	if cfg.Storage.Badger.GCThreshold != 0.5 {
		t.Errorf("GCThreshold = %v, default should survive", cfg.Storage.Badger.GCThreshold)
	}
	if got := cfg.GaugeDefaults().GroupClasses; len(got) != 1 || got[0] != "tools-box" {
		t.Errorf("GroupClasses = %v", got)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Level = %q, want default", cfg.Log.Level)
	}
}

func TestStorageConfig(t *testing.T) {
	cfg := Default()
	cfg.Storage.Engine = "badger"
	cfg.Storage.Dir = "/data"
	cfg.Storage.EncryptionKey = testKey

	sc := cfg.StorageConfig()
	if sc.Engine != "badger" || sc.Dir != "/data" || sc.EncryptionKey != testKey {
		t.Errorf("StorageConfig() = %+v", sc)
	}
	if sc.Badger.GCInterval != "10m" || !sc.Badger.SyncWrites {
		t.Errorf("Badger = %+v", sc.Badger)
	}
}

func TestArchiveConfig(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		cfg := Default()
		cfg.Storage.Dir = "/data"
		ac, err := cfg.ArchiveConfig(snapshot.RollingHasher{})
		if err != nil {
			t.Fatalf("ArchiveConfig() error = %v", err)
		}
		if ac.Dir != filepath.Join("/data", "backups") {
			t.Errorf("Dir = %q", ac.Dir)
		}
		if ac.Cipher != nil || ac.Passphrase != nil {
			t.Error("unencrypted config should have no cipher or passphrase")
		}
	})

	t.Run("storage key", func(t *testing.T) {
		cfg := Default()
		cfg.Storage.EncryptionKey = testKey
		cfg.Storage.Cipher = "chacha20-poly1305"
		ac, err := cfg.ArchiveConfig(nil)
		if err != nil {
			t.Fatalf("ArchiveConfig() error = %v", err)
		}
		if ac.Cipher == nil || ac.Cipher.Type() != storage.CipherChaCha20 {
			t.Errorf("Cipher = %v, want chacha20", ac.Cipher)
		}
	})

	t.Run("passphrase wins", func(t *testing.T) {
		cfg := Default()
		cfg.Storage.EncryptionKey = testKey
		cfg.Backup.Passphrase = "correct horse"
		cfg.Backup.Dir = "/elsewhere"
		ac, err := cfg.ArchiveConfig(nil)
		if err != nil {
			t.Fatalf("ArchiveConfig() error = %v", err)
		}
		if string(ac.Passphrase) != "correct horse" || ac.Cipher != nil {
			t.Errorf("passphrase not preferred: %+v", ac)
		}
		if ac.Dir != "/elsewhere" {
			t.Errorf("Dir = %q", ac.Dir)
		}
	})
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Storage.EncryptionKey = testKey
	cfg.Backup.Passphrase = "secret"

	s := Sanitize(cfg)
	if strings.Contains(s.Storage.EncryptionKey, "0405") {
		t.Errorf("EncryptionKey not masked: %q", s.Storage.EncryptionKey)
	}
	if !strings.HasPrefix(s.Storage.EncryptionKey, "00") || !strings.HasSuffix(s.Storage.EncryptionKey, "1f") {
		t.Errorf("mask should keep ends: %q", s.Storage.EncryptionKey)
	}
	if s.Backup.Passphrase != "****" {
		t.Errorf("Passphrase = %q", s.Backup.Passphrase)
	}
	if cfg.Storage.EncryptionKey != testKey {
		t.Error("Sanitize must not modify the original")
	}
}
