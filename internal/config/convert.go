package config

import (
	"path/filepath"
	"time"

	"github.com/yndnr/pagekeep/internal/core/region"
	"github.com/yndnr/pagekeep/internal/storage"
	"github.com/yndnr/pagekeep/internal/storage/snapshot"
	"github.com/yndnr/pagekeep/internal/telemetry/logger"
)

// StorageConfig converts the storage section for storage.Open.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Engine:        c.Storage.Engine,
		Dir:           c.Storage.Dir,
		EncryptionKey: c.Storage.EncryptionKey,
		Cipher:        c.Storage.Cipher,
		Badger: storage.BadgerConfig{
			GCInterval:       c.Storage.Badger.GCInterval,
			GCThreshold:      c.Storage.Badger.GCThreshold,
			CacheSize:        c.Storage.Badger.CacheSize,
			ValueLogFileSize: c.Storage.Badger.ValueLogFileSize,
			SyncWrites:       c.Storage.Badger.SyncWrites,
		},
	}
}

// BackupDir returns the archive directory.
func (c *Config) BackupDir() string {
	if c.Backup.Dir != "" {
		return c.Backup.Dir
	}
	return filepath.Join(c.Storage.Dir, "backups")
}

// ArchiveConfig converts the backup section for snapshot.NewArchive.
// Archives are sealed with the passphrase if set, else with a subkey of
// the storage encryption key.
func (c *Config) ArchiveConfig(hasher snapshot.Hasher) (snapshot.ArchiveConfig, error) {
	cfg := snapshot.DefaultArchiveConfig(c.BackupDir())
	cfg.RetentionCount = c.Backup.RetentionCount
	cfg.RetentionDays = c.Backup.RetentionDays
	cfg.Hasher = hasher

	switch {
	case c.Backup.Passphrase != "":
		cfg.Passphrase = []byte(c.Backup.Passphrase)
	case c.Storage.EncryptionKey != "":
		master, err := storage.ParseKey(c.Storage.EncryptionKey)
		if err != nil {
			return cfg, err
		}
		sub, err := storage.DeriveSubkey(master, storage.SubkeyArchive)
		if err != nil {
			return cfg, err
		}
		cipher, err := storage.NewCipher(sub, storage.CipherType(c.Storage.Cipher))
		if err != nil {
			return cfg, err
		}
		cfg.Cipher = cipher
	}
	return cfg, nil
}

// GaugeDefaults converts the gauge section. Empty group classes select
// the built-in groups.
func (c *Config) GaugeDefaults() region.GaugeDefaults {
	groups := c.Gauge.GroupClasses
	if len(groups) == 0 {
		groups = region.DefaultGaugeDefaults().GroupClasses
	}
	return region.GaugeDefaults{
		MarkerClass:  c.Gauge.MarkerClass,
		MarkerValue:  c.Gauge.MarkerValue,
		GroupClasses: groups,
		GroupValue:   c.Gauge.GroupValue,
		Value:        c.Gauge.Value,
	}
}

// LoggerConfig converts the log section.
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	return cfg
}

// AutosaveDelay returns the parsed debounce delay. Verify guarantees it
// parses.
func (c *Config) AutosaveDelay() time.Duration {
	d, _ := time.ParseDuration(c.Autosave.Delay)
	return d
}

// ShutdownTimeout returns the parsed final flush timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Autosave.ShutdownTimeout)
	return d
}
