package config

import (
	"github.com/yndnr/pagekeep/internal/core/region"
	"github.com/yndnr/pagekeep/internal/storage"
	"github.com/yndnr/pagekeep/internal/storage/snapshot"
)

// Default configuration values.
const (
	DefaultStorageDir = "./.pagekeep"
	DefaultStorageKey = "resume-data"

	DefaultAutosaveDelay   = "100ms"
	DefaultShutdownTimeout = "5s"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default configuration.
func Default() *Config {
	badger := storage.DefaultBadgerConfig()
	gauge := region.DefaultGaugeDefaults()

	return &Config{
		Storage: StorageSection{
			Engine: storage.EngineFile,
			Dir:    DefaultStorageDir,
			Key:    DefaultStorageKey,
			Cipher: string(storage.CipherAuto),
			Badger: BadgerSection{
				GCInterval:       badger.GCInterval,
				GCThreshold:      badger.GCThreshold,
				CacheSize:        badger.CacheSize,
				ValueLogFileSize: badger.ValueLogFileSize,
				SyncWrites:       badger.SyncWrites,
			},
		},
		Snapshot: SnapshotSection{
			Fingerprint: string(snapshot.AlgorithmRolling),
		},
		Autosave: AutosaveSection{
			Delay:           DefaultAutosaveDelay,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Backup: BackupSection{
			RetentionCount: snapshot.DefaultRetentionCount,
			RetentionDays:  snapshot.DefaultRetentionDays,
		},
		Gauge: GaugeSection{
			MarkerClass: gauge.MarkerClass,
			MarkerValue: gauge.MarkerValue,
			// GroupClasses stays empty: koanf merges slices into a
			// pre-filled one, so the built-in list is applied by GaugeDefaults.
			GroupValue: gauge.GroupValue,
			Value:      gauge.Value,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
