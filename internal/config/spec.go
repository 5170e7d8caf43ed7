package config

// Config is the root configuration for pagekeep.
type Config struct {
	Storage  StorageSection  `koanf:"storage" json:"storage" yaml:"storage"`
	Snapshot SnapshotSection `koanf:"snapshot" json:"snapshot" yaml:"snapshot"`
	Autosave AutosaveSection `koanf:"autosave" json:"autosave" yaml:"autosave"`
	Backup   BackupSection   `koanf:"backup" json:"backup" yaml:"backup"`
	Gauge    GaugeSection    `koanf:"gauge" json:"gauge" yaml:"gauge"`
	Log      LogSection      `koanf:"log" json:"log" yaml:"log"`
	Metrics  MetricsSection  `koanf:"metrics" json:"metrics" yaml:"metrics"`
}

// StorageSection selects and tunes the key-value engine.
type StorageSection struct {
	// Engine is one of memory, file, badger, sqlite.
	Engine string `koanf:"engine" json:"engine" yaml:"engine"`
	Dir    string `koanf:"dir" json:"dir" yaml:"dir"`

	// Key is the storage key of the persisted document.
	Key string `koanf:"key" json:"key" yaml:"key"`

	// EncryptionKey is a hex 16/24/32-byte key. When set, values are
	// sealed at rest.
	EncryptionKey string `koanf:"encryption_key" json:"encryption_key" yaml:"encryption_key"`
	Cipher        string `koanf:"cipher" json:"cipher" yaml:"cipher"`

	Badger BadgerSection `koanf:"badger" json:"badger" yaml:"badger"`
}

// BadgerSection tunes the badger engine.
type BadgerSection struct {
	GCInterval       string  `koanf:"gc_interval" json:"gc_interval" yaml:"gc_interval"`
	GCThreshold      float64 `koanf:"gc_threshold" json:"gc_threshold" yaml:"gc_threshold"`
	CacheSize        int64   `koanf:"cache_size" json:"cache_size" yaml:"cache_size"`
	ValueLogFileSize int64   `koanf:"value_log_file_size" json:"value_log_file_size" yaml:"value_log_file_size"`
	SyncWrites       bool    `koanf:"sync_writes" json:"sync_writes" yaml:"sync_writes"`
}

// SnapshotSection configures change detection.
type SnapshotSection struct {
	// Fingerprint is one of rolling, murmur3, sha256.
	Fingerprint string `koanf:"fingerprint" json:"fingerprint" yaml:"fingerprint"`
}

// AutosaveSection configures debounced saving in watch mode.
type AutosaveSection struct {
	// Delay is the quiet period before a save, as a Go duration.
	Delay string `koanf:"delay" json:"delay" yaml:"delay"`
	// ShutdownTimeout bounds the final flush on SIGINT/SIGTERM.
	ShutdownTimeout string `koanf:"shutdown_timeout" json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// BackupSection configures snapshot archives.
type BackupSection struct {
	// Dir defaults to <storage.dir>/backups.
	Dir            string `koanf:"dir" json:"dir" yaml:"dir"`
	RetentionCount int    `koanf:"retention_count" json:"retention_count" yaml:"retention_count"`
	RetentionDays  int    `koanf:"retention_days" json:"retention_days" yaml:"retention_days"`
	Passphrase     string `koanf:"passphrase" json:"passphrase" yaml:"passphrase"`
}

// GaugeSection overrides the numeric fallback defaults.
type GaugeSection struct {
	MarkerClass  string   `koanf:"marker_class" json:"marker_class" yaml:"marker_class"`
	MarkerValue  float64  `koanf:"marker_value" json:"marker_value" yaml:"marker_value"`
	GroupClasses []string `koanf:"group_classes" json:"group_classes" yaml:"group_classes"`
	GroupValue   float64  `koanf:"group_value" json:"group_value" yaml:"group_value"`
	Value        float64  `koanf:"value" json:"value" yaml:"value"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Format string `koanf:"format" json:"format" yaml:"format"`
}

// MetricsSection configures the Prometheus endpoint served by watch.
type MetricsSection struct {
	// Addr is empty to disable the endpoint.
	Addr string `koanf:"addr" json:"addr" yaml:"addr"`
}
