package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/pagekeep/internal/cli/output"
	"github.com/yndnr/pagekeep/internal/config"
	"github.com/yndnr/pagekeep/internal/core/region"
	"github.com/yndnr/pagekeep/internal/core/service"
	"github.com/yndnr/pagekeep/internal/infra/confloader"
	"github.com/yndnr/pagekeep/internal/storage"
	"github.com/yndnr/pagekeep/internal/storage/snapshot"
	"github.com/yndnr/pagekeep/internal/telemetry/logger"
	"github.com/yndnr/pagekeep/internal/telemetry/metric"
)

// Env carries the per-invocation configuration and lazily opened
// resources shared by commands.
type Env struct {
	Config  *config.Config
	Log     logger.Logger
	Metrics *metric.Registry
	RunID   string

	out    io.Writer
	format output.Format
	wide   bool

	hasher  snapshot.Hasher
	manager *service.DataManager
	store   storage.Store
	gateway *snapshot.Gateway
}

func newEnv(c *cli.Context) (*Env, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}

	cfg := config.Default()
	loader := confloader.NewLoader(
		confloader.WithConfigFile(c.String("config")),
		confloader.WithOverrides(flagOverrides(c)),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, err
	}

	logCfg := cfg.LoggerConfig()
	logCfg.Output = c.App.ErrWriter
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	runID := ulid.Make().String()
	env := &Env{
		Config:  cfg,
		Log:     log.With("run_id", runID),
		Metrics: metric.NewRegistry(),
		RunID:   runID,
		out:     c.App.Writer,
		format:  format,
		wide:    c.Bool("wide"),
	}

	env.hasher, err = snapshot.NewHasher(cfg.Snapshot.Fingerprint)
	if err != nil {
		return nil, err
	}
	codecs := region.NewCodecs(env.Slog(),
		region.WithGaugeDefaults(cfg.GaugeDefaults()),
		region.WithFallbackHook(env.Metrics.GaugeFallback),
	)
	env.manager = service.NewDataManager(codecs, env.Slog())
	return env, nil
}

// Slog returns the slog form of the logger.
func (e *Env) Slog() *slog.Logger {
	return e.Log.Slog()
}

// Context tags ctx with the logger and run ID.
func (e *Env) Context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, e.Log)
	return logger.WithRunID(ctx, e.RunID)
}

// Manager returns the data manager.
func (e *Env) Manager() *service.DataManager {
	return e.manager
}

// Hasher returns the configured fingerprint hasher.
func (e *Env) Hasher() snapshot.Hasher {
	return e.hasher
}

// Store opens the configured engine on first use.
func (e *Env) Store() (storage.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	store, err := storage.Open(e.Config.StorageConfig(), e.Slog())
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	e.store = store
	e.Log.Debug("storage opened", "engine", e.Config.Storage.Engine, "dir", e.Config.Storage.Dir)
	return store, nil
}

// Gateway returns the gateway for the configured storage key.
func (e *Env) Gateway() (*snapshot.Gateway, error) {
	if e.gateway != nil {
		return e.gateway, nil
	}
	store, err := e.Store()
	if err != nil {
		return nil, err
	}
	e.gateway = snapshot.NewGateway(store, e.Config.Storage.Key,
		snapshot.WithHasher(e.hasher),
		snapshot.WithLogger(e.Slog()),
		snapshot.WithObserver(e.Metrics),
	)
	return e.gateway, nil
}

// Archive opens the backup archive directory.
func (e *Env) Archive() (*snapshot.Archive, error) {
	cfg, err := e.Config.ArchiveConfig(e.hasher)
	if err != nil {
		return nil, err
	}
	return snapshot.NewArchive(cfg)
}

// Print writes data in the selected output format.
func (e *Env) Print(data any) error {
	return output.NewFormatter(e.format, e.wide).Format(e.out, data)
}

// Printf writes a plain message.
func (e *Env) Printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

// Format returns the selected output format.
func (e *Env) Format() output.Format {
	return e.format
}

// Close releases the store.
func (e *Env) Close() error {
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	if errors.Is(err, storage.ErrClosed) {
		return nil
	}
	return err
}
