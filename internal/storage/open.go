package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// Open opens the engine selected by cfg.Engine, sealing it when an
// encryption key is configured.
func Open(cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		store Store
		err   error
	)
	switch cfg.Engine {
	case EngineMemory:
		store = NewMemoryStore()
	case EngineFile, "":
		store, err = NewFileStore(cfg.Dir)
	case EngineBadger:
		store, err = NewBadgerStore(cfg, logger)
	case EngineSQLite:
		store, err = NewSQLiteStore(filepath.Join(cfg.Dir, "pagekeep.db"))
	default:
		return nil, fmt.Errorf("storage: unknown engine %q", cfg.Engine)
	}
	if err != nil {
		return nil, err
	}

	if cfg.EncryptionKey == "" {
		return store, nil
	}

	master, err := ParseKey(cfg.EncryptionKey)
	if err != nil {
		store.Close()
		return nil, err
	}
	key, err := DeriveSubkey(master, SubkeyStore)
	if err != nil {
		store.Close()
		return nil, err
	}
	c, err := NewCipher(key, CipherType(cfg.Cipher))
	if err != nil {
		store.Close()
		return nil, err
	}
	logger.Debug("storage sealed", "engine", cfg.Engine, "cipher", c.Type())
	return NewSealedStore(store, c), nil
}
