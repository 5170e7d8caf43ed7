package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/pagekeep/internal/infra/buildinfo"
)

const envMetadataKey = "env"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:                 "pagekeep",
		Usage:                "Persist and restore the editable regions of an HTML page",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			CollectCommand(),
			RestoreCommand(),
			ShowCommand(),
			ResetCommand(),
			StatusCommand(),
			CompactCommand(),
			BackupCommand(),
			ExportCommand(),
			EditCommand(),
			WatchCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: func(c *cli.Context) error {
			if c.App.Metadata == nil {
				c.App.Metadata = make(map[string]any)
			}
			env, err := newEnv(c)
			if err != nil {
				return err
			}
			c.App.Metadata[envMetadataKey] = env
			return nil
		},
		After: func(c *cli.Context) error {
			if env, ok := c.App.Metadata[envMetadataKey].(*Env); ok {
				return env.Close()
			}
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"PAGEKEEP_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "engine",
			Usage: "Storage engine: memory, file, badger, sqlite",
		},
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Storage directory",
		},
		&cli.StringFlag{
			Name:    "key",
			Aliases: []string{"k"},
			Usage:   "Storage key of the persisted document",
		},
		&cli.StringFlag{
			Name:  "fingerprint",
			Usage: "Change-detection hash: rolling, murmur3, sha256",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Shorthand for --log-level debug",
		},
	}
}

// flagOverrides maps explicitly set global flags to config keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	for flag, key := range map[string]string{
		"engine":      "storage.engine",
		"dir":         "storage.dir",
		"key":         "storage.key",
		"fingerprint": "snapshot.fingerprint",
		"log-level":   "log.level",
	} {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	if c.Bool("verbose") {
		overrides["log.level"] = "debug"
	}
	return overrides
}

// getEnv retrieves the Env built by the root Before hook.
func getEnv(c *cli.Context) (*Env, error) {
	if env, ok := c.App.Metadata[envMetadataKey].(*Env); ok {
		return env, nil
	}
	return nil, fmt.Errorf("command environment not initialized")
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
