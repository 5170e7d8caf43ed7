// Package command defines the pagekeep command-line interface.
//
// It uses urfave/cli/v2. The root Before hook loads and verifies the
// configuration, builds the logger and a per-invocation Env; commands
// open storage lazily through the Env so that `version` and `config`
// never touch the data directory.
package command
