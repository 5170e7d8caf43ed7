// Package config defines the pagekeep configuration structure.
//
// Values are loaded by infra/confloader (Flag > Env > File > Default) into
// a Config obtained from Default, then checked with Verify before use.
package config
