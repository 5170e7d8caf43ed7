// Package output renders command results as a table, JSON or YAML.
package output
