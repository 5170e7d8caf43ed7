// Package confloader loads layered configuration and watches files.
//
// Loading uses koanf with the priority Flag > Env > File > Default:
// defaults come from the pre-populated target struct, the YAML file and
// PAGEKEEP_ environment variables are merged on top, and flag overrides
// passed through WithOverrides win last.
//
// Watcher wraps fsnotify. It watches the parent directory so editors that
// replace files by rename are still seen, and only reports events for the
// files it was asked to watch.
package confloader
