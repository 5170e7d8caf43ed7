package command

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/pagekeep/internal/core/domain"
	"github.com/yndnr/pagekeep/internal/infra/buildinfo"
)

func TestApp_Commands(t *testing.T) {
	app := App()
	want := []string{"collect", "restore", "show", "reset", "status", "compact", "backup", "export", "edit", "watch", "config", "version"}
	for _, name := range want {
		if app.Command(name) == nil {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestApp_InvalidOutputFormat(t *testing.T) {
	_, _, err := runApp(t, t.TempDir(), "-o", "xml", "show")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("err = %v, want unknown output format", err)
	}
}

func TestApp_InvalidConfig(t *testing.T) {
	_, _, err := runApp(t, t.TempDir(), "--engine", "mongo", "show")
	if !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestFlagOverrides_Priority(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "pagekeep.yaml")
	content := "storage:\n  key: from-file\nlog:\n  format: json\n"
	if err := os.WriteFile(cfgFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	store := filepath.Join(dir, "store")

	var st statusResult
	out := mustRun(t, store, "-c", cfgFile, "-o", "json", "status")
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Key != "from-file" {
		t.Errorf("Key = %q, want from-file", st.Key)
	}

	t.Setenv("PAGEKEEP_STORAGE_KEY", "from-env")
	out = mustRun(t, store, "-c", cfgFile, "-o", "json", "status")
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatal(err)
	}
	if st.Key != "from-env" {
		t.Errorf("Key = %q, want from-env", st.Key)
	}

	out = mustRun(t, store, "-c", cfgFile, "-k", "from-flag", "-o", "json", "status")
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatal(err)
	}
	if st.Key != "from-flag" {
		t.Errorf("Key = %q, want from-flag", st.Key)
	}
}

func TestVerboseLogging(t *testing.T) {
	dir := t.TempDir()
	page := writeTestPage(t, dir, "Jane Doe", "75%")

	_, stderr, err := runApp(t, filepath.Join(dir, "store"), "-V", "collect", page)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "run_id=") || !strings.Contains(stderr, "level=DEBUG") {
		t.Errorf("stderr = %q, want debug lines tagged with run_id", stderr)
	}
}

func TestConfigShow(t *testing.T) {
	t.Setenv("PAGEKEEP_STORAGE_ENCRYPTION_KEY", strings.Repeat("ab", 16))
	t.Setenv("PAGEKEEP_BACKUP_PASSPHRASE", "hunter2")

	out := mustRun(t, t.TempDir(), "config", "show")
	if strings.Contains(out, strings.Repeat("ab", 16)) || strings.Contains(out, "hunter2") {
		t.Errorf("config show leaked a secret:\n%s", out)
	}
	for _, want := range []string{"storage:", "engine: file", "passphrase:"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}

	var cfg map[string]any
	if err := json.Unmarshal([]byte(mustRun(t, t.TempDir(), "-o", "json", "config", "show")), &cfg); err != nil {
		t.Fatalf("decode config json: %v", err)
	}
	if _, ok := cfg["storage"]; !ok {
		t.Errorf("config json = %v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	if out := mustRun(t, t.TempDir(), "config", "validate"); !strings.Contains(out, "configuration ok") {
		t.Errorf("validate output = %q", out)
	}

	t.Setenv("PAGEKEEP_AUTOSAVE_DELAY", "soon")
	if _, _, err := runApp(t, t.TempDir(), "config", "validate"); !errors.Is(err, domain.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestVersion(t *testing.T) {
	var info buildinfo.Info
	if err := json.Unmarshal([]byte(mustRun(t, t.TempDir(), "-o", "json", "version")), &info); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if info.Version != buildinfo.Version || info.GoVersion == "" {
		t.Errorf("version = %+v", info)
	}
}
