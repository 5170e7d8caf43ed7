package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const resumePage = `<!DOCTYPE html>
<html><body>
<h1 class="title name" id="full-name" contenteditable="true">%s</h1>
<ul class="list" contenteditable="true" data-type="list"><li>Go</li><li>SQL</li></ul>
<div class="skills-box">
  <div class="level" contenteditable="true" data-type="number">%s</div>
</div>
<p contenteditable="false">static</p>
</body></html>`

// writeTestPage writes a resume page with the given name and skill level.
func writeTestPage(t *testing.T, dir, name, level string) string {
	t.Helper()
	path := filepath.Join(dir, "resume.html")
	if err := os.WriteFile(path, []byte(fmt.Sprintf(resumePage, name, level)), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
	return path
}

// runApp runs the CLI against a file store in storeDir and returns what it
// wrote to stdout and stderr.
func runApp(t *testing.T, storeDir string, args ...string) (string, string, error) {
	t.Helper()
	return runAppContext(context.Background(), t, storeDir, args...)
}

func runAppContext(ctx context.Context, t *testing.T, storeDir string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr

	full := []string{"pagekeep", "--engine", "file", "--dir", storeDir}
	full = append(full, args...)
	err := app.RunContext(ctx, full)
	return stdout.String(), stderr.String(), err
}

// mustRun is runApp failing the test on error.
func mustRun(t *testing.T, storeDir string, args ...string) string {
	t.Helper()
	stdout, stderr, err := runApp(t, storeDir, args...)
	if err != nil {
		t.Fatalf("pagekeep %v: %v\nstderr: %s", args, err, stderr)
	}
	return stdout
}
