package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func logJSON(t *testing.T, args ...any) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("event", args...)

	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}
	return logEntry
}

func TestRedactSensitive_Keys(t *testing.T) {
	tests := []struct {
		key      string
		value    string
		redacted bool
	}{
		{"password", "hunter2", true},
		{"passphrase", "correct horse", true},
		{"encryption_key", "00112233", true},
		{"client_secret", "s", true},
		// Storage and region keys are identifiers, not secrets.
		{"key", "resume-data", false},
		{"region", "h1-title-name-0", false},
		{"password", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got := logJSON(t, tt.key, tt.value)[tt.key]
			if tt.redacted && got != redactedValue {
				t.Errorf("%s = %v, want redacted", tt.key, got)
			}
			if !tt.redacted && got != tt.value {
				t.Errorf("%s = %v, want %q", tt.key, got, tt.value)
			}
		})
	}
}

func TestRedactSensitive_SealedValue(t *testing.T) {
	sealed := sealedValuePrefix + "QUJDREVGR0hJSktMTU5PUA=="
	got := logJSON(t, "value", sealed)["value"]
	if got != sealedValuePrefix+"QUJ...A==" {
		t.Errorf("sealed value mask = %v", got)
	}
}

func TestRedactSensitive_TruncatesMarkup(t *testing.T) {
	long := strings.Repeat("<b>x</b>", 50)
	got, _ := logJSON(t, "html", long, "other", long)["html"].(string)
	if len(got) >= len(long) || !strings.Contains(got, "(400 bytes)") {
		t.Errorf("html not truncated: %q", got)
	}

	short := "<i>ok</i>"
	if got := logJSON(t, "html", short)["html"]; got != short {
		t.Errorf("short html = %v, want unchanged", got)
	}
	if got := logJSON(t, "other", long)["other"]; got != long {
		t.Error("non-markup keys must not be truncated")
	}
}

func TestRedactSensitive_Group(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "info", Format: "json", Output: &buf})
	l.Slog().WithGroup("storage").Info("event", "encryption_key", "abcd")
	if strings.Contains(buf.String(), "abcd") {
		t.Errorf("grouped secret leaked: %s", buf.String())
	}
}

func TestTruncateMarkup(t *testing.T) {
	exact := strings.Repeat("я", MaxMarkupLen)
	if TruncateMarkup(exact) != exact {
		t.Error("value at the limit should not be truncated")
	}
	over := exact + "!"
	if got := TruncateMarkup(over); !strings.HasPrefix(got, exact+"...") {
		t.Errorf("TruncateMarkup() = %q", got)
	}
}

func TestRedactString(t *testing.T) {
	if got := RedactString("plain"); got != "plain" {
		t.Errorf("RedactString(plain) = %q", got)
	}
	if got := RedactString(sealedValuePrefix + "abc"); got != sealedValuePrefix+"***" {
		t.Errorf("RedactString(short sealed) = %q", got)
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for key, want := range map[string]bool{
		"PASSWORD":               true,
		"storage.encryption_key": true,
		"fingerprint":            false,
		"key":                    false,
	} {
		if got := IsSensitiveKey(key); got != want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", key, got, want)
		}
	}
}
