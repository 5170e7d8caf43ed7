package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// sealedValuePrefix marks values encrypted by the sealed store.
const sealedValuePrefix = "pk-sealed:v1:"

// Key patterns whose values are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"passphrase",
	"secret",
	"encryption_key",
	"credential",
}

// Keys carrying page markup or text; long values are truncated.
var markupKeys = []string{
	"html",
	"markup",
	"content",
	"display",
	"input",
}

// MaxMarkupLen is the longest markup value logged verbatim.
const MaxMarkupLen = 120

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive rewrites attributes that carry secrets or bulky markup.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if strings.HasPrefix(strVal, sealedValuePrefix) {
			return slog.String(a.Key, maskValue(strVal, sealedValuePrefix))
		}
		if strVal != "" && IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if isMarkupKey(a.Key) {
			return slog.String(a.Key, TruncateMarkup(strVal))
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// maskValue keeps the prefix plus the first and last three characters.
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) <= 6 {
		return prefix + "***"
	}
	return prefix + body[:3] + "..." + body[len(body)-3:]
}

// TruncateMarkup shortens s to MaxMarkupLen runes and notes the original size.
func TruncateMarkup(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxMarkupLen {
		return s
	}
	return fmt.Sprintf("%s...(%d bytes)", string(runes[:MaxMarkupLen]), len(s))
}

// RedactString masks a sealed value; other values are returned unchanged.
func RedactString(value string) string {
	if strings.HasPrefix(value, sealedValuePrefix) {
		return maskValue(value, sealedValuePrefix)
	}
	return value
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

func isMarkupKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, k := range markupKeys {
		if keyLower == k {
			return true
		}
	}
	return false
}
