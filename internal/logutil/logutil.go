package logutil

import (
	"strings"
)

// MaxLoggedValueChars bounds page-originated text echoed to stdout or logs.
const MaxLoggedValueChars = 500

// TruncateForLog returns a single-line truncated preview for unstructured values.
func TruncateForLog(value string, maxChars int) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	normalized := strings.ReplaceAll(trimmed, "\r\n", "\\n")
	normalized = strings.ReplaceAll(normalized, "\n", "\\n")
	if maxChars <= 0 || len(normalized) <= maxChars {
		return normalized
	}
	return normalized[:maxChars] + "... [truncated]"
}

// ConsoleLine formats a browser console message for stdout.
func ConsoleLine(text string) string {
	return "CONSOLE: " + TruncateForLog(text, MaxLoggedValueChars)
}

// PageErrorLine formats an uncaught page error for stdout.
func PageErrorLine(text string) string {
	return "PAGE ERROR: " + TruncateForLog(text, MaxLoggedValueChars)
}
