package tools

import (
	"strings"
	"unicode"
)

// Args holds the named arguments of one tool call, decoded from the model's
// JSON argument string.
type Args map[string]interface{}

// String returns a required string argument.
func (a Args) String(key string) (string, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return "", newToolError(KindInvalidArgs, nil, "Error: missing required argument '%s'.", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", newToolError(KindInvalidArgs, nil, "Error: argument '%s' must be a string, got %T.", key, raw)
	}
	return s, nil
}

// OptionalString returns a string argument or def when it is absent.
func (a Args) OptionalString(key, def string) (string, error) {
	if raw, ok := a[key]; !ok || raw == nil {
		return def, nil
	}
	return a.String(key)
}

// Bool returns a boolean argument or def when it is absent. The strings
// "true" and "false" are accepted since some models quote booleans.
func (a Args) Bool(key string, def bool) (bool, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, newToolError(KindInvalidArgs, nil, "Error: argument '%s' must be a boolean, got %v.", key, raw)
}

// TruncateWithEllipsis keeps the first maxLen characters of s and appends
// "..." when anything was cut.
func TruncateWithEllipsis(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// TrimArgs shortens long string values for display.
func TrimArgs(args Args, maxLen int) Args {
	trimmed := make(Args, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok {
			trimmed[k] = TruncateWithEllipsis(s, maxLen)
			continue
		}
		trimmed[k] = v
	}
	return trimmed
}

func trimRightSpace(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
