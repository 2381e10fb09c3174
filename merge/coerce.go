package merge

import "strings"

// The merge engine is total: payloads arrive as decoded JSON of unknown
// shape, and every helper here degrades a wrong-shaped value to "absent"
// instead of failing.

func objectOf(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func objectAt(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	return objectOf(m[key])
}

func has(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	_, ok := m[key]
	return ok
}

// trimmedString coerces to a trimmed string; anything that is not a string
// yields "".
func trimmedString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func boolOf(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// intOf accepts only integral JSON numbers, mirroring a strict
// integer check on the wire value.
func intOf(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func sliceOf(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// stringList flattens an array value into its trimmed non-empty string
// entries, preserving order.
func stringList(v any) []string {
	entries, ok := sliceOf(v)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if s := trimmedString(entry); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// firstNonEmpty returns the first non-blank candidate, trimmed.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return ""
}
