package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// stringField reads key from a backend record as text. Numbers and booleans
// are formatted; absent or null values yield "".
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// nullableField is stringField with absent values kept as JSON null.
func nullableField(m map[string]any, key string) *string {
	if v, ok := m[key]; !ok || v == nil {
		return nil
	}
	s := stringField(m, key)
	return &s
}

func intField(m map[string]any, key string, fallback int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
