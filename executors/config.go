package executors

import (
	"fmt"
)

// Node configs arrive as opaque maps decoded from YAML or JSON, so
// numeric values may be int, int64, or float64 depending on the decoder.
// The helpers below normalize that without being strict about which
// decoder produced the map.

func stringOpt(cfg map[string]any, key, def string) string {
	if v, ok := cfg[key]; ok {
		if s, isString := v.(string); isString {
			return s
		}
	}
	return def
}

func requiredString(cfg map[string]any, key string) (string, error) {
	v, ok := cfg[key]
	if !ok {
		return "", fmt.Errorf("config key %q is required", key)
	}
	s, isString := v.(string)
	if !isString || s == "" {
		return "", fmt.Errorf("config key %q must be a non-empty string", key)
	}
	return s, nil
}

func intOpt(cfg map[string]any, key string, def int) int {
	switch v := cfg[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func floatOpt(cfg map[string]any, key string, def float64) float64 {
	switch v := cfg[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

func stringMapOpt(cfg map[string]any, key string) map[string]string {
	out := make(map[string]string)
	switch m := cfg[key].(type) {
	case map[string]any:
		for k, v := range m {
			out[k] = fmt.Sprint(v)
		}
	case map[string]string:
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
