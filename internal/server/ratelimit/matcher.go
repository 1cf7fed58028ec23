package ratelimit

import "strings"

// MatchEndpoint returns the first config whose method and pattern match the
// request, or nil. Pattern segments written as "{name}" match any single
// non-empty segment; all other segments must match exactly.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method == method && matchPattern(cfg.Pattern, path) {
			return cfg
		}
	}
	return nil
}

func matchPattern(pattern, path string) bool {
	if pattern == path {
		return true
	}

	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if seg != got[i] {
			return false
		}
	}
	return true
}
