package executor

import (
	"sort"
	"strings"
)

// MergeEnvironment returns a new KEY=VALUE slice built from base with
// overrides applied. Keys already present in base are replaced in place,
// new keys are appended in sorted order. base is never modified.
func MergeEnvironment(base []string, overrides map[string]string) []string {
	env := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))

	for _, kv := range base {
		key, _, ok := strings.Cut(kv, "=")
		if !ok {
			env = append(env, kv)
			continue
		}
		if value, override := overrides[key]; override {
			if seen[key] {
				continue
			}
			seen[key] = true
			env = append(env, key+"="+value)
			continue
		}
		env = append(env, kv)
	}

	extra := make([]string, 0, len(overrides))
	for key := range overrides {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		env = append(env, key+"="+overrides[key])
	}

	return env
}

// LookupEnvironment returns the value of key in a KEY=VALUE slice. The last
// assignment wins, matching how exec resolves duplicates.
func LookupEnvironment(env []string, key string) (string, bool) {
	value, found := "", false
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k == key {
			value, found = v, true
		}
	}
	return value, found
}
