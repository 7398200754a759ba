package encoding

import (
	"sort"
	"strings"
)

// maxPreferredBytes is the byte budget for the human-debuggable k=v form.
// Anything larger switches to the CBOR overflow form (spec §4.1, testable
// property #10).
const maxPreferredBytes = 250

// buildKV joins an ordered list of known key=value pairs with any extras
// (sorted by key for determinism) into one semicolon-separated string.
func buildKV(order []string, known map[string]string, extras map[string]string) string {
	parts := make([]string, 0, len(order)+len(extras))
	for _, k := range order {
		if v, ok := known[k]; ok {
			parts = append(parts, k+"="+v)
		}
	}
	if len(extras) > 0 {
		extraKeys := make([]string, 0, len(extras))
		for k := range extras {
			extraKeys = append(extraKeys, k)
		}
		sort.Strings(extraKeys)
		for _, k := range extraKeys {
			parts = append(parts, k+"="+extras[k])
		}
	}
	return strings.Join(parts, ";")
}

// parseKV splits a semicolon-separated k=v string into a flat map. Pairs
// without an "=" are ignored rather than failing the whole decode, since a
// stray separator shouldn't take down an otherwise-valid record.
func parseKV(s string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(s, ";") {
		if part == "" {
			continue
		}
		idx := strings.IndexByte(part, '=')
		if idx < 0 {
			continue
		}
		out[part[:idx]] = part[idx+1:]
	}
	return out
}

// splitKnownExtras partitions a flat k=v map into the keys named in known
// and everything else, so unknown keys round-trip through an extras map
// (spec §4.1: "unknown keys are preserved in an extras map").
func splitKnownExtras(fields map[string]string, knownKeys []string) (known map[string]string, extras map[string]string) {
	knownSet := make(map[string]bool, len(knownKeys))
	for _, k := range knownKeys {
		knownSet[k] = true
	}
	known = make(map[string]string, len(knownKeys))
	extras = make(map[string]string)
	for k, v := range fields {
		if knownSet[k] {
			known[k] = v
		} else {
			extras[k] = v
		}
	}
	return known, extras
}
