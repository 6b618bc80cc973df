package cache

import "strings"

// uniqueKeys trims keys and drops blanks and repeats, keeping first-seen order.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func toArgs(prefix []any, keys []string) []any {
	args := make([]any, 0, len(prefix)+len(keys))
	args = append(args, prefix...)
	for _, k := range keys {
		args = append(args, k)
	}
	return args
}
