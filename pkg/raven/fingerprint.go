// fingerprint.go holds the grouping-key defaults for events.

package raven

import "strings"

// DefaultFingerprint asks the server to apply its own grouping.
// It can be combined with custom keys, e.g. {"{{ default }}", "tenant-a"}.
const DefaultFingerprint = "{{ default }}"

// IsDefaultFingerprint reports whether fp requests nothing beyond default
// grouping. Such fingerprints are not written to the wire.
func IsDefaultFingerprint(fp []string) bool {
	return len(fp) == 0 || (len(fp) == 1 && fp[0] == DefaultFingerprint)
}

// normalizeFingerprint drops blank keys and falls back to default grouping.
func normalizeFingerprint(fp []string) []string {
	out := make([]string, 0, len(fp))
	for _, part := range fp {
		if strings.TrimSpace(part) == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return []string{DefaultFingerprint}
	}
	return out
}
