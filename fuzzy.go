package georand

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxFuzzyDistance caps FuzzyDistance to keep the identifier scan cheap and
// to avoid matching unrelated short codes.
const maxFuzzyDistance = 3

// maxIdentifierLen bounds the input fed to the Levenshtein scan.
const maxIdentifierLen = 256

// fuzzyIdentifier returns the textual key closest to query within the
// configured edit distance. Comparison is case-insensitive. If the closest
// keys belong to different countries the match is ambiguous and nothing is
// returned.
func (r *Registry) fuzzyIdentifier(query string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}
	if runes := []rune(query); len(runes) > maxIdentifierLen {
		query = string(runes[:maxIdentifierLen])
	}
	q := strings.ToLower(query)

	best := r.config.FuzzyDistance + 1
	var match string
	bestUN, ambiguous := 0, false
	for k, v := range r.entries {
		if k.numeric || k.name == "" {
			continue
		}
		d := levenshtein.ComputeDistance(q, strings.ToLower(k.name))
		switch {
		case d > r.config.FuzzyDistance || d > best:
			continue
		case d < best:
			best, match, bestUN, ambiguous = d, k.name, v.UN, false
		case v.UN != bestUN:
			ambiguous = true
		case k.name < match:
			match = k.name
		}
	}
	if match == "" || ambiguous {
		return "", false
	}
	return match, true
}
