package logic

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"hostgrip/internal/domain"
)

// maxSuggestDistance bounds how different a suggestion may be from the query
const maxSuggestDistance = 3

// ClosestHost returns the host name with the smallest edit distance to
// query, compared case-insensitively. Ties go to the earlier host. Nothing
// is suggested for an empty query or when every host is too far away.
func ClosestHost(query string, hosts []domain.HostEntry) (string, bool) {
	if query == "" {
		return "", false
	}
	q := strings.ToLower(query)

	best, bestDist := "", maxSuggestDistance+1
	for _, h := range hosts {
		d := levenshtein.ComputeDistance(q, strings.ToLower(h.Name))
		if d < bestDist {
			best, bestDist = h.Name, d
		}
	}
	return best, best != ""
}
