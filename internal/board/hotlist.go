package board

import (
	"sort"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

// DefaultHotlistLimit is the number of entries on the daily hotlist.
const DefaultHotlistLimit = 20

// Hotlist ranks open requests by priority, status, due date and submission date and keeps the
// first limit entries. A non-positive limit uses DefaultHotlistLimit.
func Hotlist(requests []models.WorkRequest, limit int) []models.WorkRequest {
	if limit <= 0 {
		limit = DefaultHotlistLimit
	}
	ranked := openRequests(requests)
	sort.SliceStable(ranked, func(i, j int) bool {
		return urgencyLess(ranked[i], ranked[j], true)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
