package board

import (
	"strings"

	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/internal/store"
)

// SearchLimit caps each result group.
const SearchLimit = 5

// SearchResult groups global search hits.
type SearchResult struct {
	WorkRequests []models.WorkRequest `json:"workRequests"`
	Schools      []models.School      `json:"schools"`
}

// Search matches query case-insensitively against request description, requestor and classroom,
// and against school names. A blank query matches nothing.
func Search(snap *store.Snapshot, query string) SearchResult {
	result := SearchResult{WorkRequests: []models.WorkRequest{}, Schools: []models.School{}}
	if strings.TrimSpace(query) == "" {
		return result
	}
	needle := strings.ToLower(query)

	for _, r := range snap.WorkRequests {
		if len(result.WorkRequests) == SearchLimit {
			break
		}
		if contains(r.Description, needle) || contains(r.RequestorName, needle) ||
			(r.Classroom != nil && contains(*r.Classroom, needle)) {
			result.WorkRequests = append(result.WorkRequests, r)
		}
	}
	for _, s := range snap.Schools {
		if len(result.Schools) == SearchLimit {
			break
		}
		if contains(s.Name, needle) {
			result.Schools = append(result.Schools, s)
		}
	}
	return result
}

func contains(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
