package board

import "github.com/noah-isme/program-workboard-api/internal/models"

// compareDueNullsLast orders due dates ascending with missing dates last.
func compareDueNullsLast(a, b *models.Date) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// urgencyLess ranks by priority desc, due date asc (nulls last), then submitted asc.
// withStatus adds the status rank as a tiebreak after priority.
func urgencyLess(a, b models.WorkRequest, withStatus bool) bool {
	if c := compareInt(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
		return c > 0
	}
	if withStatus {
		if c := compareInt(a.Status.Rank(), b.Status.Rank()); c != 0 {
			return c > 0
		}
	}
	if c := compareDueNullsLast(a.DueDate, b.DueDate); c != 0 {
		return c < 0
	}
	return a.SubmittedDate.Before(b.SubmittedDate)
}

func openRequests(requests []models.WorkRequest) []models.WorkRequest {
	out := make([]models.WorkRequest, 0, len(requests))
	for _, r := range requests {
		if r.IsOpen() {
			out = append(out, r)
		}
	}
	return out
}
