package board

import (
	"fmt"
	"strings"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

// Column is a kanban column: one of three age buckets of New Request, or a real status.
type Column string

// Age buckets of New Request.
const (
	ColumnNewRecent Column = "New (0-7 Days)"
	ColumnNewAging  Column = "New (8-14 Days)"
	ColumnNewStale  Column = "New (15+ Days)"
)

// Columns backed by a stored status.
const (
	ColumnInProgress = Column(models.StatusInProgress)
	ColumnOnHold     = Column(models.StatusOnHold)
	ColumnCompleted  = Column(models.StatusCompleted)
)

// Columns lists the board columns in display order.
var Columns = []Column{ColumnNewRecent, ColumnNewAging, ColumnNewStale, ColumnInProgress, ColumnOnHold, ColumnCompleted}

const (
	recentMaxAge = 7
	agingMaxAge  = 14
)

var columnKeys = map[Column]string{
	ColumnNewRecent:  "new_0_7",
	ColumnNewAging:   "new_8_14",
	ColumnNewStale:   "new_15_plus",
	ColumnInProgress: "in_progress",
	ColumnOnHold:     "on_hold",
	ColumnCompleted:  "completed",
}

// Key is a URL-safe identifier for the column.
func (c Column) Key() string { return columnKeys[c] }

// Virtual reports whether the column is an age bucket rather than a stored status.
func (c Column) Virtual() bool {
	return c == ColumnNewRecent || c == ColumnNewAging || c == ColumnNewStale
}

// BucketFor returns the column a request is shown in. New requests are split by
// floor(today - submittedDate) in days: <=7, 8..14, >14.
func BucketFor(request models.WorkRequest, today models.Date) Column {
	if request.Status != models.StatusNewRequest {
		return Column(request.Status)
	}
	age := today.DaysSince(request.SubmittedDate)
	switch {
	case age <= recentMaxAge:
		return ColumnNewRecent
	case age <= agingMaxAge:
		return ColumnNewAging
	default:
		return ColumnNewStale
	}
}

// RealStatusFor folds a column back to the status persisted when a card is dropped on it.
func RealStatusFor(column Column) models.Status {
	if column.Virtual() {
		return models.StatusNewRequest
	}
	return models.Status(column)
}

// ParseColumn accepts a column label, a column key or a status value.
func ParseColumn(raw string) (Column, error) {
	trimmed := strings.TrimSpace(raw)
	for _, c := range Columns {
		if strings.EqualFold(trimmed, string(c)) || strings.EqualFold(trimmed, c.Key()) {
			return c, nil
		}
	}
	if strings.EqualFold(trimmed, string(models.StatusNewRequest)) || strings.EqualFold(trimmed, "new_request") {
		return ColumnNewRecent, nil
	}
	return "", fmt.Errorf("unknown column %q", raw)
}
